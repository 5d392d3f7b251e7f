package elevation

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dave/odt/geo"
	"github.com/goccy/go-json"
)

const USGSURL = "https://epqs.nationalmap.gov/v1/json"

// USGS queries the 3DEP Elevation Point Query Service one point at a time.
type USGS struct {
	URL    string
	Client *http.Client
}

// NewUSGS creates a client for the point query service. The service's certificate chain is missing from
// some system stores, so verification can be switched off with insecure. This only applies to the
// dedicated transport used here.
func NewUSGS(endpoint string, insecure bool, conns int) *USGS {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = conns
	transport.MaxConnsPerHost = conns
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &USGS{
		URL:    endpoint,
		Client: &http.Client{Transport: transport},
	}
}

type epqsResponse struct {
	Value json.RawMessage `json:"value"`
}

func (u *USGS) Elevation(ctx context.Context, pos geo.Pos) (float64, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatFloat(pos.Lon, 'f', 6, 64))
	q.Set("y", strconv.FormatFloat(pos.Lat, 'f', 6, 64))
	q.Set("units", "Feet")
	q.Set("includeDate", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, &Failure{Kind: Permanent, Err: fmt.Errorf("creating request: %w", err)}
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("querying epqs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("reading epqs response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, StatusFailure(resp.StatusCode, pageMessage(body))
	}

	var r epqsResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, &Failure{Kind: Transient, Err: fmt.Errorf("malformed response %q: %w", pageMessage(body), err)}
	}
	raw := strings.Trim(strings.TrimSpace(string(r.Value)), `"`)
	if raw == "" || raw == "null" {
		return 0, &Failure{Kind: Transient, Err: ErrNoData}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &Failure{Kind: Transient, Err: fmt.Errorf("parsing value %q: %w", raw, err)}
	}
	return v, nil
}

// pageMessage summarises a response body for error messages. The service sometimes answers with an html
// error page instead of json, in which case the page title is the useful part.
func pageMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		if dom, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed)); err == nil {
			if title := strings.TrimSpace(dom.Find("title").First().Text()); title != "" {
				return title
			}
			if text := strings.Join(strings.Fields(dom.Find("body").Text()), " "); text != "" {
				return truncate(text, 120)
			}
		}
	}
	return truncate(string(trimmed), 120)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
