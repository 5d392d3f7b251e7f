package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dave/odt/checkpoint"
	"github.com/dave/odt/config"
	"github.com/dave/odt/elevation"
	"github.com/dave/odt/geo"
	"github.com/dave/odt/metrics"
	"github.com/dave/odt/profile"
	"github.com/dave/odt/report"
	"github.com/dave/odt/track"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Builder runs the whole pipeline once.
type Builder struct {
	Config *config.Config
	Resume bool
	Log    logrus.FieldLogger
	Out    io.Writer // comparison report

	// Source overrides the configured elevation source
	Source elevation.Source
}

// Outcome of a successful build
type Outcome struct {
	Points       int
	Resumed      int
	Failed       int // lookups that failed every attempt, across resumed and fetched points
	Interpolated int
	Bytes        int
	Comparison   report.Comparison
}

func (b *Builder) Build(ctx context.Context) (*Outcome, error) {
	cfg := b.Config
	log := b.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	out := b.Out
	if out == nil {
		out = io.Discard
	}

	var m *metrics.Metrics
	if cfg.Metrics.Textfile != "" {
		m = metrics.New()
	}

	store := checkpoint.NewStore(cfg.Checkpoint)
	var resume *checkpoint.Checkpoint
	if b.Resume {
		var err error
		resume, err = store.Load()
		if err != nil {
			return nil, fmt.Errorf("loading checkpoint: %w", err)
		}
		if resume == nil {
			log.Warnf("no checkpoint at %s, starting from the beginning", cfg.Checkpoint)
		} else {
			log.Infof("resuming from checkpoint at point %d", resume.Done)
		}
	}

	log.Info("[1/4] parsing and stitching tracks")
	segments := track.Load(cfg.Tracks, log)
	line := track.Stitch(segments, cfg.Stitch.SeamThreshold)
	if len(line) == 0 {
		return nil, errors.New("no track points found")
	}
	log.Infof("%d segments stitched into %d points, %.1f km", len(segments), len(line), line.Length()/1000)

	log.Info("[2/4] calculating distances")
	points := track.Measure(line)
	log.Infof("total distance %.1f mi", points[len(points)-1].Miles)
	m.Points(len(points))

	log.Info("[3/4] backing up the published profile")
	if resume != nil {
		log.Info("resumed run, keeping the existing backup")
	} else if cfg.Backup != "" {
		ok, err := profile.Backup(cfg.Output, cfg.Backup)
		if err != nil {
			return nil, fmt.Errorf("backing up profile: %w", err)
		}
		if ok {
			log.Infof("backed up %s to %s", cfg.Output, cfg.Backup)
		} else {
			log.Infof("no published profile at %s", cfg.Output)
		}
	}

	log.Info("[4/4] fetching elevations")
	src, err := b.source()
	if err != nil {
		return nil, err
	}
	fetcher := &elevation.Fetcher{
		Source:      src,
		Store:       store,
		Concurrency: cfg.Elevation.Concurrency,
		BatchSize:   cfg.Elevation.BatchSize,
		Retry: elevation.Retry{
			Limit:   cfg.Elevation.RetryLimit,
			Delay:   cfg.Elevation.RetryDelay,
			Timeout: cfg.Elevation.AttemptTimeout,
		},
		Progress: cfg.Elevation.ProgressInterval,
		Log:      log,
		Metrics:  m,
	}
	result, err := fetcher.Fetch(ctx, positions(points), resume)
	if err != nil {
		return nil, fmt.Errorf("fetching elevations: %w", err)
	}
	log.Infof("fetched %s points in %s", humanize.Comma(int64(result.Fetched)), result.Elapsed.Round(time.Second))

	elevations := result.Elevations
	missing := elevations.Missing()
	if missing > 0 {
		log.Warnf("%d points failed, interpolating", missing)
		elevations, err = profile.Fill(elevations)
		if err != nil {
			return nil, fmt.Errorf("interpolating gaps: %w", err)
		}
		log.Infof("interpolated %d gaps", missing)
	}
	m.Interpolated(missing)

	samples, err := profile.Build(points, elevations)
	if err != nil {
		return nil, fmt.Errorf("assembling profile: %w", err)
	}
	size, err := profile.Save(cfg.Output, samples)
	if err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	log.Infof("wrote %d points to %s (%s)", len(samples), cfg.Output, humanize.Bytes(uint64(size)))

	if removed, err := store.Remove(); err != nil {
		return nil, fmt.Errorf("removing checkpoint: %w", err)
	} else if removed {
		log.Debugf("removed checkpoint %s", cfg.Checkpoint)
	}

	var previous []profile.Sample
	if cfg.Backup != "" {
		previous, err = profile.Load(cfg.Backup)
		if err != nil {
			log.WithError(err).Warn("previous profile not readable, skipping comparison")
			previous = nil
		}
	}
	comparison := report.Compare(previous, samples)
	if err := comparison.Print(out); err != nil {
		return nil, fmt.Errorf("printing comparison: %w", err)
	}

	if cfg.Report.Chart != "" {
		if err := report.Chart(cfg.Report.Chart, previous, samples); err != nil {
			return nil, fmt.Errorf("drawing chart: %w", err)
		}
		log.Infof("chart saved to %s", cfg.Report.Chart)
	}

	if cfg.Metrics.Textfile != "" {
		m.Success(time.Now())
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return nil, err
		}
	}

	return &Outcome{
		Points:       len(samples),
		Resumed:      result.Resumed,
		Failed:       missing,
		Interpolated: missing,
		Bytes:        size,
		Comparison:   comparison,
	}, nil
}

func (b *Builder) source() (elevation.Source, error) {
	if b.Source != nil {
		return b.Source, nil
	}
	e := b.Config.Elevation
	switch e.Source {
	case "srtm":
		src, err := elevation.NewSRTM(http.DefaultClient)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "usgs":
		return elevation.NewUSGS(e.URL, e.InsecureTLS, e.Concurrency), nil
	}
	return nil, fmt.Errorf("unknown elevation source %q", e.Source)
}

func positions(points []track.Point) []geo.Pos {
	out := make([]geo.Pos, len(points))
	for i, p := range points {
		out[i] = p.Pos
	}
	return out
}
