package gpx

import "testing"

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<trk>
		<name>05 Steens</name>
		<trkseg>
			<trkpt lat="42.6" lon="-118.6"></trkpt>
			<trkpt lat="42.7" lon="-118.7"></trkpt>
		</trkseg>
		<trkseg>
			<trkpt lat="42.8" lon="-118.8"></trkpt>
		</trkseg>
	</trk>
	<rte>
		<name>06 Alvord</name>
		<rtept lat="42.5" lon="-118.5"></rtept>
	</rte>
</gpx>`

func TestDecode(t *testing.T) {
	tracks, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Name != "05 Steens" || len(tracks[0].Line) != 3 {
		t.Fatalf("unexpected track: %+v", tracks[0])
	}
	if tracks[0].Line[2].Lon != -118.8 || tracks[0].Line[2].Lat != 42.8 {
		t.Fatalf("unexpected last point: %+v", tracks[0].Line[2])
	}
	if tracks[1].Name != "06 Alvord" || len(tracks[1].Line) != 1 {
		t.Fatalf("unexpected route: %+v", tracks[1])
	}
}
