package geospatial

import "testing"

func TestPointIndex_Nearest(t *testing.T) {
	idx := NewPointIndex([]Point{
		{Lat: 70.0, Lon: 20.0},
		{Lat: 70.1, Lon: 20.1},
		{Lat: 70.2, Lon: 20.2},
	})

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantPos int
	}{
		{name: "exact first", lat: 70.0, lon: 20.0, wantPos: 0},
		{name: "near middle", lat: 70.11, lon: 20.09, wantPos: 1},
		{name: "past the end", lat: 71.0, lon: 21.0, wantPos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, _, ok := idx.Nearest(tt.lat, tt.lon)
			if !ok {
				t.Fatal("expected a result")
			}
			if pos != tt.wantPos {
				t.Errorf("pos = %d, want %d", pos, tt.wantPos)
			}
		})
	}

	if _, d, _ := idx.Nearest(70.0, 20.0); d != 0 {
		t.Errorf("distance to an indexed point = %v, want 0", d)
	}
}

func TestPointIndex_DuplicatesPreferEarliest(t *testing.T) {
	idx := NewPointIndex([]Point{
		{Lat: 10, Lon: 10},
		{Lat: 5, Lon: 5},
		{Lat: 5, Lon: 5},
	})
	pos, _, ok := idx.Nearest(5, 5)
	if !ok || pos != 1 {
		t.Errorf("pos = %d ok=%v, want 1", pos, ok)
	}
}

func TestPointIndex_Empty(t *testing.T) {
	idx := NewPointIndex(nil)
	if idx.Len() != 0 {
		t.Fatalf("Len = %d", idx.Len())
	}
	if _, _, ok := idx.Nearest(0, 0); ok {
		t.Error("expected no result from an empty index")
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil, 0); ok {
		t.Fatal("expected ok=false for no points")
	}

	box, ok := Bounds([]Point{{Lat: 70.0, Lon: 20.0}, {Lat: 70.2, Lon: 20.4}, {Lat: 69.9, Lon: 20.1}}, 0)
	if !ok {
		t.Fatal("expected ok")
	}
	if box.Min.Lat != 69.9 || box.Max.Lat != 70.2 || box.Min.Lon != 20.0 || box.Max.Lon != 20.4 {
		t.Errorf("unexpected box %+v", box)
	}
	c := box.Center()
	if c.Lat <= 69.9 || c.Lat >= 70.2 || c.Lon <= 20.0 || c.Lon >= 20.4 {
		t.Errorf("center %+v outside box", c)
	}

	single, ok := Bounds([]Point{{Lat: 70.0, Lon: 20.0}}, 5000)
	if !ok {
		t.Fatal("expected ok")
	}
	if !(single.Min.Lat < 70.0 && single.Max.Lat > 70.0) {
		t.Errorf("single point not padded: %+v", single)
	}
}
