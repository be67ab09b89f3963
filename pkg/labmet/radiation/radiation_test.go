package radiation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

func TestNewRejectsLatitude(t *testing.T) {
	d := time.Date(2008, 2, 15, 13, 15, 0, 0, time.UTC)
	for _, lat := range []float64{-90.5, 91, math.NaN()} {
		if _, err := New(d, lat); !errors.Is(err, labmet.ErrRange) {
			t.Errorf("lat %v: want ErrRange, got %v", lat, err)
		}
	}
}

func TestPolarNight(t *testing.T) {
	// Winter solstice north of the arctic circle.
	d := time.Date(2021, 12, 21, 0, 0, 0, 0, time.UTC)
	if _, err := New(d, 80); !errors.Is(err, labmet.ErrDomain) {
		t.Fatalf("want ErrDomain, got %v", err)
	}
}

func TestEquinoxIsTwelveHours(t *testing.T) {
	// Day 81 has zero declination in this model.
	d := time.Date(2021, 3, 22, 0, 0, 0, 0, time.UTC)
	g, err := New(d, -22.7)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Declination) > 1e-9 {
		t.Fatalf("declination = %v, want 0", g.Declination)
	}
	if math.Abs(g.Photoperiod-12) > 1e-9 {
		t.Fatalf("photoperiod = %v, want 12", g.Photoperiod)
	}
}

func TestPhotoperiodMirrorsAcrossHemispheres(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 365; day += 7 {
		d := start.AddDate(0, 0, day)
		for _, lat := range []float64{5, 22.5, 45, 60} {
			n, err := New(d, lat)
			if err != nil {
				t.Fatal(err)
			}
			s, err := New(d, -lat)
			if err != nil {
				t.Fatal(err)
			}
			if n.Photoperiod <= 0 || n.Photoperiod >= 24 {
				t.Fatalf("photoperiod %v out of (0, 24)", n.Photoperiod)
			}
			if math.Abs(n.Photoperiod+s.Photoperiod-24) > 1e-9 {
				t.Fatalf("day %d lat %v: %v + %v != 24", d.YearDay(), lat, n.Photoperiod, s.Photoperiod)
			}
		}
	}
}

func TestHoUnits(t *testing.T) {
	g, err := New(time.Date(2008, 2, 15, 13, 15, 0, 0, time.UTC), -21.23)
	if err != nil {
		t.Fatal(err)
	}
	ho := g.Ho()
	// Summer in the southern tropics: roughly 40 MJ m⁻² day⁻¹.
	if ho < 38 || ho > 43 {
		t.Fatalf("Ho = %v, want ~40", ho)
	}
	if math.Abs(g.HoMM()*2.45-ho) > 1e-9 {
		t.Errorf("HoMM inconsistent: %v", g.HoMM())
	}
	if math.Abs(g.HoCal()*0.041868-ho) > 1e-9 {
		t.Errorf("HoCal inconsistent: %v", g.HoCal())
	}
	// The tabulated value for February at 20-22°S is 16.0 mm/day.
	if math.Abs(g.HoMM()-16.0) > 0.5 {
		t.Errorf("HoMM = %v, want close to the tabulated 16.0", g.HoMM())
	}
	r := g.Result()
	if r.HoMJ != ho || r.DayOfYear != 46 {
		t.Errorf("Result = %+v", r)
	}
}

func TestHourAngle(t *testing.T) {
	tests := []struct {
		clock string
		want  float64
	}{
		{"12:00:00", 0},
		{"13:15:00", 18.75},
		{"06:00:00", -90},
	}
	for _, tt := range tests {
		tm, _ := time.Parse("15:04:05", tt.clock)
		if got := HourAngle(tm); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HourAngle(%s) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestCorrectedSolarConstant(t *testing.T) {
	g, err := New(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatal(err)
	}
	want := 1367 * (1 + 0.033*math.Cos(360.0/365*math.Pi/180))
	if math.Abs(g.CorrectedSolarConstant()-want) > 1e-9 {
		t.Fatalf("got %v want %v", g.CorrectedSolarConstant(), want)
	}
}

func TestTabulatedHo(t *testing.T) {
	v, err := TabulatedHo(-22, 1)
	if err != nil || v != 16.9 {
		t.Fatalf("TabulatedHo(-22, 1) = %v, %v", v, err)
	}
	v, err = TabulatedHo(-23.7, 6)
	if err != nil || v != 9.1 {
		t.Fatalf("odd latitude should use the lower even row: %v, %v", v, err)
	}
	if _, err := TabulatedHo(-22, 13); !errors.Is(err, labmet.ErrRange) {
		t.Errorf("month 13: %v", err)
	}
	if _, err := TabulatedHo(10, 1); !errors.Is(err, labmet.ErrNotFound) {
		t.Errorf("north: %v", err)
	}
	for _, lat := range []float64{-40, -30.5, -30.01, math.NaN()} {
		if _, err := TabulatedHo(lat, 1); !errors.Is(err, labmet.ErrRange) {
			t.Errorf("lat %v: %v", lat, err)
		}
	}
	if v, err := TabulatedHo(-30, 1); err != nil || v != 17.2 {
		t.Errorf("TabulatedHo(-30, 1) = %v, %v", v, err)
	}
}
