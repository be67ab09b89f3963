package waterbalance

import (
	"errors"
	"math"
	"testing"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func update(t *testing.T, a *Accountant, p, pet float64) Report {
	t.Helper()
	r, err := a.Update(p, pet)
	if err != nil {
		t.Fatalf("update(%v, %v): %v", p, pet, err)
	}
	return r
}

func TestThreePeriodScenario(t *testing.T) {
	a, err := New(100, 0)
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		p, pet                  float64
		storage, deficit, exces float64
		accNeg                  float64
	}{
		{10, 25, 86.07079764250578, 1.0707976425057808, 0, -15},
		{100, 25, 100, 0, 61.07079764250578, 0},
		{35, 45, 90.48374180359595, 0.4837418035959473, 0, -10},
	}
	for i, s := range steps {
		r := update(t, a, s.p, s.pet)
		if !near(r.Storage, s.storage) || !near(r.Deficit, s.deficit) || !near(r.Excess, s.exces) {
			t.Fatalf("step %d: got (storage %v, deficit %v, excess %v), want (%v, %v, %v)",
				i+1, r.Storage, r.Deficit, r.Excess, s.storage, s.deficit, s.exces)
		}
		if !near(r.AccumulatedNegative, s.accNeg) {
			t.Fatalf("step %d: accumulated negative %v, want %v", i+1, r.AccumulatedNegative, s.accNeg)
		}
		if r.PrecipitationPET != s.p-s.pet || r.Precipitation != s.p || r.PET != s.pet {
			t.Fatalf("step %d: inputs not echoed: %+v", i+1, r)
		}
	}
	r, _ := a.Report()
	if !near(r.RealET, 44.51625819640405) || !near(r.Variation, -9.516258196404053) {
		t.Fatalf("last real ET/variation = %v/%v", r.RealET, r.Variation)
	}
}

func TestReportBeforeUpdate(t *testing.T) {
	a, err := New(100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Report(); !errors.Is(err, labmet.ErrState) {
		t.Fatalf("want ErrState, got %v", err)
	}
}

func TestReportIsIdempotent(t *testing.T) {
	a, _ := New(100, 0)
	want := update(t, a, 10, 25)
	for i := 0; i < 3; i++ {
		got, err := a.Report()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("report changed: %+v vs %+v", got, want)
		}
	}
}

func TestSimple(t *testing.T) {
	a, err := Simple(100, 45, 35)
	if err != nil {
		t.Fatal(err)
	}
	r, err := a.Report()
	if err != nil {
		t.Fatal(err)
	}
	if r.Storage != 10 || r.Variation != 0 || r.RealET != 35 || r.Excess != 0 || r.Deficit != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestStorageStaysWithinCapacity(t *testing.T) {
	a, _ := New(50, 50)
	inputs := [][2]float64{{0, 5}, {0, 5}, {20, 2}, {300, 1}, {0, 80}, {0, 200}, {1, 0}, {0, 0}}
	for _, in := range inputs {
		r := update(t, a, in[0], in[1])
		if r.Storage < 0 || r.Storage > 50 {
			t.Fatalf("storage %v out of [0, 50] after %v", r.Storage, in)
		}
		if r.AccumulatedNegative > eps {
			t.Fatalf("accumulated negative %v > 0 after %v", r.AccumulatedNegative, in)
		}
	}
}

func TestRefillAfterDrought(t *testing.T) {
	a, _ := New(50, 50)
	update(t, a, 0, 5)
	update(t, a, 0, 5)
	r := update(t, a, 20, 2)
	if r.Storage != 50 || !near(r.Excess, 8.936537653899094) {
		t.Fatalf("got %+v", r)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := New(100, 0)
	update(t, a, 10, 25)
	c := a.Clone()
	update(t, c, 100, 25)
	r, _ := a.Report()
	if !near(r.Storage, 86.07079764250578) {
		t.Fatalf("original mutated by clone: %+v", r)
	}
	if c.Storage() != 100 {
		t.Fatalf("clone storage %v", c.Storage())
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 0); !errors.Is(err, labmet.ErrRange) {
		t.Errorf("awc 0: %v", err)
	}
	if _, err := New(100, 120); !errors.Is(err, labmet.ErrRange) {
		t.Errorf("storage above awc: %v", err)
	}
	if _, err := New(100, math.NaN()); !errors.Is(err, labmet.ErrRange) {
		t.Errorf("NaN storage: %v", err)
	}
}

func TestUpdateRejectsNonFinite(t *testing.T) {
	a, _ := New(100, 0)
	before := update(t, a, 10, 25)
	for _, in := range [][2]float64{{math.NaN(), 5}, {10, math.NaN()}, {math.Inf(1), 5}, {0, math.Inf(-1)}} {
		if _, err := a.Update(in[0], in[1]); !errors.Is(err, labmet.ErrRange) {
			t.Fatalf("update %v: want ErrRange, got %v", in, err)
		}
	}
	if r, _ := a.Report(); r != before || a.Storage() != before.Storage {
		t.Fatalf("balance changed after rejected input: %+v", r)
	}
	if _, err := Simple(100, math.NaN(), 5); !errors.Is(err, labmet.ErrRange) {
		t.Fatalf("Simple with NaN: %v", err)
	}
}
