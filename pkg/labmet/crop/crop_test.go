package crop

import (
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

func TestLookup(t *testing.T) {
	p, err := Lookup("  Potato ")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "potato" || p.Ky != 1.1 || p.Pathway != C3 || p.HarvestedPart != "tuber" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if got := p.Kc[Flowering]; got.Min != 1.05 || got.Max != 1.2 {
		t.Fatalf("flowering kc = %+v", got)
	}
	corn, err := Lookup("corn")
	if err != nil {
		t.Fatal(err)
	}
	if corn.Pathway != C4 {
		t.Fatalf("corn pathway %s", corn.Pathway)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("mandrake")
	if !errors.Is(err, labmet.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	var nf *labmet.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want *NotFoundError, got %T", err)
	}
	if !sort.StringsAreSorted(nf.Valid) || len(nf.Valid) != len(profiles) {
		t.Fatalf("valid names = %v", nf.Valid)
	}
	if !strings.Contains(err.Error(), "potato") {
		t.Fatalf("message does not list crops: %s", err)
	}
}

func TestEveryProfileIsConsistent(t *testing.T) {
	for _, n := range Names() {
		p := profiles[n]
		if p.HarvestLimits.Min > p.HarvestLimits.Max || p.Humidity.Min > p.Humidity.Max {
			t.Errorf("%s: inverted limits %+v", n, p)
		}
		if p.Ky <= 0 {
			t.Errorf("%s: ky %v", n, p.Ky)
		}
	}
	for n, kc := range kcTable {
		for _, st := range Stages {
			l, ok := kc[st]
			if !ok {
				t.Errorf("%s: missing stage %s", n, st)
				continue
			}
			if l.Min > l.Max {
				t.Errorf("%s/%s: inverted %+v", n, st, l)
			}
		}
	}
}

func TestCoefficients(t *testing.T) {
	p, _ := Lookup("potato")
	tests := []struct {
		name     string
		rh, wind float64
		want     float64
	}{
		{"humid calm", 80, 2, 1.05},
		{"dry windy", 40, 7, 1.2},
		{"mixed", 80, 7, 1.125},
		{"boundary", 70, 5, 1.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kc, err := p.Coefficients(tt.rh, tt.wind)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(kc[Flowering]-tt.want) > 1e-9 {
				t.Fatalf("flowering kc = %v, want %v", kc[Flowering], tt.want)
			}
		})
	}
	if _, err := p.Coefficients(120, 1); !errors.Is(err, labmet.ErrRange) {
		t.Fatalf("rh 120: %v", err)
	}
	if got := p.AverageCoefficients()[Establishment]; math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("average establishment kc = %v", got)
	}
}

func TestReferenceDataIsNotShared(t *testing.T) {
	p, err := Lookup("potato")
	if err != nil {
		t.Fatal(err)
	}
	p.Kc[Flowering] = Limits{Min: 9, Max: 9}
	delete(p.Kc, Ripening)

	again, err := Lookup("potato")
	if err != nil {
		t.Fatal(err)
	}
	if got := again.Kc[Flowering]; got.Min != 1.05 || got.Max != 1.2 {
		t.Fatalf("flowering kc changed through a lookup: %+v", got)
	}
	if _, ok := again.Kc[Ripening]; !ok {
		t.Fatal("ripening kc removed through a lookup")
	}

	kc, err := KcStages("potato")
	if err != nil {
		t.Fatal(err)
	}
	kc[Flowering] = Limits{}
	if got := again.Kc[Flowering]; got.Max != 1.2 {
		t.Fatalf("KcStages shares the table: %+v", got)
	}
	if kc2, _ := KcStages("potato"); kc2[Flowering].Max != 1.2 {
		t.Fatalf("KcStages shares the table: %+v", kc2[Flowering])
	}
}

func TestKcStages(t *testing.T) {
	if _, err := KcStages("coffee"); err != nil {
		t.Fatalf("coffee kc: %v", err)
	}
	if _, err := KcStages("mandrake"); !errors.Is(err, labmet.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTable(t *testing.T) {
	out := Table()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(profiles)+1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "crop") {
		t.Fatalf("header = %q", lines[0])
	}
}
