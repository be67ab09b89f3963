package entities

import (
	"errors"
	"testing"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/crop"
)

func TestAquaCropConfigUsesStageKc(t *testing.T) {
	p := Plot{
		ID: "p1", Crop: "potato", Latitude: 51.5, AWC: 35, CycleDays: 130, PeakLAI: 3, AnnualMeanTemp: 19,
		Phenology: &Phenology{Stage: crop.Flowering, Humidity: 80, WindSpeed: 2},
	}
	cfg, err := p.AquaCropConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EToMultiplier != 1.05 {
		t.Fatalf("multiplier = %v, want the humid/calm flowering Kc 1.05", cfg.EToMultiplier)
	}

	p.EToMultiplier = 0.8
	cfg, _ = p.AquaCropConfig()
	if cfg.EToMultiplier != 0.8 {
		t.Fatalf("explicit multiplier overridden: %v", cfg.EToMultiplier)
	}
}

func TestAquaCropConfigUnknownStage(t *testing.T) {
	p := Plot{ID: "p1", Crop: "potato", Phenology: &Phenology{Stage: "dormancy", Humidity: 50}}
	if _, err := p.AquaCropConfig(); !errors.Is(err, labmet.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAlertPolicyDefaults(t *testing.T) {
	got := AlertPolicy{StressRatio: 0.5}.WithDefaults()
	if got.DrySoilPct != 15 || got.StressRatio != 0.5 || got.CooldownMinutes != 60 {
		t.Fatalf("got %+v", got)
	}
}
