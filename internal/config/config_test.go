package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LABMET_STR", " value ")
	t.Setenv("LABMET_INT", "42")
	t.Setenv("LABMET_BADINT", "x")
	t.Setenv("LABMET_FLOAT", "0,8")
	t.Setenv("LABMET_DUR", "90")
	t.Setenv("LABMET_DUR2", "1m30s")
	t.Setenv("LABMET_LIST", "a, b,,c")
	t.Setenv("LABMET_BOOL", "true")

	if got := Env("LABMET_STR", "d"); got != "value" {
		t.Errorf("Env = %q", got)
	}
	if got := Env("LABMET_UNSET", "d"); got != "d" {
		t.Errorf("Env default = %q", got)
	}
	if EnvInt("LABMET_INT", 1) != 42 || EnvInt("LABMET_BADINT", 1) != 1 {
		t.Error("EnvInt")
	}
	if EnvFloat("LABMET_FLOAT", 1) != 0.8 {
		t.Error("EnvFloat with comma")
	}
	if EnvDuration("LABMET_DUR", 0) != 90*time.Second || EnvDuration("LABMET_DUR2", 0) != 90*time.Second {
		t.Error("EnvDuration")
	}
	if got := EnvList("LABMET_LIST", ""); strings.Join(got, "|") != "a|b|c" {
		t.Errorf("EnvList = %v", got)
	}
	if !EnvBool("LABMET_BOOL", false) {
		t.Error("EnvBool")
	}
}

func TestParseMap(t *testing.T) {
	m, err := ParseMap("plot1=aquacrop-a:50051, plot2=aquacrop-b:50051,")
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || m["plot2"] != "aquacrop-b:50051" {
		t.Fatalf("got %v", m)
	}
	if _, err := ParseMap("plot1"); err == nil {
		t.Fatal("pair without = accepted")
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LABMET_DOTENV_A=file\nLABMET_DOTENV_B=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LABMET_DOTENV_A", "process")
	LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { os.Unsetenv("LABMET_DOTENV_B") })

	if os.Getenv("LABMET_DOTENV_A") != "process" {
		t.Error("existing variable overridden")
	}
	if os.Getenv("LABMET_DOTENV_B") != "file" {
		t.Error("variable from file not loaded")
	}
}

const plotsYAML = `
stations:
  - id: st-1
    latitude: -22.7
    longitude: -47.6
plots:
  - id: potato-north
    station_id: st-1
    crop: potato
    awc: 35
    n_days: 130
    peak_l_a_index: 3
    eto_culture: 0.8
    avg_year_temp: 19
  - id: corn-east
    station_id: st-1
    crop: corn
    latitude: -22.0
    awc: 60
    n_days: 120
    peak_l_a_index: 4
    avg_year_temp: 21
    phenology:
      stage: flowering
      rh_pct: 60
      wind_ms: 6
    alerts:
      dry_soil_pct: 20
`

func TestParsePlots(t *testing.T) {
	f, err := ParsePlots([]byte(plotsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Plots) != 2 {
		t.Fatalf("plots = %d", len(f.Plots))
	}
	potato := f.Plots[0]
	if potato.Latitude != -22.7 {
		t.Errorf("latitude not inherited from station: %v", potato.Latitude)
	}
	if potato.Alerts.DrySoilPct != 15 || potato.Alerts.CooldownMinutes != 60 {
		t.Errorf("alert defaults not applied: %+v", potato.Alerts)
	}
	corn := f.Plots[1]
	if corn.Latitude != -22.0 || corn.Alerts.DrySoilPct != 20 || corn.Phenology == nil || corn.Phenology.WindSpeed != 6 {
		t.Errorf("corn = %+v", corn)
	}
}

func TestParsePlotsRejects(t *testing.T) {
	cases := map[string]string{
		"duplicate":  "plots:\n  - {id: a, station_id: s}\n  - {id: a, station_id: s}\n",
		"no id":      "plots:\n  - {station_id: s}\n",
		"no station": "plots:\n  - {id: a}\n",
		"unknown":    "plots:\n  - {id: a, station_id: s, colour: red}\n",
	}
	for name, doc := range cases {
		if _, err := ParsePlots([]byte(doc)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestLoadPlotsMissingFile(t *testing.T) {
	if _, err := LoadPlots(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
