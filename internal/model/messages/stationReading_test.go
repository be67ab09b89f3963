package messages

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

func TestUnmarshalFirmwarePayload(t *testing.T) {
	payload := `{
		"collected_at": "03/14/2024T10:30:00",
		"bmp180_temp": 22.1, "bmp180_alt": 540, "bmp180_press": 1.7,
		"ds18b20_temp": "21,5", "dht22_temp": 22.0, "dht22_humid": 63,
		"bh1750_illuminance": 850, "analog_soil_moisture": 41.2
	}`
	var r StationReading
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatal(err)
	}
	if r.DS18B20Temp != 21.5 || r.BH1750Illuminance != 850 || r.AnalogSoilMoisture != 41.2 {
		t.Fatalf("decoded %+v", r)
	}
	if r.CollectedAt.Month() != time.March || r.CollectedAt.Day() != 14 || r.CollectedAt.Hour() != 10 {
		t.Fatalf("collected_at = %v", r.CollectedAt)
	}
	if r.DHT22Humid != 63 {
		t.Fatalf("optional field lost: %v", r.DHT22Humid)
	}
}

func TestUnmarshalMissingRequired(t *testing.T) {
	var r StationReading
	err := json.Unmarshal([]byte(`{"ds18b20_temp": 20, "bh1750_illuminance": 100}`), &r)
	if !errors.Is(err, labmet.ErrType) {
		t.Fatalf("want ErrType, got %v", err)
	}
	err = json.Unmarshal([]byte(`{"collected_at": "yesterday", "ds18b20_temp": 20, "bh1750_illuminance": 1, "analog_soil_moisture": 3}`), &r)
	if !errors.Is(err, labmet.ErrType) {
		t.Fatalf("bad date: want ErrType, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := StationReading{
		StationID:          "st-1",
		CollectedAt:        time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
		DS18B20Temp:        18.25,
		BH1750Illuminance:  12000,
		AnalogSoilMoisture: 33,
		Aggregated:         true,
		Samples:            6,
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out StationReading
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if !out.CollectedAt.Equal(in.CollectedAt) || out.StationID != "st-1" || !out.Aggregated || out.Samples != 6 {
		t.Fatalf("got %+v", out)
	}
}
