package messages

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

// StationTimeLayout is the collected_at layout used by the station firmware.
const StationTimeLayout = "01/02/2006T15:04:05"

// StationReading holds both raw and aggregated station data.
type StationReading struct {
	StationID   string    `json:"station_id"`
	CollectedAt time.Time `json:"-"`

	BMP180Temp         float64 `json:"bmp180_temp"`
	BMP180Alt          float64 `json:"bmp180_alt"`
	BMP180Press        float64 `json:"bmp180_press"`
	DS18B20Temp        float64 `json:"ds18b20_temp"`
	DHT22Temp          float64 `json:"dht22_temp"`
	DHT22Humid         float64 `json:"dht22_humid"`
	BH1750Illuminance  float64 `json:"bh1750_illuminance"`
	AnalogSoilMoisture float64 `json:"analog_soil_moisture"`

	Aggregated bool `json:"aggregated"`
	Samples    int  `json:"samples,omitempty"`
}

// MarshalJSON publishes collected_at as RFC 3339.
func (r StationReading) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// UnmarshalJSON accepts both the firmware payload and the aggregated one.
func (r *StationReading) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := DecodeStationReading(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// DecodeStationReading parses a station payload. Numeric fields may arrive
// as numbers or numeric strings; the mandatory ones are the probe
// temperature, the illuminance and the soil moisture.
func DecodeStationReading(raw map[string]any) (StationReading, error) {
	var r StationReading
	r.StationID, _ = raw["station_id"].(string)
	if s, ok := raw["collected_at"].(string); ok && s != "" {
		t, err := ParseCollectedAt(s)
		if err != nil {
			return r, err
		}
		r.CollectedAt = t
	}
	if b, ok := raw["aggregated"].(bool); ok {
		r.Aggregated = b
	}
	if n, err := labmet.Float(raw["samples"]); err == nil {
		r.Samples = int(n)
	}

	required := []struct {
		key string
		dst *float64
	}{
		{"ds18b20_temp", &r.DS18B20Temp},
		{"bh1750_illuminance", &r.BH1750Illuminance},
		{"analog_soil_moisture", &r.AnalogSoilMoisture},
	}
	for _, f := range required {
		v, err := labmet.Float(raw[f.key])
		if err != nil {
			return r, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}

	optional := []struct {
		key string
		dst *float64
	}{
		{"bmp180_temp", &r.BMP180Temp},
		{"bmp180_alt", &r.BMP180Alt},
		{"bmp180_press", &r.BMP180Press},
		{"dht22_temp", &r.DHT22Temp},
		{"dht22_humid", &r.DHT22Humid},
	}
	for _, f := range optional {
		if v, err := labmet.Float(raw[f.key]); err == nil {
			*f.dst = v
		}
	}
	return r, nil
}

// ParseCollectedAt accepts the firmware layout and RFC 3339.
func ParseCollectedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(StationTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("collected_at %q: %w", s, labmet.ErrType)
	}
	return t, nil
}

// Wire returns the JSON shape published on the bus.
func (r StationReading) Wire() map[string]any {
	return map[string]any{
		"station_id":           r.StationID,
		"collected_at":         r.CollectedAt.Format(time.RFC3339),
		"bmp180_temp":          r.BMP180Temp,
		"bmp180_alt":           r.BMP180Alt,
		"bmp180_press":         r.BMP180Press,
		"ds18b20_temp":         r.DS18B20Temp,
		"dht22_temp":           r.DHT22Temp,
		"dht22_humid":          r.DHT22Humid,
		"bh1750_illuminance":   r.BH1750Illuminance,
		"analog_soil_moisture": r.AnalogSoilMoisture,
		"aggregated":           r.Aggregated,
		"samples":              r.Samples,
	}
}
