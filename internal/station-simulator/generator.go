package station_simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/radiation"
)

const (
	// gainPerMin is the moisture gain (0..1) per minute while water reaches the probe.
	gainPerMin = 0.006

	// defaultSeed is used when SoilGrids is unavailable.
	defaultSeed = 0.30

	// Clear sky illuminance at solar noon, lux.
	clearSkyLux = 100000.0

	// SoilGrids is queried once at start-up, never per tick.
	defaultSoilGridsURL = "https://rest.isric.org/soilgrids/v2.0/properties/query?lat=%f&lon=%f&property=wv0010"
)

// Weather is the local climate the generator oscillates around.
type Weather struct {
	MeanTemp      float64 // °C
	TempAmplitude float64 // half the daily excursion, °C
	Humidity      float64 // mean relative humidity, %
	Cloudiness    float64 // 0 clear .. 1 overcast
}

// DefaultWeather is a mild spring day.
var DefaultWeather = Weather{MeanTemp: 20, TempAmplitude: 6, Humidity: 65, Cloudiness: 0.3}

// DataGenerator keeps the soil water state of one station and derives the
// other sensors from the sun position and the configured weather.
type DataGenerator struct {
	mu           sync.Mutex
	seeded       bool
	last         time.Time
	moisture     float64 // 0..1
	decayPerMin  float64
	raining      bool
	pendingBoost float64
	weather      Weather

	rng          *rand.Rand
	now          func() time.Time
	httpClient   *http.Client
	soilGridsURL string
}

// NewDataGenerator creates a generator drying the soil at decayPerMin
// (0..1 per minute) when no water is falling.
func NewDataGenerator(decayPerMin float64, w Weather, seed int64) *DataGenerator {
	return &DataGenerator{
		decayPerMin:  math.Max(0, decayPerMin),
		weather:      w,
		rng:          rand.New(rand.NewSource(seed)),
		now:          func() time.Time { return time.Now().UTC() },
		httpClient:   &http.Client{Timeout: 8 * time.Second},
		soilGridsURL: defaultSoilGridsURL,
	}
}

// WithClock replaces the wall clock, for tests.
func (g *DataGenerator) WithClock(now func() time.Time) *DataGenerator {
	g.now = now
	return g
}

// WithSoilGridsURL points the seed lookup at another endpoint. The format
// takes latitude and longitude.
func (g *DataGenerator) WithSoilGridsURL(format string) *DataGenerator {
	g.soilGridsURL = format
	return g
}

// SeedFromSoilGrids sets the initial moisture from the SoilGrids water
// content at the station, or defaultSeed when the lookup fails.
func (g *DataGenerator) SeedFromSoilGrids(ctx context.Context, st *entities.Station) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seeded {
		return
	}
	seed := defaultSeed
	if st.Latitude != 0 || st.Longitude != 0 {
		m, err := g.fetchSoilMoisture(ctx, st.Latitude, st.Longitude)
		if err != nil {
			log.Printf("simulator: soilgrids seed for %s: %v", st.ID, err)
		} else {
			seed = m
		}
	}
	g.seedLocked(seed)
}

func (g *DataGenerator) seedLocked(seed float64) {
	g.moisture = clamp01(seed + g.pendingBoost)
	g.pendingBoost = 0
	g.last = g.now()
	g.seeded = true
}

// SetRaining switches the probe between wetting and drying.
func (g *DataGenerator) SetRaining(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked()
	g.raining = on
}

// ApplyRain credits water that fell before the generator was seeded.
// Once seeded, rain is accounted progressively while raining.
func (g *DataGenerator) ApplyRain(d time.Duration) {
	if g == nil || d <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.seeded {
		g.pendingBoost += gainPerMin * d.Minutes()
	}
}

// Moisture returns the current soil water fraction.
func (g *DataGenerator) Moisture() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moisture
}

func (g *DataGenerator) advanceLocked() {
	if !g.seeded {
		g.seedLocked(defaultSeed)
		return
	}
	now := g.now()
	dtMin := math.Max(0, now.Sub(g.last).Minutes())
	if g.raining {
		g.moisture = clamp01(g.moisture + gainPerMin*dtMin)
	} else {
		g.moisture = clamp01(g.moisture - g.decayPerMin*dtMin)
	}
	g.last = now
}

// Next advances the state and returns a raw reading for st.
func (g *DataGenerator) Next(st *entities.Station) (messages.StationReading, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.advanceLocked()
	now := g.last

	// Local solar time from longitude.
	solar := now.UTC().Add(time.Duration(st.Longitude / 15 * float64(time.Hour)))
	ha := radiation.HourAngle(solar)

	sun := 0.0
	geo, err := radiation.New(solar, st.Latitude)
	switch {
	case err == nil:
		if geo.SunriseAngle > 0 && math.Abs(ha) < geo.SunriseAngle {
			sun = math.Cos(ha / geo.SunriseAngle * math.Pi / 2)
		}
	case errors.Is(err, labmet.ErrDomain):
		// Polar day when the sun is over the same hemisphere, otherwise polar night.
		if (radiation.Declination(solar.YearDay()) > 0) == (st.Latitude > 0) {
			sun = 0.5 * (1 + math.Cos(ha*math.Pi/180))
		}
	default:
		return messages.StationReading{}, fmt.Errorf("sun position for %s: %w", st.ID, err)
	}

	w := g.weather
	lux := clearSkyLux * sun * (1 - 0.75*clamp01(w.Cloudiness))
	lux *= 0.95 + 0.1*g.rng.Float64()

	// Daily maximum around 15:00 solar time (hour angle 45°).
	temp := w.MeanTemp + w.TempAmplitude*math.Cos((ha-45)*math.Pi/180)
	humid := math.Min(100, math.Max(5, w.Humidity-2.5*(temp-w.MeanTemp)+g.noise(2)))

	return messages.StationReading{
		StationID:          st.ID,
		CollectedAt:        now,
		BMP180Temp:         round2(temp + g.noise(0.3)),
		BMP180Alt:          round2(st.Altitude + g.noise(1.5)),
		BMP180Press:        round2(pressureAt(st.Altitude) + g.noise(0.4)),
		DS18B20Temp:        round2(temp + g.noise(0.2)),
		DHT22Temp:          round2(temp + g.noise(0.5)),
		DHT22Humid:         round2(humid),
		BH1750Illuminance:  math.Round(lux),
		AnalogSoilMoisture: round2(g.moisture * 100),
	}, nil
}

func (g *DataGenerator) noise(amp float64) float64 {
	return amp * (2*g.rng.Float64() - 1)
}

// pressureAt is the standard atmosphere pressure (hPa) at alt metres.
func pressureAt(alt float64) float64 {
	return 1013.25 * math.Pow(1-2.25577e-5*alt, 5.25588)
}

type soilGridsResponse struct {
	Properties struct {
		Layers []struct {
			Name   string `json:"name"`
			Depths []struct {
				Values map[string]*float64 `json:"values"`
			} `json:"depths"`
		} `json:"layers"`
	} `json:"properties"`
}

func (g *DataGenerator) fetchSoilMoisture(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf(g.soilGridsURL, lat, lon)

	op := func() (float64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "labmet-station-simulator/1.0")
		resp, err := g.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return 0, err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return 0, fmt.Errorf("soilgrids HTTP %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return 0, backoff.Permanent(fmt.Errorf("soilgrids HTTP %d: %s", resp.StatusCode, body))
		}
		var parsed soilGridsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return 0, backoff.Permanent(fmt.Errorf("soilgrids: %w", err))
		}
		if v, ok := parsed.firstValue(); ok {
			return normalizeWV(v), nil
		}
		return 0, backoff.Permanent(errors.New("soilgrids: moisture field not found"))
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 600 * time.Millisecond
	return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(b, 1), ctx))
}

func (r soilGridsResponse) firstValue() (float64, bool) {
	for _, l := range r.Properties.Layers {
		for _, d := range l.Depths {
			for _, k := range []string{"Q0.5", "mean", "Q0.95", "Q0.05"} {
				if v := d.Values[k]; v != nil {
					return *v, true
				}
			}
		}
	}
	return 0, false
}

// normalizeWV maps SoilGrids wv values, often published in thousandths of
// m³/m³, to 0..1.
func normalizeWV(x float64) float64 {
	if x > 1.5 {
		x /= 1000
	}
	return clamp01(x)
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
