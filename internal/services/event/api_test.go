package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

type fakeStore struct {
	got   AlertQuery
	out   []Alert
	err   error
	calls int
}

func (s *fakeStore) LatestAlerts(_ context.Context, q AlertQuery) ([]Alert, error) {
	s.calls++
	s.got = q
	return s.out, s.err
}

type fakeConn bool

func (c fakeConn) IsConnectionOpen() bool { return bool(c) }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) (bool, error) { return p.err == nil, p.err }

type fakeWriteAPI struct {
	points []*write.Point
	errs   chan error
}

func newFakeWriteAPI() *fakeWriteAPI { return &fakeWriteAPI{errs: make(chan error)} }

func (f *fakeWriteAPI) WritePoint(p *write.Point) { f.points = append(f.points, p) }
func (f *fakeWriteAPI) Flush()                    {}
func (f *fakeWriteAPI) Errors() <-chan error      { return f.errs }

func TestParseAlertQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/events/alerts/latest?limit=9999&minutes=0&timeout_ms=x&plot=%20potato%20", nil)
	q := parseAlertQuery(r, 1440, 20, 2000)
	if q.Limit != 500 || q.Minutes != 1 || q.TimeoutMS != 2000 || q.PlotID != "potato" {
		t.Fatalf("query %+v", q)
	}
	q = parseAlertQuery(httptest.NewRequest(http.MethodGet, "/", nil), 1440, 20, 2000)
	if q.Limit != 20 || q.Minutes != 1440 || q.PlotID != "" {
		t.Fatalf("defaults %+v", q)
	}
}

func TestBuildAlertFlux(t *testing.T) {
	flux := buildAlertFlux("events", AlertQuery{Minutes: 60, Limit: 5, PlotID: "corn"})
	for _, want := range []string{`from(bucket: "events")`, "start: -60m", `r.event_type == "plot.alert"`, `r.plot_id == "corn"`, "limit(n:5)", "pivot("} {
		if !strings.Contains(flux, want) {
			t.Errorf("flux missing %q:\n%s", want, flux)
		}
	}
	if strings.Contains(buildAlertFlux("events", AlertQuery{Minutes: 1, Limit: 1}), "plot_id") {
		t.Error("plot filter without plot")
	}
}

func TestAlertsLatestHandler(t *testing.T) {
	store := &fakeStore{out: []Alert{{PlotID: "potato", Kind: "dry_soil", Severity: "warning", Time: "2024-01-15T12:00:00Z"}}}
	srv := httptest.NewServer(NewRouter(fakeConn(true), fakePinger{}, NewWriter(newFakeWriteAPI()), store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events/alerts/latest?limit=3&plot=potato")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got []Alert
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].PlotID != "potato" || store.got.Limit != 3 || store.got.PlotID != "potato" {
		t.Fatalf("got %+v query %+v", got, store.got)
	}
}

func TestAlertsLatestHandlerStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("influx down")}
	rec := httptest.NewRecorder()
	NewAlertsLatestHandler(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/alerts/latest", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Error") == "" || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("code %d header %q body %q", rec.Code, rec.Header().Get("X-Error"), rec.Body.String())
	}
}

func TestHealthAndReady(t *testing.T) {
	tests := []struct {
		name   string
		conn   Connectivity
		ping   Pinger
		status string
		ready  int
	}{
		{"all up", fakeConn(true), fakePinger{}, `"ok"`, http.StatusOK},
		{"influx down", fakeConn(true), fakePinger{err: errors.New("x")}, `"degraded"`, http.StatusServiceUnavailable},
		{"all down", fakeConn(false), nil, `"down"`, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRouter(tc.conn, tc.ping, NewWriter(newFakeWriteAPI()), &fakeStore{})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if !strings.Contains(rec.Body.String(), tc.status) {
				t.Fatalf("healthz %s", rec.Body.String())
			}
			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tc.ready {
				t.Fatalf("readyz %d", rec.Code)
			}
		})
	}
}

func TestWriterCountsAndTracksErrors(t *testing.T) {
	api := newFakeWriteAPI()
	w := NewWriter(api)
	w.Write(CommonEvent{EventType: TypeAlert, PlotID: "p", Timestamp: time.Now()})
	w.Write(CommonEvent{EventType: TypeAlert, PlotID: "p", Timestamp: time.Now()})
	if len(api.points) != 2 || w.Count(TypeAlert) != 2 || w.Count(TypeWaterStress) != 0 {
		t.Fatalf("points %d count %d", len(api.points), w.Count(TypeAlert))
	}
	if w.LastErrorAge() < time.Hour {
		t.Fatal("fresh writer reports a recent error")
	}
	api.errs <- errors.New("write failed")
	deadline := time.Now().Add(time.Second)
	for w.LastErrorAge() > time.Minute {
		if time.Now().After(deadline) {
			t.Fatal("write error not recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
