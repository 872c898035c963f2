package core

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type runnerMock struct {
	running int32
	maxSeen int32
	runs    int32
	fail    bool
}

func (r *runnerMock) Run(sc Scenario) Report {
	n := atomic.AddInt32(&r.running, 1)
	defer atomic.AddInt32(&r.running, -1)
	for {
		m := atomic.LoadInt32(&r.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&r.maxSeen, m, n) {
			break
		}
	}
	atomic.AddInt32(&r.runs, 1)
	time.Sleep(time.Millisecond * 20)

	if r.fail {
		return Report{Scenario: sc.Name, Error: "step scanner: timeout"}
	}
	return Report{Scenario: sc.Name, Success: true}
}

func newTestServer(t *testing.T, runner ScenarioRunner) (*Server, string) {
	catalogue, err := NewCatalogue(
		loginScenario(),
		Scenario{Name: "debug", URL: "http://localhost:4173", Steps: []Step{{Name: "body", Markers: []Marker{{Locator: CSS("body")}}}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	// High rate so tests don't wait on limiter
	opts := ServerOpts{RateRequests: 1000, RateTime: 1, RateBurst: 100}
	return NewServer(opts, dir, runner, catalogue), dir
}

func TestServerListScenarios(t *testing.T) {
	serv, _ := newTestServer(t, &runnerMock{})

	resp, err := serv.app.Test(httptest.NewRequest(http.MethodGet, "/scenarios", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Want 200, got %d", resp.StatusCode)
	}

	scenarios := []Scenario{}
	if err := json.NewDecoder(resp.Body).Decode(&scenarios); err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 2 || scenarios[0].Name != "login" || scenarios[1].Name != "debug" {
		t.Fatalf("Unexpected scenarios: %+v", scenarios)
	}
}

func TestServerRunScenario(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		fail   bool
		status int
	}{
		{"success", "/scenarios/login/run", false, http.StatusOK},
		{"failure", "/scenarios/login/run", true, http.StatusServiceUnavailable},
		{"unknown", "/scenarios/nope/run", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &runnerMock{fail: tt.fail}
			serv, _ := newTestServer(t, runner)

			resp, err := serv.app.Test(httptest.NewRequest(http.MethodPost, tt.path, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("Want %d, got %d: %s", tt.status, resp.StatusCode, body)
			}

			if tt.status == http.StatusNotFound {
				if runner.runs != 0 {
					t.Fatalf("Unknown scenario was run")
				}
				return
			}

			report := Report{}
			if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
				t.Fatal(err)
			}
			if report.Scenario != "login" || report.Success == tt.fail {
				t.Fatalf("Unexpected report: %+v", report)
			}
		})
	}
}

func TestServerSerializesRuns(t *testing.T) {
	runner := &runnerMock{}
	serv, _ := newTestServer(t, runner)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := serv.app.Test(httptest.NewRequest(http.MethodPost, "/scenarios/debug/run", nil), 5000)
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
		}()
	}
	wg.Wait()

	if runner.runs != 5 {
		t.Fatalf("Want 5 runs, got %d", runner.runs)
	}
	if runner.maxSeen != 1 {
		t.Fatalf("Scenarios ran concurrently: %d at once", runner.maxSeen)
	}
}

func TestServerScreenshots(t *testing.T) {
	serv, dir := newTestServer(t, &runnerMock{})
	if err := os.WriteFile(filepath.Join(dir, "2_scanner_view.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	resp, err := serv.app.Test(httptest.NewRequest(http.MethodGet, "/screenshots/2_scanner_view.png", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "png" {
		t.Fatalf("Want screenshot, got %d: %s", resp.StatusCode, body)
	}
}

func TestServerRatelimit(t *testing.T) {
	opts := ServerOpts{RateRequests: 6, RateTime: 60}
	opts.Init()
	if opts.GetRatelimit() != time.Second*10 {
		t.Fatalf("Want 10s between runs, got %s", opts.GetRatelimit())
	}
	if opts.GetRateLimiter().Burst() != 1 {
		t.Fatalf("Want default burst 1")
	}
}
