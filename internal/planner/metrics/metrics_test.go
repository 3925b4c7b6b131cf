package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveSnap("endpoint")
	m.ObserveSnap("endpoint")
	m.ObserveSnap("")
	m.ObserveOperation("cut_opening", nil)
	m.ObserveOperation("cut_opening", errors.New("end cap"))
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"endpoint", testutil.ToFloat64(m.snaps.WithLabelValues("endpoint")), 2},
		{"none", testutil.ToFloat64(m.snaps.WithLabelValues("none")), 1},
		{"ok", testutil.ToFloat64(m.operations.WithLabelValues("cut_opening", "ok")), 1},
		{"error", testutil.ToFloat64(m.operations.WithLabelValues("cut_opening", "error")), 1},
		{"sessions", testutil.ToFloat64(m.sessions), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSnap("grid")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `planner_snaps_total{kind="grid"} 1`) {
		t.Errorf("body does not contain the grid counter:\n%s", body)
	}
}
