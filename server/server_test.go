package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/audio-relay/component"
	"github.com/skillsenselab/audio-relay/logger"
	"github.com/skillsenselab/audio-relay/server/endpoint"
)

func startServer(t *testing.T, checker endpoint.HealthChecker) *Server {
	t.Helper()

	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0

	srv := New(cfg, logger.NewDefault("server-test"))
	srv.ApplyDefaults("test-service", checker)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Stop(context.Background()); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("failed to decode %q: %v", body, err)
		}
	}
	return resp.StatusCode
}

func TestRootEndpoint(t *testing.T) {
	srv := startServer(t, nil)

	var body struct {
		Service string `json:"service"`
		Message string `json:"message"`
	}
	if status := getJSON(t, "http://"+srv.Addr()+"/", &body); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body.Service != "test-service" {
		t.Errorf("unexpected service %q", body.Service)
	}
	if body.Message != "test-service is running" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestHealthAggregation(t *testing.T) {
	healthy := component.Health{Name: "bus", Status: component.StatusHealthy}
	srv := startServer(t, func(ctx context.Context) []component.Health {
		return []component.Health{healthy}
	})

	var body struct {
		Status     string             `json:"status"`
		Components []component.Health `json:"components"`
	}
	if status := getJSON(t, "http://"+srv.Addr()+"/health", &body); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body.Status != "healthy" {
		t.Errorf("unexpected status %q", body.Status)
	}
	if len(body.Components) != 1 || body.Components[0].Name != "bus" {
		t.Errorf("unexpected components %+v", body.Components)
	}
}

func TestHealthUnhealthyComponent(t *testing.T) {
	srv := startServer(t, func(ctx context.Context) []component.Health {
		return []component.Health{
			{Name: "bus", Status: component.StatusUnhealthy, Message: "connection refused"},
		}
	})

	var body struct {
		Status string `json:"status"`
	}
	if status := getJSON(t, "http://"+srv.Addr()+"/health", &body); status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if body.Status != "unhealthy" {
		t.Errorf("unexpected status %q", body.Status)
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := startServer(t, nil)
	view := map[string]interface{}{
		"app_port":             8000,
		"max_audio_size_bytes": 1048576,
	}
	srv.GinEngine().GET("/config", endpoint.Config(view))

	var body struct {
		AppPort int `json:"app_port"`
		MaxSize int `json:"max_audio_size_bytes"`
	}
	if status := getJSON(t, "http://"+srv.Addr()+"/config", &body); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body.AppPort != 8000 || body.MaxSize != 1048576 {
		t.Errorf("unexpected config view %+v", body)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := startServer(t, nil)
	srv.GinEngine().GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	var body struct {
		Error string `json:"error"`
	}
	if status := getJSON(t, "http://"+srv.Addr()+"/boom", &body); status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != "Internal server error" {
		t.Errorf("unexpected error body %q", body.Error)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := startServer(t, nil)

	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing generated X-Request-Id header")
	}

	req, _ := http.NewRequest(http.MethodGet, "http://"+srv.Addr()+"/", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-Id"); got != "fixed-id" {
		t.Errorf("expected propagated request id, got %q", got)
	}
}

func TestServerComponentHealth(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0

	srv := New(cfg, logger.NewDefault("server-test"))
	sc := NewComponent(srv)

	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}

	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { sc.Stop(context.Background()) })

	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %+v", h)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", func() Config { c := Config{}; c.ApplyDefaults(); return c }(), false},
		{"bad port", Config{Port: 70000}, true},
		{"negative timeout", Config{Port: 8000, ReadTimeout: -1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
