package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"facekiosk/internal/testutil"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func runCLI(t *testing.T, stdin string, args ...string) (int, *syncBuffer, *syncBuffer) {
	t.Helper()
	var out, errOut syncBuffer
	ctx := testutil.Context(t, 10*time.Second)
	code := RunContext(ctx, args, strings.NewReader(stdin), &out, &errOut)
	return code, &out, &errOut
}

// fastConfig writes a config with short timings for end-to-end runs.
func fastConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facekiosk.yml")
	body := `flow:
  countdown_seconds: 1
  poll_interval: 20ms
  retry_delay: 20ms
  redirect_delay: 20ms
log:
  level: error
` + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

type fakeService struct {
	startStatus int
	pending     int32
	result      map[string]any
	health      map[string]any
	starts      atomic.Int32
	checks      atomic.Int32
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/start_recognition", func(w http.ResponseWriter, r *http.Request) {
		f.starts.Add(1)
		if f.startStatus != 0 {
			w.WriteHeader(f.startStatus)
			_, _ = w.Write([]byte(`{"error":"camera busy"}`))
			return
		}
		writeJSON(w, map[string]any{"status": "processing"})
	})
	mux.HandleFunc("/check_result", func(w http.ResponseWriter, r *http.Request) {
		if f.checks.Add(1) <= f.pending {
			writeJSON(w, map[string]any{"status": nil})
			return
		}
		writeJSON(w, f.result)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.health)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func startService(t *testing.T, svc *fakeService) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(svc.handler())
	t.Cleanup(server.Close)
	return server
}

func TestRootHelp(t *testing.T) {
	code, out, errOut := runCLI(t, "", "--help")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", errOut.String())
	}
	for _, want := range []string{"Usage:", "run", "health", "version"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in help output, got %q", want, out.String())
		}
	}
}

func TestNoArgsShowsUsage(t *testing.T) {
	code, out, errOut := runCLI(t, "")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected usage output, got %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	code, out, errOut := runCLI(t, "", "nope")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Fatalf("expected unknown command error, got %q", errOut.String())
	}
}

func TestUnknownFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "", "run", "--bogus")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "unknown flag") {
		t.Fatalf("expected flag error, got %q", errOut.String())
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if out.String() != "facekiosk version "+Version+"\n" {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestHealthCommand(t *testing.T) {
	server := startService(t, &fakeService{health: map[string]any{
		"camera_connected":  true,
		"known_faces_count": 4,
		"status":            "healthy",
	}})

	code, out, errOut := runCLI(t, "", "health", "--base-url", server.URL)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, errOut.String())
	}
	if out.String() != "health: healthy camera=connected known_faces=4\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	code, out, _ = runCLI(t, "", "health", "--json", "--base-url", server.URL)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(out.String()), &body); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if body["known_faces_count"] != float64(4) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthCommandUnhealthy(t *testing.T) {
	server := startService(t, &fakeService{health: map[string]any{
		"camera_connected": false,
		"status":           "degraded",
	}})
	code, out, _ := runCLI(t, "", "health", "--base-url", server.URL)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(out.String(), "camera=disconnected") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHealthCommandUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	code, _, errOut := runCLI(t, "", "health", "--base-url", url)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), "Error:") {
		t.Fatalf("expected error output, got %q", errOut.String())
	}
}

func TestRunOnceSuccessRedirects(t *testing.T) {
	svc := &fakeService{pending: 2, result: map[string]any{
		"status":       "success",
		"message":      "Welcome, Budi",
		"face_data":    "Zm9v",
		"redirect_url": "/loan",
	}}
	server := startService(t, svc)

	code, out, errOut := runCLI(t, "", "run", "--once", "--config", fastConfig(t, ""), "--base-url", server.URL)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d\nstdout: %s\nstderr: %s", ExitOK, code, out.String(), errOut.String())
	}
	for _, want := range []string{
		"countdown: 1\n",
		"countdown: 0\n",
		"recognizing...\n",
		"result: success: Welcome, Budi\n",
		"face: 3 bytes\n",
		"redirect: " + server.URL + "/loan\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
	if got := svc.starts.Load(); got != 1 {
		t.Fatalf("expected one start request, got %d", got)
	}
	if got := svc.checks.Load(); got != 3 {
		t.Fatalf("expected three checks, got %d", got)
	}
}

func TestRunOnceUnknownFails(t *testing.T) {
	server := startService(t, &fakeService{result: map[string]any{
		"status":  "unknown",
		"message": "Wajah tidak dikenali",
	}})
	code, out, _ := runCLI(t, "", "run", "--once", "--config", fastConfig(t, ""), "--base-url", server.URL)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(out.String(), "result: warning: Wajah tidak dikenali") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunOnceStartFailureRetries(t *testing.T) {
	svc := &fakeService{startStatus: http.StatusServiceUnavailable}
	server := startService(t, svc)
	cfgPath := fastConfig(t, "")

	code, out, _ := runCLI(t, "", "run", "--once", "--config", cfgPath, "--base-url", server.URL)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	for _, want := range []string{
		"error: Retrying (1/3)...",
		"error: Retrying (3/3)...",
		"error: Could not reach the server",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
	if got := svc.starts.Load(); got != 4 {
		t.Fatalf("expected 4 start requests, got %d", got)
	}
}

func TestRunRoutePrefix(t *testing.T) {
	svc := &fakeService{result: map[string]any{"status": "success", "message": "ok"}}
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", svc.handler()))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfgPath := fastConfig(t, "service:\n  route_prefix: /api\n")
	code, out, errOut := runCLI(t, "", "run", "--once", "--config", cfgPath, "--base-url", server.URL)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d\nstdout: %s\nstderr: %s", ExitOK, code, out.String(), errOut.String())
	}
}

func TestRunInteractivePlainQuits(t *testing.T) {
	server := startService(t, &fakeService{health: map[string]any{"status": "healthy"}})
	code, out, errOut := runCLI(t, "health\nquit\n", "run", "--ui", "plain", "--config", fastConfig(t, ""), "--base-url", server.URL)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "health: healthy camera=disconnected known_faces=0") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "", "run", "--once", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "read config") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}

	code, _, errOut = runCLI(t, "", "run", "--once", "--ui", "fancy", "--config", fastConfig(t, ""))
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "ui.mode") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}

func TestRunCancelledContext(t *testing.T) {
	server := startService(t, &fakeService{pending: 1 << 20})
	ctx, cancel := context.WithCancel(testutil.Context(t, 10*time.Second))
	args := []string{"run", "--once", "--config", fastConfig(t, ""), "--base-url", server.URL}
	var out, errOut syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- RunContext(ctx, args, strings.NewReader(""), &out, &errOut)
	}()
	testutil.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "recognizing...")
	}, "flow never reached processing")
	cancel()
	select {
	case code := <-done:
		if code != ExitError {
			t.Fatalf("expected exit %d, got %d", ExitError, code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancellation")
	}
}
