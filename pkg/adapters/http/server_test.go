package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/aretw0/shortcutter/pkg/adapters/http"
	"github.com/aretw0/shortcutter/pkg/domain"
)

type fakeRunner struct {
	mu        sync.Mutex
	status    domain.RunnerStatus
	combos    []domain.Combo
	busy      map[domain.Combo]bool
	triggered []domain.Combo
	reloadErr error
	reloads   int
}

func newFakeRunner(combos ...domain.Combo) *fakeRunner {
	return &fakeRunner{status: domain.StatusStopped, combos: combos, busy: map[domain.Combo]bool{}}
}

func (f *fakeRunner) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = domain.StatusRunning
	return nil
}

func (f *fakeRunner) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = domain.StatusStopped
}

func (f *fakeRunner) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeRunner) Status() domain.RunnerStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeRunner) Combos() []domain.Combo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != domain.StatusRunning {
		return nil
	}
	return f.combos
}

func (f *fakeRunner) Trigger(c domain.Combo) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy[c] {
		return false
	}
	f.triggered = append(f.triggered, c)
	return true
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthAndInfo(t *testing.T) {
	h := httpadapter.NewServer(newFakeRunner()).Handler()

	rec := do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/info")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"app":"shortcutter"`)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StartStopStatus(t *testing.T) {
	runner := newFakeRunner("alt+f5")
	h := httpadapter.NewServer(runner).Handler()

	rec := do(t, h, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"stopped","combos":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/start")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"running","combos":["alt+f5"]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/stop")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusStopped, runner.Status())
}

func TestServer_Reload(t *testing.T) {
	runner := newFakeRunner()
	h := httpadapter.NewServer(runner).Handler()

	rec := do(t, h, http.MethodPost, "/reload")
	assert.Equal(t, http.StatusOK, rec.Code)

	runner.reloadErr = errors.New("store offline")
	rec = do(t, h, http.MethodPost, "/reload")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "store offline")
	assert.Equal(t, 2, runner.reloads)
}

func TestServer_Trigger(t *testing.T) {
	runner := newFakeRunner("alt+f5", "ctrl+shift+k")
	h := httpadapter.NewServer(runner).Handler()

	rec := do(t, h, http.MethodPost, "/trigger/alt+f5")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "stopped runner")

	require.NoError(t, runner.Start(context.Background()))

	rec = do(t, h, http.MethodPost, "/trigger/Shift+Ctrl+K")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []domain.Combo{"ctrl+shift+k"}, runner.triggered)

	rec = do(t, h, http.MethodPost, "/trigger/alt+f9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	runner.busy["alt+f5"] = true
	rec = do(t, h, http.MethodPost, "/trigger/alt+f5")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_TriggerLimit(t *testing.T) {
	runner := newFakeRunner("alt+f5")
	require.NoError(t, runner.Start(context.Background()))
	h := httpadapter.NewServer(runner, httpadapter.WithTriggerLimit(0.001, 2)).Handler()

	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/trigger/alt+f5").Code)
	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/trigger/alt+f5").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/trigger/alt+f5").Code)
	assert.Len(t, runner.triggered, 2)
}

func TestServer_Metrics(t *testing.T) {
	h := httpadapter.NewServer(newFakeRunner()).Handler()
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics").Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("shortcutter_up 1\n"))
	})
	h = httpadapter.NewServer(newFakeRunner(), httpadapter.WithMetrics(metrics)).Handler()
	rec := do(t, h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shortcutter_up 1\n", rec.Body.String())
}

func TestServer_Events(t *testing.T) {
	streams := httpadapter.NewStreamManager()
	srv := httptest.NewServer(httpadapter.NewServer(newFakeRunner(), httpadapter.WithStreams(streams)).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	require.Equal(t, "connected", readData())

	streams.Indicator().Notify(ctx, domain.StatusRunning)
	var status httpadapter.StatusEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &status))
	assert.Equal(t, domain.EventStatus, status.Type)
	assert.Equal(t, domain.StatusRunning, status.Status)

	streams.Hooks().OnRunEnd(ctx, &domain.EndEvent{
		EventBase: domain.EventBase{Type: domain.EventRunEnd},
		Result:    domain.RunResult{MacroName: "greet", State: domain.StateCompleted},
	})
	var end domain.EndEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &end))
	assert.Equal(t, "greet", end.Result.MacroName)
	assert.Equal(t, domain.StateCompleted, end.Result.State)
}

func TestStreamManager_DropsForSlowSubscriber(t *testing.T) {
	sm := httpadapter.NewStreamManager()
	ch, cancel := sm.Subscribe()

	for i := 0; i < 32; i++ {
		sm.Broadcast("tick")
	}
	assert.Len(t, ch, 16)

	cancel()
	cancel()
	sm.Broadcast("after cancel")
}
