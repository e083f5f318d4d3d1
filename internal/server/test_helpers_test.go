package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/prefs"
	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"github.com/MarcoPoloResearchLab/jigong/internal/theme"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type testApp struct {
	handler http.Handler
	bus     *events.Bus
	store   *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	clock := func() time.Time { return time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC) }

	db, err := store.Open(context.Background(), store.Options{
		Dir:     dir,
		Name:    "RenGongJiGongDB",
		Version: records.SchemaVersion,
		Schema:  records.Schema(),
		Logger:  zap.NewNop(),
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewBus()
	service, err := tracker.NewService(tracker.ServiceConfig{
		Store:      db,
		Clock:      clock,
		IDProvider: records.NewUUIDProvider(),
		Logger:     zap.NewNop(),
		Bus:        bus,
		Location:   time.UTC,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	preferences, err := prefs.Open(dir, "jigong", zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open prefs: %v", err)
	}
	themes := theme.NewManager(preferences, bus, zap.NewNop())
	themes.Init()

	handler, err := NewHTTPHandler(Dependencies{
		Service:           service,
		Theme:             themes,
		Bus:               bus,
		Logger:            zap.NewNop(),
		HeartbeatInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to construct http handler: %v", err)
	}
	return &testApp{handler: handler, bus: bus, store: db}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	a.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}
