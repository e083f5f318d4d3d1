package tracker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)

type sequentialIDs struct {
	mu   sync.Mutex
	next int
}

func (p *sequentialIDs) NewID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

type failingIDs struct{}

func (failingIDs) NewID() (string, error) {
	return "", fmt.Errorf("entropy exhausted")
}

type testEnv struct {
	store   *store.Store
	service *Service
	bus     *events.Bus
	now     *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithIDs(t, &sequentialIDs{})
}

func newTestEnvWithIDs(t *testing.T, ids records.IDProvider) *testEnv {
	t.Helper()
	now := fixedNow
	clock := func() time.Time { return now }

	db, err := store.Open(context.Background(), store.Options{
		Dir:     t.TempDir(),
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
	service, err := NewService(ServiceConfig{
		Store:      db,
		Clock:      clock,
		IDProvider: ids,
		Logger:     zap.NewNop(),
		Bus:        bus,
		Location:   time.UTC,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return &testEnv{store: db, service: service, bus: bus, now: &now}
}

func mustSetAttendance(t *testing.T, service *Service, date string, status records.AttendanceStatus) records.AttendanceRecord {
	t.Helper()
	record, err := service.SetAttendance(context.Background(), date, string(status))
	if err != nil {
		t.Fatalf("set attendance %s: %v", date, err)
	}
	return record
}
