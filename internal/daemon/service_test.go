package daemon

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		TotalBalance:  5000,
		PayoffMonths:  24,
		TotalInterest: 812.40,
	}
	curr := Snapshot{
		TotalBalance:  4300,
		PayoffMonths:  21,
		TotalInterest: 730.15,
	}

	delta := diffSnapshots(prev, curr)
	if math.Abs(delta.TotalBalance-(-700)) > 1e-9 {
		t.Fatalf("TotalBalance delta = %.2f, want -700", delta.TotalBalance)
	}
	if delta.PayoffMonths != -3 {
		t.Fatalf("PayoffMonths delta = %d, want -3", delta.PayoffMonths)
	}
	if math.Abs(delta.TotalInterest-(-82.25)) > 1e-9 {
		t.Fatalf("TotalInterest delta = %.2f, want -82.25", delta.TotalInterest)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		CardsFile:    "cards.csv",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func writeCardsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	data := "Card,Balance,APR\nVisa,2000,22\nStore,800,27.9\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing cards file: %v", err)
	}
	return path
}

func TestHandlePlan(t *testing.T) {
	s := New(Config{
		CardsFile: writeCardsFile(t),
		Budget:    300,
		Policy:    "avalanche",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.handlePlan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Snapshot.Cards != 2 {
		t.Fatalf("cards = %d, want 2", resp.Snapshot.Cards)
	}
	if resp.Snapshot.TotalBalance != 2800 {
		t.Fatalf("total balance = %v, want 2800", resp.Snapshot.TotalBalance)
	}
	if len(resp.Schedules) != 2 || len(resp.Summaries) != 2 {
		t.Fatalf("schedules=%d summaries=%d, want 2 each", len(resp.Schedules), len(resp.Summaries))
	}
}

func TestHandlePlanOverrides(t *testing.T) {
	s := New(Config{
		CardsFile: writeCardsFile(t),
		Budget:    300,
		Policy:    "avalanche",
	})

	body := `{"budget": 500, "policy": "legacy"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handlePlan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Snapshot.Budget != 500 {
		t.Fatalf("budget = %v, want 500", resp.Snapshot.Budget)
	}
	if resp.Snapshot.Policy != "legacy" {
		t.Fatalf("policy = %q, want legacy", resp.Snapshot.Policy)
	}
}

func TestHandlePlanRejectsBadPolicy(t *testing.T) {
	s := New(Config{CardsFile: writeCardsFile(t), Budget: 300, Policy: "avalanche"})

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(`{"policy": "snowball"}`))
	rec := httptest.NewRecorder()
	s.handlePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePlanRejectsGet(t *testing.T) {
	s := New(Config{CardsFile: writeCardsFile(t), Budget: 300, Policy: "avalanche"})

	req := httptest.NewRequest(http.MethodGet, "/v1/plan", nil)
	rec := httptest.NewRecorder()
	s.handlePlan(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestPollOnceSkipsUnchangedFile(t *testing.T) {
	s := New(Config{
		CardsFile: writeCardsFile(t),
		Budget:    300,
		Policy:    "avalanche",
	})

	s.pollOnce(true)
	s.pollOnce(false)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pollCount != 2 {
		t.Fatalf("poll count = %d, want 2", s.pollCount)
	}
	// Unchanged file means no second event.
	if len(s.events) != 1 {
		t.Fatalf("events = %d, want 1", len(s.events))
	}
	if s.snapshot.Cards != 2 {
		t.Fatalf("snapshot cards = %d, want 2", s.snapshot.Cards)
	}
}
