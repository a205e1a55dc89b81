// Package daemon provides the long-running payoff planning service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cardburn/internal/engine"
	"cardburn/internal/model"
	"cardburn/internal/pipeline"
	"cardburn/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	CardsFile    string
	Budget       float64
	Policy       engine.Policy
	MaxMonths    int
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *logrus.Logger
}

// Snapshot is a compact plan state for status/event payloads.
type Snapshot struct {
	At            time.Time `json:"at"`
	Cards         int       `json:"cards"`
	TotalBalance  float64   `json:"total_balance"`
	Budget        float64   `json:"budget"`
	Policy        string    `json:"policy"`
	PayoffMonths  int       `json:"payoff_months"`
	TotalInterest float64   `json:"total_interest"`
	Shortfalls    int       `json:"shortfalls"`
	FromCache     bool      `json:"from_cache"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	TotalBalance  float64 `json:"total_balance"`
	PayoffMonths  int     `json:"payoff_months"`
	TotalInterest float64 `json:"total_interest"`
}

func (d Delta) isZero() bool {
	return d.TotalBalance == 0 && d.PayoffMonths == 0 && d.TotalInterest == 0
}

// Event is emitted whenever the plan changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	CardsFile       string    `json:"cards_file"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	lastMtime   int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
		cfg.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/plan", s.handlePlan)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.WithFields(logrus.Fields{
		"addr":       s.cfg.Addr,
		"cards_file": s.cfg.CardsFile,
		"interval":   s.cfg.Interval.String(),
	}).Info("daemon started")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(true)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daemon shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(false)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce re-plans when the cards file changed since the last poll.
func (s *Service) pollOnce(force bool) {
	info, err := os.Stat(s.cfg.CardsFile)
	if err != nil {
		s.recordError(fmt.Errorf("stat cards file: %w", err))
		return
	}
	mtime := info.ModTime().UnixNano()

	s.mu.RLock()
	unchanged := !force && s.hasSnapshot && mtime == s.lastMtime
	s.mu.RUnlock()
	if unchanged {
		s.mu.Lock()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		return
	}

	outcome, accounts, err := s.plan(s.cfg.Budget, s.cfg.Policy, s.cfg.MaxMonths)
	if err != nil {
		s.recordError(err)
		return
	}

	now := time.Now()
	snap := snapshotFromOutcome(outcome, accounts, s.cfg.Budget, s.cfg.Policy, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastMtime = mtime
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: "plan_delta", Timestamp: now, Snapshot: snap, Delta: delta}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		s.log.WithFields(logrus.Fields{
			"event":         ev.Type,
			"cards":         snap.Cards,
			"payoff_months": snap.PayoffMonths,
			"from_cache":    snap.FromCache,
		}).Info("plan updated")
	}
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.mu.Unlock()
	s.log.WithError(err).Warn("poll failed")
}

func (s *Service) plan(budget float64, policy engine.Policy, maxMonths int) (*pipeline.Outcome, []model.Account, error) {
	loaded, err := pipeline.LoadAccounts(s.cfg.CardsFile)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range loaded.Warnings {
		s.log.WithField("warning", w).Warn("cards file row skipped")
	}

	req := pipeline.Request{
		Accounts:  loaded.Accounts,
		Budget:    budget,
		Policy:    policy,
		MaxMonths: maxMonths,
	}

	var outcome *pipeline.Outcome
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			outcome, err = pipeline.RunWithCache(req, cache)
			if err != nil {
				return nil, nil, err
			}
			return outcome, loaded.Accounts, nil
		}
	}

	outcome, err = pipeline.Run(req)
	if err != nil {
		return nil, nil, err
	}
	return outcome, loaded.Accounts, nil
}

func snapshotFromOutcome(out *pipeline.Outcome, accounts []model.Account, budget float64, policy engine.Policy, at time.Time) Snapshot {
	var totalBalance, totalInterest float64
	for _, a := range accounts {
		totalBalance += a.Balance
	}
	months := 0
	for _, s := range out.Summaries {
		totalInterest += s.TotalInterest
		if s.TenureMonths > months {
			months = s.TenureMonths
		}
	}

	return Snapshot{
		At:            at,
		Cards:         len(accounts),
		TotalBalance:  totalBalance,
		Budget:        budget,
		Policy:        string(policy),
		PayoffMonths:  months,
		TotalInterest: totalInterest,
		Shortfalls:    len(out.Result.Shortfalls),
		FromCache:     out.FromCache,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TotalBalance:  curr.TotalBalance - prev.TotalBalance,
		PayoffMonths:  curr.PayoffMonths - prev.PayoffMonths,
		TotalInterest: curr.TotalInterest - prev.TotalInterest,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		CardsFile:       s.cfg.CardsFile,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

// PlanRequest is the body of POST /v1/plan. Omitted fields fall back to
// the daemon's configured defaults.
type PlanRequest struct {
	Budget    *float64 `json:"budget,omitempty"`
	Policy    string   `json:"policy,omitempty"`
	MaxMonths int      `json:"max_months,omitempty"`
}

// PlanResponse is the JSON payload of a computed plan.
type PlanResponse struct {
	Snapshot   Snapshot                `json:"snapshot"`
	Summaries  []model.AccountSummary  `json:"summaries"`
	Shortfalls []model.ShortfallNotice `json:"shortfalls,omitempty"`
	Schedules  []model.Schedule        `json:"schedules"`
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	budget := s.cfg.Budget
	if req.Budget != nil {
		budget = *req.Budget
	}
	policy := s.cfg.Policy
	if req.Policy != "" {
		policy = engine.Policy(req.Policy)
		if !policy.Valid() {
			http.Error(w, fmt.Sprintf("unknown policy %q", req.Policy), http.StatusBadRequest)
			return
		}
	}
	maxMonths := s.cfg.MaxMonths
	if req.MaxMonths > 0 {
		maxMonths = req.MaxMonths
	}

	outcome, accounts, err := s.plan(budget, policy, maxMonths)
	if err != nil {
		var ncErr *engine.NonConvergenceError
		if errors.As(err, &ncErr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := PlanResponse{
		Snapshot:   snapshotFromOutcome(outcome, accounts, budget, policy, time.Now()),
		Summaries:  outcome.Summaries,
		Shortfalls: outcome.Result.Shortfalls,
		Schedules:  outcome.Result.Schedules,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
