// Package wizard drives the interview rounds. Every presentation layer (HTTP
// server, CLI) goes through a Wizard so gating, drafts, timers and fallbacks
// behave the same everywhere.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/round"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Wizard is the controller for one session.
type Wizard struct {
	session  *session.Session
	content  *content.Service
	feedback *feedback.Aggregator
	log      *zap.Logger

	now              func() time.Time
	newID            func() string
	autosaveInterval time.Duration
	durations        map[gate.Round]time.Duration

	mu         sync.Mutex
	timers     map[gate.Round]*round.Countdown
	autosavers map[gate.Round]*round.Autosaver

	langMu         sync.Mutex
	codingLanguage string
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock sets the time source used for setup timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// WithIDGenerator sets the session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(w *Wizard) { w.newID = fn }
}

// WithAutosaveInterval sets how often long-form drafts are written.
func WithAutosaveInterval(d time.Duration) Option {
	return func(w *Wizard) { w.autosaveInterval = d }
}

// WithRoundDuration overrides the time limit of a timed round.
func WithRoundDuration(r gate.Round, d time.Duration) Option {
	return func(w *Wizard) { w.durations[r] = d }
}

// New creates a Wizard over a session and content service.
func New(s *session.Session, svc *content.Service, log *zap.Logger, opts ...Option) *Wizard {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Wizard{
		session:          s,
		content:          svc,
		feedback:         feedback.NewAggregator(s, svc, log),
		log:              log,
		now:              time.Now,
		newID:            uuid.NewString,
		autosaveInterval: round.DefaultAutosaveInterval,
		durations: map[gate.Round]time.Duration{
			gate.MCQ:          round.MCQDuration,
			gate.SystemDesign: round.SystemDesignDuration,
		},
		timers:         make(map[gate.Round]*round.Countdown),
		autosavers:     make(map[gate.Round]*round.Autosaver),
		codingLanguage: types.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session returns the underlying session.
func (w *Wizard) Session() *session.Session {
	return w.session
}

// Content returns the content service.
func (w *Wizard) Content() *content.Service {
	return w.content
}

// SubmitSetup validates the setup form and starts a new interview. Any
// previous interview state is discarded; the credential and theme are kept.
func (w *Wizard) SubmitSetup(req types.SetupRequest) (*types.InterviewSetup, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, setupValidationError(err)
	}

	w.stopRuntime()
	if err := w.session.Reset(); err != nil {
		return nil, fmt.Errorf("clear previous interview: %w", err)
	}
	setup := types.NewInterviewSetup(req, w.newID(), w.now())
	if err := w.session.SaveSetup(setup); err != nil {
		return nil, fmt.Errorf("save setup: %w", err)
	}

	w.log.Info("interview started",
		zap.String("session_id", setup.SessionID),
		zap.String("job_title", setup.JobTitle),
		zap.String("experience", string(setup.Experience)))
	return setup, nil
}

// Enter checks the gate for r.
func (w *Wizard) Enter(r gate.Round) error {
	return gate.Check(w.session, r)
}

// Status reports progress through the rounds.
func (w *Wizard) Status() gate.Progress {
	return gate.CurrentProgress(w.session)
}

// Retry regenerates the content of round r. Answers and drafts are kept.
func (w *Wizard) Retry(ctx context.Context, r gate.Round) (*content.Result, error) {
	if err := w.Enter(r); err != nil {
		return nil, err
	}
	kind, ok := content.ForRound(r)
	if !ok {
		return nil, fmt.Errorf("round %q has no generated content", r)
	}
	return w.content.Retry(ctx, kind)
}

// Prefetch generates content for every round concurrently.
func (w *Wizard) Prefetch(ctx context.Context) (map[content.Kind]*content.Result, error) {
	if !w.session.HasSetup() {
		return nil, &MissingPrerequisiteError{Requested: gate.MCQ, Redirect: gate.Setup}
	}
	return w.content.Prefetch(ctx)
}

// Results runs the results lifecycle.
func (w *Wizard) Results(ctx context.Context) (*feedback.ResultsView, error) {
	return w.feedback.Resolve(ctx)
}

// Export renders the stored report as text without contacting the provider.
func (w *Wizard) Export() (string, error) {
	report, ok := w.session.Report()
	if !ok {
		return "", ErrNoReport
	}
	return feedback.Export(report), nil
}

// Reset stops running timers and clears the session.
func (w *Wizard) Reset() error {
	w.stopRuntime()
	if err := w.session.Reset(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	w.log.Info("session reset")
	return nil
}

// Close stops timers and autosavers without touching the session.
func (w *Wizard) Close() {
	w.stopRuntime()
}

// Countdown returns the running countdown of a timed round.
func (w *Wizard) Countdown(r gate.Round) (*round.Countdown, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.timers[r]
	return c, ok
}

func (w *Wizard) stopRuntime() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for r, c := range w.timers {
		c.Stop()
		delete(w.timers, r)
	}
	for r, a := range w.autosavers {
		a.Stop()
		delete(w.autosavers, r)
	}
}

// startCountdownLocked starts the timer of r once. onExpire runs in the timer
// goroutine and receives the countdown that fired. Callers hold w.mu.
func (w *Wizard) startCountdownLocked(r gate.Round, onExpire func(*round.Countdown)) *round.Countdown {
	if c, ok := w.timers[r]; ok {
		return c
	}
	var c *round.Countdown
	c = round.NewCountdown(w.durations[r], func() { onExpire(c) })
	w.timers[r] = c
	c.Start(context.Background())
	return c
}

// ownsTimerLocked reports whether c is still the running timer of r. An expiry
// that lost the race with a submit or reset finds a different timer or none.
func (w *Wizard) ownsTimerLocked(r gate.Round, c *round.Countdown) bool {
	return c != nil && w.timers[r] == c
}

func (w *Wizard) stopCountdownLocked(r gate.Round) {
	if c, ok := w.timers[r]; ok {
		c.Stop()
		delete(w.timers, r)
	}
}

// autosaverLocked returns the autosaver of r, starting it with save on first use.
// Callers hold w.mu.
func (w *Wizard) autosaverLocked(r gate.Round, save round.SaveFunc) *round.Autosaver {
	if a, ok := w.autosavers[r]; ok {
		return a
	}
	a := round.NewAutosaver(save, w.autosaveInterval, w.log.With(zap.String("round", string(r))))
	w.autosavers[r] = a
	a.Start(context.Background())
	return a
}

func (w *Wizard) stopAutosaverLocked(r gate.Round) {
	if a, ok := w.autosavers[r]; ok {
		a.Stop()
		delete(w.autosavers, r)
	}
}

func (w *Wizard) roundContent(ctx context.Context, r gate.Round) (*content.Result, error) {
	if err := w.Enter(r); err != nil {
		return nil, err
	}
	kind, _ := content.ForRound(r)
	result, err := w.content.Load(ctx, kind)
	if err != nil {
		if errors.Is(err, content.ErrNoSetup) {
			return nil, &MissingPrerequisiteError{Requested: r, Redirect: gate.Setup}
		}
		return nil, err
	}
	return result, nil
}
