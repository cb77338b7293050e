// Package feedback produces the final interview report exactly once per session.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// ErrIncompleteSession is returned when a report is requested before every
// round has an artifact. It is never a provider failure.
var ErrIncompleteSession = errors.New("interview is incomplete")

// Outcome says how ComputeOrFetch produced its report.
type Outcome string

const (
	OutcomeCached   Outcome = "cached"
	OutcomeComputed Outcome = "computed"
	OutcomeFallback Outcome = "fallback"
)

// Generator is the part of content.Service the aggregator needs.
type Generator interface {
	Generate(ctx context.Context, req content.Request) (*content.Content, error)
	Context() content.Context
}

// Aggregator computes and caches the feedback report.
type Aggregator struct {
	session   *session.Session
	generator Generator
	log       *zap.Logger
	now       func() time.Time

	// mu makes concurrent callers share one computation.
	mu sync.Mutex
}

// NewAggregator creates an Aggregator. A nil logger is replaced by a no-op logger.
func NewAggregator(s *session.Session, g Generator, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{session: s, generator: g, log: log, now: time.Now}
}

// ComputeOrFetch returns the cached report, or computes, validates and stores
// one. Provider failures and invalid reports are replaced by the fallback
// report, which is stored the same way. Once stored a report is never
// recomputed until the session is reset. A missing credential is returned
// as content.ErrMissingCredential and nothing is stored.
func (a *Aggregator) ComputeOrFetch(ctx context.Context) (*types.FeedbackReport, Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if report, ok := a.session.Report(); ok {
		return report, OutcomeCached, nil
	}

	if err := gate.Check(a.session, gate.Results); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrIncompleteSession, err)
	}
	setup, ok := a.session.Setup()
	if !ok {
		return nil, "", ErrIncompleteSession
	}

	report, outcome, err := a.compute(ctx)
	if err != nil {
		return nil, "", err
	}
	report.GeneratedAt = a.now().UTC().Format(time.RFC3339)

	a.session.Lock()
	defer a.session.Unlock()
	current, ok := a.session.Setup()
	if !ok || current.SessionID != setup.SessionID {
		a.log.Info("discarding report for a reset session")
		return nil, "", content.ErrStaleResponse
	}
	if err := a.session.SaveReport(report); err != nil {
		return nil, "", fmt.Errorf("store feedback report: %w", err)
	}

	a.log.Info("feedback report stored",
		zap.String("outcome", string(outcome)),
		zap.Int("overall", int(report.Scores.Overall)))
	return report, outcome, nil
}

func (a *Aggregator) compute(ctx context.Context) (*types.FeedbackReport, Outcome, error) {
	req := content.Request{Kind: content.KindFullFeedback, Context: a.generator.Context()}

	out, err := a.generator.Generate(ctx, req)
	if errors.Is(err, content.ErrMissingCredential) {
		return nil, "", err
	}
	if err == nil && (out == nil || out.Report == nil) {
		err = &content.MalformedResponseError{Op: string(content.KindFullFeedback), Reason: "empty result"}
	}
	if err == nil {
		err = out.Report.Validate()
	}
	if err != nil {
		a.log.Warn("feedback generation failed, using fallback report", zap.Error(err))
		return content.FallbackReport(), OutcomeFallback, nil
	}

	report := *out.Report
	report.Source = types.ReportFromProvider
	return &report, OutcomeComputed, nil
}
