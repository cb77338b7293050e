package feedback

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/store"
	"github.com/jonathan/interview-simulator/internal/types"
)

// fakeGenerator answers full-feedback requests from GenerateFunc.
type fakeGenerator struct {
	GenerateFunc func(ctx context.Context, req content.Request) (*content.Content, error)
	calls        atomic.Int32
}

func (f *fakeGenerator) Generate(ctx context.Context, req content.Request) (*content.Content, error) {
	f.calls.Add(1)
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, req)
	}
	return &content.Content{Kind: req.Kind, Report: providerReport()}, nil
}

func (f *fakeGenerator) Context() content.Context {
	return content.Context{}
}

func providerReport() *types.FeedbackReport {
	return &types.FeedbackReport{
		Overall: "Strong candidate.", MCQ: "Good recall.", Coding: "Clean code.",
		SystemDesign: "Scales well.", HR: "Clear answers.",
		Scores:          types.Scores{MCQ: 80, Coding: 75, SystemDesign: 70, HR: 95, Overall: 80},
		Strengths:       []string{"Communication"},
		Weaknesses:      []string{"Caching"},
		Recommendations: []string{"Practice design"},
	}
}

func completeSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(store.NewMemory(), nil)
	req := types.SetupRequest{JobTitle: "Backend Engineer", Company: "Acme"}
	req.Normalize()
	require.NoError(t, s.SaveSetup(types.NewInterviewSetup(req, uuid.NewString(), time.Now())))
	require.NoError(t, s.SaveMCQAnswers(types.MCQAnswers{0, 1, -1}))
	require.NoError(t, s.SaveCodingSubmission(&types.CodingSubmission{Code: "return 42"}))
	require.NoError(t, s.SaveSystemDesignAnswer("Shard by user."))
	require.NoError(t, s.SaveHRAnswers(types.HRAnswers{"Why us?": "Mission"}))
	return s
}

func TestComputeOrFetch_ComputesOnce(t *testing.T) {
	s := completeSession(t)
	gen := &fakeGenerator{}
	agg := NewAggregator(s, gen, nil)

	first, outcome, err := agg.ComputeOrFetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeComputed, outcome)
	assert.Equal(t, types.ReportFromProvider, first.Source)
	assert.NotEmpty(t, first.GeneratedAt)

	second, outcome, err := agg.ComputeOrFetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCached, outcome)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), gen.calls.Load())

	assert.True(t, gate.Eligible(s, gate.Results))
}

func TestComputeOrFetch_ConcurrentCallersShareOneComputation(t *testing.T) {
	s := completeSession(t)
	gen := &fakeGenerator{}
	agg := NewAggregator(s, gen, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := agg.ComputeOrFetch(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestComputeOrFetch_FallbackOnFailure(t *testing.T) {
	failures := map[string]func(context.Context, content.Request) (*content.Content, error){
		"transport": func(context.Context, content.Request) (*content.Content, error) {
			return nil, &content.TransportError{Op: "full-feedback", Cause: errors.New("timeout")}
		},
		"empty": func(_ context.Context, req content.Request) (*content.Content, error) {
			return &content.Content{Kind: req.Kind}, nil
		},
		"invalid shape": func(_ context.Context, req content.Request) (*content.Content, error) {
			report := providerReport()
			report.Strengths = nil
			return &content.Content{Kind: req.Kind, Report: report}, nil
		},
	}

	for name, fn := range failures {
		t.Run(name, func(t *testing.T) {
			s := completeSession(t)
			gen := &fakeGenerator{GenerateFunc: fn}
			agg := NewAggregator(s, gen, nil)

			report, outcome, err := agg.ComputeOrFetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, OutcomeFallback, outcome)
			assert.Equal(t, types.ReportFromFallback, report.Source)
			assert.Equal(t, content.FallbackReport().Scores, report.Scores)

			// The fallback is persisted and not recomputed.
			stored, ok := s.Report()
			require.True(t, ok)
			assert.Equal(t, report, stored)
			_, outcome, err = agg.ComputeOrFetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, OutcomeCached, outcome)
			assert.Equal(t, int32(1), gen.calls.Load())
		})
	}
}

func TestComputeOrFetch_IncompleteSession(t *testing.T) {
	s := completeSession(t)
	require.NoError(t, s.Remove(session.KeySystemDesignAnswer))
	gen := &fakeGenerator{}
	agg := NewAggregator(s, gen, nil)

	_, _, err := agg.ComputeOrFetch(context.Background())
	require.ErrorIs(t, err, ErrIncompleteSession)
	assert.False(t, content.IsProviderError(err))

	var missing *gate.MissingPrerequisiteError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, gate.SystemDesign, missing.Redirect)
	assert.Equal(t, int32(0), gen.calls.Load())
	assert.False(t, s.Has(session.KeyFeedbackReport))
}

func TestComputeOrFetch_MissingCredentialStoresNothing(t *testing.T) {
	s := completeSession(t)
	gen := &fakeGenerator{}
	gen.GenerateFunc = func(_ context.Context, req content.Request) (*content.Content, error) {
		if _, ok := s.Credential(); !ok {
			return nil, content.ErrMissingCredential
		}
		return &content.Content{Kind: req.Kind, Report: providerReport()}, nil
	}
	agg := NewAggregator(s, gen, nil)

	view, err := agg.Resolve(context.Background())
	require.ErrorIs(t, err, content.ErrMissingCredential)
	assert.Nil(t, view)
	assert.False(t, s.Has(session.KeyFeedbackReport))

	require.NoError(t, s.SetCredential("new-key"))
	view, err = agg.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeComputed, view.Outcome)
	assert.Equal(t, types.ReportFromProvider, view.Report.Source)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestComputeOrFetch_DiscardsAfterReset(t *testing.T) {
	s := completeSession(t)
	gen := &fakeGenerator{}
	gen.GenerateFunc = func(_ context.Context, req content.Request) (*content.Content, error) {
		require.NoError(t, s.Reset())
		return &content.Content{Kind: req.Kind, Report: providerReport()}, nil
	}
	agg := NewAggregator(s, gen, nil)

	_, _, err := agg.ComputeOrFetch(context.Background())
	assert.ErrorIs(t, err, content.ErrStaleResponse)
	assert.False(t, s.Has(session.KeyFeedbackReport))
}

func TestResolve_Traces(t *testing.T) {
	t.Run("computed", func(t *testing.T) {
		agg := NewAggregator(completeSession(t), &fakeGenerator{}, nil)
		view, err := agg.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []State{StateLoading, StateNeedsComputation, StateProviderSuccess, StateDone}, view.Trace)
		assert.Empty(t, view.Warning)

		again, err := agg.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []State{StateLoading, StateHasCachedReport, StateDone}, again.Trace)
	})

	t.Run("fallback", func(t *testing.T) {
		gen := &fakeGenerator{GenerateFunc: func(context.Context, content.Request) (*content.Content, error) {
			return nil, &content.AuthError{Op: "full-feedback", StatusCode: 401, Cause: errors.New("bad key")}
		}}
		agg := NewAggregator(completeSession(t), gen, nil)
		view, err := agg.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StateDone, view.State())
		assert.Contains(t, view.Trace, StateFallbackApplied)
		assert.Equal(t, content.FallbackWarning(content.KindFullFeedback), view.Warning)

		cached, err := agg.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, view.Warning, cached.Warning)
	})

	t.Run("missing prerequisites", func(t *testing.T) {
		s := session.New(store.NewMemory(), nil)
		agg := NewAggregator(s, &fakeGenerator{}, nil)
		view, err := agg.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StateRedirectToGate, view.State())
		assert.Equal(t, gate.Setup, view.Redirect)
		assert.Equal(t, "Interview setup not found", view.Notice)
	})
}

func TestTraces_FollowTransitions(t *testing.T) {
	traces := [][]State{
		{StateLoading, StateHasCachedReport, StateDone},
		{StateLoading, StateNeedsComputation, StateProviderSuccess, StateDone},
		{StateLoading, StateNeedsComputation, StateProviderFailure, StateFallbackApplied, StateDone},
		{StateLoading, StateMissingPrerequisites, StateRedirectToGate},
	}
	for _, trace := range traces {
		for i := 1; i < len(trace); i++ {
			assert.True(t, CanTransition(trace[i-1], trace[i]), "%s -> %s", trace[i-1], trace[i])
		}
		assert.True(t, Terminal(trace[len(trace)-1]))
	}
	assert.False(t, CanTransition(StateProviderFailure, StateDone))
	assert.False(t, CanTransition(StateDone, StateLoading))
}
