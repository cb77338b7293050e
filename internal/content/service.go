package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Cached is the stored form of generated content.
type Cached struct {
	Content     *Content `json:"content"`
	Fallback    bool     `json:"fallback"`
	SessionID   string   `json:"sessionId"`
	GeneratedAt string   `json:"generatedAt"`
	// InputDigest identifies the answer an evaluation was made for.
	InputDigest string `json:"inputDigest,omitempty"`
}

// Result is what a round receives when it asks for content.
type Result struct {
	Content  *Content `json:"content"`
	Fallback bool     `json:"fallback"`
	// Warning is a non-blocking notice, set when fallback content is in use.
	Warning string `json:"warning,omitempty"`
	// FromCache is true when nothing was generated.
	FromCache bool `json:"fromCache"`
}

// Service loads, generates and caches content for the current session.
type Service struct {
	session     *session.Session
	newProvider ProviderFactory
	log         *zap.Logger
	now         func() time.Time
}

// NewService creates a Service. A nil logger is replaced by a no-op logger.
func NewService(s *session.Session, factory ProviderFactory, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		session:     s,
		newProvider: factory,
		log:         log,
		now:         time.Now,
	}
}

func cacheKey(kind Kind) string {
	switch kind {
	case KindCodeEval:
		return session.KeyEvaluationCoding
	case KindDesignEval:
		return session.KeyEvaluationSystemDesign
	default:
		return session.ContentKey(string(kind))
	}
}

// Cached returns the stored content for kind if it belongs to the current session.
func (s *Service) Cached(kind Kind) (*Cached, bool) {
	setup, ok := s.session.Setup()
	if !ok {
		return nil, false
	}
	return s.cached(kind, setup.SessionID)
}

func (s *Service) cached(kind Kind, sessionID string) (*Cached, bool) {
	var c Cached
	if !s.session.Load(cacheKey(kind), &c) {
		return nil, false
	}
	if c.SessionID != sessionID || c.Content == nil || c.Content.Kind != kind || c.Content.Empty() {
		return nil, false
	}
	return &c, true
}

// Generate makes one provider call for req. It does not cache or fall back.
func (s *Service) Generate(ctx context.Context, req Request) (*Content, error) {
	credential, ok := s.session.Credential()
	if !ok {
		return nil, ErrMissingCredential
	}
	if s.newProvider == nil {
		return nil, &TransportError{Op: string(req.Kind), Cause: errors.New("no provider configured")}
	}

	provider, err := s.newProvider(ctx, credential)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := provider.Close(); cerr != nil {
			s.log.Debug("closing provider", zap.Error(cerr))
		}
	}()

	out, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if out.Empty() {
		return nil, &MalformedResponseError{Op: string(req.Kind), Reason: "empty result"}
	}
	return out, nil
}

// Load returns cached content for a round kind, generating it on a miss.
// ErrMissingCredential and ErrNoSetup are returned as errors; provider
// failures produce fallback content with a warning.
func (s *Service) Load(ctx context.Context, kind Kind) (*Result, error) {
	setup, ok := s.session.Setup()
	if !ok {
		return nil, ErrNoSetup
	}
	if c, ok := s.cached(kind, setup.SessionID); ok {
		return cachedResult(kind, c), nil
	}
	return s.produce(ctx, kind, setup, "", false)
}

// Retry regenerates content for kind. User answers are not touched. If the
// provider fails and content is already cached, the cached content is kept.
func (s *Service) Retry(ctx context.Context, kind Kind) (*Result, error) {
	setup, ok := s.session.Setup()
	if !ok {
		return nil, ErrNoSetup
	}
	return s.produce(ctx, kind, setup, "", true)
}

// Evaluate returns the review of the current coding or system design artifact,
// generating a new one when the artifact changed since the last review.
func (s *Service) Evaluate(ctx context.Context, kind Kind) (*Result, error) {
	if kind != KindCodeEval && kind != KindDesignEval {
		return nil, fmt.Errorf("%q is not an evaluation kind", kind)
	}
	setup, ok := s.session.Setup()
	if !ok {
		return nil, ErrNoSetup
	}

	digest, err := s.inputDigest(kind)
	if err != nil {
		return nil, err
	}
	if c, ok := s.cached(kind, setup.SessionID); ok && c.InputDigest == digest {
		return cachedResult(kind, c), nil
	}
	return s.produce(ctx, kind, setup, digest, false)
}

func (s *Service) inputDigest(kind Kind) (string, error) {
	var input string
	switch kind {
	case KindCodeEval:
		sub, ok := s.session.CodingSubmission()
		if !ok {
			return "", ErrMissingArtifact
		}
		input = sub.Language + "\x00" + sub.Code
	case KindDesignEval:
		answer, ok := s.session.SystemDesignAnswer()
		if !ok {
			return "", ErrMissingArtifact
		}
		input = answer
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}

// ErrMissingArtifact is returned when an evaluation is requested before the answer exists.
var ErrMissingArtifact = errors.New("nothing has been submitted for this round")

func cachedResult(kind Kind, c *Cached) *Result {
	r := &Result{Content: c.Content, Fallback: c.Fallback, FromCache: true}
	if c.Fallback {
		r.Warning = FallbackWarning(kind)
	}
	return r
}

func (s *Service) produce(ctx context.Context, kind Kind, setup *types.InterviewSetup, digest string, retry bool) (*Result, error) {
	req := Request{Kind: kind, Context: s.Context()}

	out, err := s.Generate(ctx, req)
	if errors.Is(err, ErrMissingCredential) {
		return nil, err
	}

	result := &Result{Content: out}
	if err != nil {
		s.log.Warn("content generation failed, using fallback",
			zap.String("kind", string(kind)), zap.Bool("retry", retry), zap.Error(err))

		if retry {
			if c, ok := s.cached(kind, setup.SessionID); ok {
				kept := cachedResult(kind, c)
				kept.Warning = RetryFailedWarning
				return kept, nil
			}
		}
		result = &Result{
			Content:  Fallback(kind, req.Context),
			Fallback: true,
			Warning:  FallbackWarning(kind),
		}
	}

	if err := s.store(kind, setup.SessionID, digest, result); err != nil {
		return nil, err
	}
	return result, nil
}

// store writes result to the cache unless the session was reset or replaced
// since the request was issued. The last write to complete wins.
func (s *Service) store(kind Kind, sessionID, digest string, result *Result) error {
	s.session.Lock()
	defer s.session.Unlock()

	current, ok := s.session.Setup()
	if !ok || current.SessionID != sessionID {
		s.log.Info("discarding stale content", zap.String("kind", string(kind)))
		return ErrStaleResponse
	}

	entry := Cached{
		Content:     result.Content,
		Fallback:    result.Fallback,
		SessionID:   sessionID,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		InputDigest: digest,
	}
	if err := s.session.Save(cacheKey(kind), entry); err != nil {
		return fmt.Errorf("cache %s: %w", kind, err)
	}
	return nil
}

// Context gathers the setup, cached round content and artifacts of the session.
func (s *Service) Context() Context {
	var c Context
	if setup, ok := s.session.Setup(); ok {
		c.Setup = *setup
	}
	if cached, ok := s.Cached(KindMCQ); ok {
		c.Questions = cached.Content.MCQ
	}
	if answers, ok := s.session.MCQAnswers(); ok {
		c.MCQAnswers = answers
	}
	if cached, ok := s.Cached(KindCodingProblem); ok {
		c.Problem = cached.Content.Problem
	}
	if sub, ok := s.session.CodingSubmission(); ok {
		c.Submission = sub
	}
	if cached, ok := s.Cached(KindSystemDesign); ok {
		c.DesignQuestion = cached.Content.Question
	}
	if answer, ok := s.session.SystemDesignAnswer(); ok {
		c.DesignAnswer = answer
	}
	if cached, ok := s.Cached(KindHRQuestions); ok {
		c.HRQuestions = cached.Content.HRQuestions
	}
	if answers, ok := s.session.HRAnswers(); ok {
		c.HRAnswers = answers
	}
	return c
}

// Prefetch loads content for every round concurrently. Each kind is cached as
// soon as it completes. A missing credential or setup stops the whole batch.
func (s *Service) Prefetch(ctx context.Context) (map[Kind]*Result, error) {
	var (
		mu      sync.Mutex
		results = make(map[Kind]*Result, len(RoundKinds))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range RoundKinds {
		g.Go(func() error {
			r, err := s.Load(gctx, kind)
			if err != nil {
				return fmt.Errorf("prefetch %s: %w", kind, err)
			}
			mu.Lock()
			results[kind] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
