package server

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/round"
	"github.com/jonathan/interview-simulator/internal/types"
)

// MCQAnswerRequest represents the request body for PUT /api/rounds/mcq/answers/{index}
type MCQAnswerRequest struct {
	Option int `json:"option"`
}

// MCQAnswerResponse returns the saved selections.
type MCQAnswerResponse struct {
	Answers  types.MCQAnswers `json:"answers"`
	Answered int              `json:"answered"`
}

// CodeRequest represents the request body of the coding update and submit endpoints
type CodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// DesignRequest represents the request body of the system design update and submit endpoints
type DesignRequest struct {
	Answer string `json:"answer"`
}

// HRAnswerRequest represents the request body for PUT /api/rounds/hr/answers
type HRAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HRSubmitRequest represents the request body for POST /api/rounds/hr/submit
type HRSubmitRequest struct {
	Answers types.HRAnswers `json:"answers"`
}

func (s *Server) handleMCQ(w http.ResponseWriter, r *http.Request) {
	view, err := s.wizard.MCQ(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleAnswerMCQ(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, ErrorBody{Error: "Question index must be a number", Field: "index"})
		return
	}
	var req MCQAnswerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	answers, err := s.wizard.AnswerMCQ(index, req.Option)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MCQAnswerResponse{Answers: answers, Answered: answers.AnsweredCount()})
}

func (s *Server) handleSubmitMCQ(w http.ResponseWriter, r *http.Request) {
	result, err := s.wizard.SubmitMCQ()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleCoding(w http.ResponseWriter, r *http.Request) {
	view, err := s.wizard.Coding(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleUpdateCode records the editor contents for autosave
func (s *Server) handleUpdateCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.wizard.UpdateCode(req.Code, req.Language); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitCoding(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	result, err := s.wizard.SubmitCoding(r.Context(), req.Code, req.Language)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleSystemDesign(w http.ResponseWriter, r *http.Request) {
	view, err := s.wizard.SystemDesign(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleUpdateSystemDesign(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.wizard.UpdateSystemDesign(req.Answer); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitSystemDesign(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	result, err := s.wizard.SubmitSystemDesign(r.Context(), req.Answer)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleHR(w http.ResponseWriter, r *http.Request) {
	view, err := s.wizard.HR(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleAnswerHR(w http.ResponseWriter, r *http.Request) {
	var req HRAnswerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	remaining, err := s.wizard.AnswerHR(req.Question, req.Answer)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"remaining": remaining})
}

func (s *Server) handleSubmitHR(w http.ResponseWriter, r *http.Request) {
	var req HRSubmitRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	result, err := s.wizard.SubmitHR(req.Answers)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// nextRound is where a timed round goes after it is submitted.
var nextRound = map[gate.Round]gate.Round{
	gate.MCQ:          gate.Coding,
	gate.SystemDesign: gate.HR,
}

// handleCountdown streams the remaining time of a timed round until it
// expires, is submitted, or the client goes away.
func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	rnd, ok := gate.ParseRound(r.PathValue("round"))
	if _, timed := nextRound[rnd]; !ok || !timed {
		s.errorResponse(w, http.StatusNotFound, "Round has no timer: "+r.PathValue("round"))
		return
	}
	countdown, running := s.wizard.Countdown(rnd)
	if !running {
		s.errorResponse(w, http.StatusNotFound, "No countdown is running for this round")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	tick := func() TickEvent {
		remaining := countdown.Remaining()
		return TickEvent{
			Round:            string(rnd),
			RemainingSeconds: int(remaining / time.Second),
			Clock:            round.FormatClock(remaining),
		}
	}

	if err := sse.WriteEvent(EventTick, tick()); err != nil {
		return
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-countdown.Done():
			event := tick()
			name := EventStopped
			if countdown.Expired() {
				name = EventExpired
				event.Next = routePath(nextRound[rnd])
			}
			if err := sse.WriteEvent(name, event); err != nil {
				s.log.Debug("countdown stream closed", zap.Error(err))
			}
			return
		case <-ticker.C:
			if err := sse.WriteEvent(EventTick, tick()); err != nil {
				s.log.Debug("countdown stream closed", zap.Error(err))
				return
			}
		}
	}
}
