package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/evaluation"
	"github.com/jonathan/talent-search/internal/filtering"
	"github.com/jonathan/talent-search/internal/types"
)

// handleAnalyze runs the analysis stage: target profile in, filter spec out.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	searchID, result, err := s.analyzer.Analyze(r.Context(), req.TargetEmployee, req.Language)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AnalyzeResponse{
		SearchID:       searchID,
		Stage:          "analysis",
		ThinkingText:   result.ThinkingText,
		AnalysisResult: result,
	})
}

// handleFilter runs the deterministic filtering stage.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req types.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Filter(req.HardFilters, req.TargetEmployeeID, req.UserFilters)
	if err != nil {
		s.logger.Error("filtering failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.FilterResponse{
		Stage:        "filtering",
		ThinkingText: filtering.ThinkingText(result.Stats, req.Language),
		Stats:        result.Stats,
		CandidateIDs: result.CandidateIDs,
		SQLQuery:     result.SQLQuery,
	})
}

// handleEvaluateStream runs the ranking stage over SSE. Once the stream has
// started, failures surface as error frames rather than status codes.
func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := s.resolveTarget(req.TargetEmployee)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome, err := s.ranker.Evaluate(
		r.Context(), target, req.CandidateIDs, req.SoftCriteria, req.Language,
		func(p evaluation.Progress) {
			if err := sse.WriteProgress(p.Current, p.Total); err != nil {
				s.logger.Warn("writing progress frame", zap.Error(err))
			}
		},
	)
	if err != nil {
		s.logger.Error("evaluation failed", zap.Error(err))
		sse.WriteError(err.Error())
		return
	}

	if err := sse.Write("complete", map[string]any{
		"search_id":        req.SearchID,
		"stage":            "evaluation",
		"thinking_text":    outcome.ThinkingText,
		"top_3_candidates": outcome.TopCandidates,
	}); err != nil {
		s.logger.Warn("writing complete frame", zap.Error(err))
	}
}

// resolveTarget decodes the inline target profile, preferring the store's
// fuller record when the id is known.
func (s *Server) resolveTarget(raw json.RawMessage) (types.EmployeeRecord, error) {
	var target types.EmployeeRecord
	if err := json.Unmarshal(raw, &target); err != nil {
		return target, &types.ErrValidation{Field: "target_employee", Message: "not a valid employee profile"}
	}
	if target.EmployeeID == "" {
		return target, &types.ErrValidation{Field: "target_employee", Message: "employee_id is required"}
	}
	if stored, ok := s.store.ByID(target.EmployeeID); ok {
		return stored, nil
	}
	return target, nil
}

// handlePeopleSearch serves the scored substring lookup across the snapshot.
func (s *Server) handlePeopleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "query is required")
		return
	}

	hits := s.store.Search(query)
	results := make([]map[string]any, 0, len(hits))
	for _, hit := range hits {
		results = append(results, map[string]any{
			"employee": hit.Person,
			"score":    hit.Score,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
