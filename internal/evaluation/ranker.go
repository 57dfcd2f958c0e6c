// Package evaluation implements the third funnel stage: LLM-scored ranking of
// filtered candidates against the target profile.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/llm"
	"github.com/jonathan/talent-search/internal/logging"
	"github.com/jonathan/talent-search/internal/store"
	"github.com/jonathan/talent-search/internal/types"
)

const (
	// MaxBatch caps the number of candidates scored per run for cost control.
	MaxBatch = 30
	// TopN is the number of ranked candidates returned.
	TopN = 3

	// resumeTemperature is low but nonzero so evaluations stay varied enough
	// to separate close candidates.
	resumeTemperature = 0.2
	// resumeExcerptLimit bounds the resume text embedded in a prompt.
	resumeExcerptLimit = 500
	// reviewExcerptLimit bounds the rendered review text embedded in a prompt.
	reviewExcerptLimit = 800

	// DefaultPacing is the fixed delay between candidates. It exists to
	// respect upstream rate limits, not for correctness.
	DefaultPacing = 300 * time.Millisecond
)

// Progress reports one completed candidate to the streaming caller.
type Progress struct {
	Current int
	Total   int
}

// Outcome is the final result of one ranking run.
type Outcome struct {
	TopCandidates []types.CandidateResult
	Evaluated     int
	ThinkingText  string
}

// Ranker scores candidates sequentially and keeps a running best-of list.
type Ranker struct {
	store   *store.Store
	gateway llm.Client
	logger  *zap.Logger
	pacing  time.Duration
}

// New creates a Ranker. A non-positive pacing disables the inter-candidate
// delay (useful in tests).
func New(s *store.Store, gateway llm.Client, logger *zap.Logger, pacing time.Duration) *Ranker {
	return &Ranker{store: s, gateway: gateway, logger: logger, pacing: pacing}
}

// Evaluate scores each candidate against the target, emitting one progress
// event per candidate in strictly increasing index order. Per-candidate
// failures are contained: the candidate is dropped and the batch continues.
func (r *Ranker) Evaluate(
	ctx context.Context,
	target types.EmployeeRecord,
	candidateIDs []string,
	criteria types.SoftCriteriaSpec,
	language string,
	emit func(Progress),
) (*Outcome, error) {
	if len(candidateIDs) > MaxBatch {
		candidateIDs = candidateIDs[:MaxBatch]
	}
	total := len(candidateIDs)

	tctx := r.newPartyContext(target)

	var scored []types.CandidateResult
	for idx, id := range candidateIDs {
		result, err := r.evaluateCandidate(ctx, tctx, id, criteria, language)
		if err != nil {
			r.logger.Warn("candidate evaluation failed",
				zap.String("candidate_id", id),
				zap.Error(err),
			)
		} else {
			scored = append(scored, *result)
		}

		if emit != nil {
			emit(Progress{Current: idx + 1, Total: total})
		}

		if r.pacing > 0 && idx < total-1 {
			select {
			case <-time.After(r.pacing):
			case <-ctx.Done():
			}
		}
	}

	// Stable sort keeps first-seen order on tied overall scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Evaluation.Scores.Overall > scored[j].Evaluation.Scores.Overall
	})

	top := scored
	if len(top) > TopN {
		top = top[:TopN]
	}
	for i := range top {
		top[i].Rank = i + 1
	}

	return &Outcome{
		TopCandidates: top,
		Evaluated:     len(scored),
		ThinkingText:  summaryText(len(scored), language),
	}, nil
}

// partyContext caches the target side of every prompt for one run.
type partyContext struct {
	record  types.EmployeeRecord
	skills  string
	resume  string
	reviews types.Reviews
}

func (r *Ranker) newPartyContext(target types.EmployeeRecord) partyContext {
	tctx := partyContext{record: target}
	if persona, ok := r.store.PersonaFor(target.EmployeeID); ok {
		tctx.skills = skillNames(persona)
	}
	if resume, ok := r.store.ResumeTextFor(target.EmployeeID); ok {
		tctx.resume = truncateRunes(resume, resumeExcerptLimit)
	}
	tctx.reviews = r.store.ReviewsFor(target.EmployeeID)
	return tctx
}

// evaluateCandidate runs the resume-evaluation call and, when review data
// exists for either party, the best-effort review enrichment call.
func (r *Ranker) evaluateCandidate(
	ctx context.Context,
	tctx partyContext,
	candidateID string,
	criteria types.SoftCriteriaSpec,
	language string,
) (*types.CandidateResult, error) {
	candidate, ok := r.store.ByID(candidateID)
	if !ok {
		return nil, &types.ErrNotFound{Resource: "candidate " + candidateID}
	}

	evaluation, err := r.scoreResume(ctx, tctx, candidate, criteria, language)
	if err != nil {
		return nil, err
	}

	candidateReviews := r.store.ReviewsFor(candidateID)
	if tctx.reviews.HasAny() || candidateReviews.HasAny() {
		r.enrichWithReviews(ctx, tctx, candidateReviews, candidate.EmployeeID, evaluation, language)
	}

	return &types.CandidateResult{Candidate: candidate, Evaluation: *evaluation}, nil
}

// evalReply is the expected JSON shape of a resume-evaluation response.
type evalReply struct {
	Scores      types.EvaluationScore `json:"scores"`
	Strengths   []string              `json:"strengths"`
	Gaps        []string              `json:"gaps"`
	Explanation string                `json:"explanation"`
}

func (r *Ranker) scoreResume(
	ctx context.Context,
	tctx partyContext,
	candidate types.EmployeeRecord,
	criteria types.SoftCriteriaSpec,
	language string,
) (*types.CandidateEvaluation, error) {
	candidateSkills := ""
	if persona, ok := r.store.PersonaFor(candidate.EmployeeID); ok {
		candidateSkills = skillNames(persona)
	}
	candidateResume := ""
	if resume, ok := r.store.ResumeTextFor(candidate.EmployeeID); ok {
		candidateResume = truncateRunes(resume, resumeExcerptLimit)
	}

	messages := buildResumeMessages(tctx, candidate, candidateSkills, candidateResume, criteria, language)

	reply, err := r.gateway.Send(ctx, messages, resumeTemperature, true)
	if err != nil {
		return nil, &types.ErrUpstream{Provider: r.gateway.Provider(), Err: err}
	}

	r.logger.Debug("resume evaluation reply",
		zap.String("candidate_id", candidate.EmployeeID),
		zap.String("reply", logging.TruncateForLog(reply, 300)),
	)

	var parsed evalReply
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(reply)), &parsed); err != nil {
		return nil, &types.ErrResponseFormat{Detail: "evaluation reply is not valid JSON", Err: err}
	}

	parsed.Scores.Normalize()
	return &types.CandidateEvaluation{
		Scores:      parsed.Scores,
		Strengths:   types.CapList(parsed.Strengths, types.MaxStrengths),
		Gaps:        types.CapList(parsed.Gaps, types.MaxGaps),
		Explanation: parsed.Explanation,
	}, nil
}

func summaryText(evaluated int, language string) string {
	if language == "en" {
		return fmt.Sprintf("Resume analysis complete. Evaluated %d candidates and selected the top 3 most similar employees.", evaluated)
	}
	return fmt.Sprintf("レジュメ分析が完了しました。%d人の候補者を評価し、最も類似した3人を選出しました。", evaluated)
}

func skillNames(persona types.Persona) string {
	names := make([]string, 0, len(persona.Skills))
	for _, skill := range persona.Skills {
		if skill.Name != "" {
			names = append(names, skill.Name)
		}
	}
	return strings.Join(names, ", ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
