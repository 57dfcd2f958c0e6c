package evaluation

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/llm"
	"github.com/jonathan/talent-search/internal/prompts"
	"github.com/jonathan/talent-search/internal/types"
)

const promptFile = "evaluation.json"

func buildResumeMessages(
	tctx partyContext,
	candidate types.EmployeeRecord,
	candidateSkills, candidateResume string,
	criteria types.SoftCriteriaSpec,
	language string,
) []llm.Message {
	user := prompts.Format(prompts.Localized(promptFile, "user", language), map[string]string{
		"TargetName":      tctx.record.EmployeeName,
		"TargetTitle":     tctx.record.JobTitle,
		"TargetDept":      tctx.record.DeptName,
		"TargetSkills":    tctx.skills,
		"TargetResume":    tctx.resume,
		"KeySkills":       strings.Join(criteria.KeySkills, ", "),
		"DomainExpertise": strings.Join(criteria.DomainExpertise, ", "),
		"ExperienceLevel": criteria.ExperienceLevel,
		"CandidateName":   candidate.EmployeeName,
		"CandidateTitle":  candidate.JobTitle,
		"CandidateDept":   candidate.DeptName,
		"CandidateSkills": candidateSkills,
		"CandidateResume": candidateResume,
	})

	return []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.Localized(promptFile, "system", language)},
		{Role: llm.RoleUser, Content: user},
	}
}

// reviewReply is the expected JSON shape of a review-evaluation response.
type reviewReply struct {
	Scores      types.ReviewScore `json:"scores"`
	Strengths   []string          `json:"strengths"`
	Gaps        []string          `json:"gaps"`
	Explanation string            `json:"explanation"`
}

// enrichWithReviews blends a review-based score into an existing evaluation.
// Enrichment is best-effort: any failure leaves the resume evaluation intact.
func (r *Ranker) enrichWithReviews(
	ctx context.Context,
	tctx partyContext,
	candidateReviews types.Reviews,
	candidateID string,
	evaluation *types.CandidateEvaluation,
	language string,
) {
	user := prompts.Format(prompts.Localized(promptFile, "review-user", language), map[string]string{
		"TargetReviews":    renderReviews(tctx.reviews),
		"CandidateReviews": renderReviews(candidateReviews),
	})
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.Localized(promptFile, "review-system", language)},
		{Role: llm.RoleUser, Content: user},
	}

	reply, err := r.gateway.Send(ctx, messages, resumeTemperature, true)
	if err != nil {
		r.logger.Debug("review evaluation skipped",
			zap.String("candidate_id", candidateID),
			zap.Error(err),
		)
		return
	}

	var parsed reviewReply
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(reply)), &parsed); err != nil {
		r.logger.Debug("review evaluation reply unparseable",
			zap.String("candidate_id", candidateID),
			zap.Error(err),
		)
		return
	}

	parsed.Scores.Normalize()
	evaluation.Scores.Overall = types.BlendOverall(evaluation.Scores.Overall, parsed.Scores.Overall)
	evaluation.Strengths = types.CapList(append(evaluation.Strengths, parsed.Strengths...), types.MaxStrengths)
	evaluation.Gaps = types.CapList(append(evaluation.Gaps, parsed.Gaps...), types.MaxGaps)
	if parsed.Explanation != "" {
		evaluation.Explanation = strings.TrimSpace(evaluation.Explanation + " " + parsed.Explanation)
	}
}

// renderReviews flattens the most recent reviews into a compact key: value
// listing the model can read without schema knowledge.
func renderReviews(reviews types.Reviews) string {
	var b strings.Builder
	if reviews.Monthly != nil {
		b.WriteString("[monthly]\n")
		writeFields(&b, reviews.Monthly.Fields)
	}
	if reviews.HalfYear != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[half-year]\n")
		writeFields(&b, reviews.HalfYear.Fields)
	}
	if b.Len() == 0 {
		return "(no reviews)"
	}
	return truncateRunes(b.String(), reviewExcerptLimit)
}

func writeFields(b *strings.Builder, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(renderValue(fields[k]))
		b.WriteString("\n")
	}
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
