package types

import "math"

// Caps applied when assembling a CandidateEvaluation. The LLM is asked for
// these limits but they are enforced here, not trusted.
const (
	MaxStrengths = 3
	MaxGaps      = 2
)

// EvaluationScore holds the five resume-evaluation axes plus the blended
// overall score. All values are integers in [0,100].
type EvaluationScore struct {
	TechnicalSkills int `json:"technical_skills"`
	DomainExpertise int `json:"domain_expertise"`
	ExperienceLevel int `json:"experience_level"`
	RoleAlignment   int `json:"role_alignment"`
	SoftSkills      int `json:"soft_skills"`
	Overall         int `json:"overall"`
}

// ReviewScore holds the four performance-review axes. Review scoring is a
// best-effort enrichment; it never replaces the resume evaluation.
type ReviewScore struct {
	Performance   int `json:"performance"`
	Growth        int `json:"growth"`
	Collaboration int `json:"collaboration"`
	Consistency   int `json:"consistency"`
	Overall       int `json:"overall"`
}

// CandidateEvaluation is the per-candidate scoring output.
type CandidateEvaluation struct {
	Scores      EvaluationScore `json:"scores"`
	Strengths   []string        `json:"strengths"`
	Gaps        []string        `json:"gaps"`
	Explanation string          `json:"explanation"`
}

// CandidateResult attaches an evaluation to a ranked candidate record.
type CandidateResult struct {
	Rank       int                 `json:"rank"`
	Candidate  EmployeeRecord      `json:"candidate"`
	Evaluation CandidateEvaluation `json:"evaluation"`
}

// ClampScore forces a score into the [0,100] integer range.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalize clamps every axis and recomputes Overall as the rounded mean of
// the five axes when the reply omitted it.
func (s *EvaluationScore) Normalize() {
	s.TechnicalSkills = ClampScore(s.TechnicalSkills)
	s.DomainExpertise = ClampScore(s.DomainExpertise)
	s.ExperienceLevel = ClampScore(s.ExperienceLevel)
	s.RoleAlignment = ClampScore(s.RoleAlignment)
	s.SoftSkills = ClampScore(s.SoftSkills)
	if s.Overall <= 0 {
		sum := s.TechnicalSkills + s.DomainExpertise + s.ExperienceLevel + s.RoleAlignment + s.SoftSkills
		s.Overall = int(math.Round(float64(sum) / 5))
	}
	s.Overall = ClampScore(s.Overall)
}

// Normalize clamps every axis and recomputes Overall as the rounded mean of
// the four axes when the reply omitted it.
func (s *ReviewScore) Normalize() {
	s.Performance = ClampScore(s.Performance)
	s.Growth = ClampScore(s.Growth)
	s.Collaboration = ClampScore(s.Collaboration)
	s.Consistency = ClampScore(s.Consistency)
	if s.Overall <= 0 {
		sum := s.Performance + s.Growth + s.Collaboration + s.Consistency
		s.Overall = int(math.Round(float64(sum) / 4))
	}
	s.Overall = ClampScore(s.Overall)
}

// BlendOverall combines a resume overall with a review overall using the
// 70/30 weighting.
func BlendOverall(resume, review int) int {
	return ClampScore(int(math.Round(0.7*float64(resume) + 0.3*float64(review))))
}

// CapList truncates a string list to at most max entries.
func CapList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
