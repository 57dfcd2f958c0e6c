package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// HardFilterSpec is the structural predicate produced by the analysis stage.
// Every field except the active-employee flag is optional; a zero value means
// "no constraint".
type HardFilterSpec struct {
	JobFamily           string   `json:"job_family,omitempty"`
	Dept3               []string `json:"dept_3,omitempty"`
	JobTitle            []string `json:"job_title,omitempty"`
	YearsOfServiceMin   int      `json:"years_of_service_min,omitempty"`
	CurrentEmployeeFlag string   `json:"current_employee_flag"`
}

// SoftCriteriaSpec is descriptive ranking context. It is never mechanically
// matched; it is passed verbatim into evaluation prompts.
type SoftCriteriaSpec struct {
	KeySkills            []string `json:"key_skills"`
	DomainExpertise      []string `json:"domain_expertise"`
	ExperienceLevel      string   `json:"experience_level"`
	RoleAlignment        string   `json:"role_alignment"`
	PreferredDepartments []string `json:"preferred_departments"`
}

// AnalysisResult is the parsed output of the analysis stage.
type AnalysisResult struct {
	HardFilters  HardFilterSpec   `json:"hard_filters"`
	SoftCriteria SoftCriteriaSpec `json:"soft_criteria"`
	ThinkingText string           `json:"thinking_text"`
}

// GenderFilter toggles acceptable gender values. When neither toggle is set
// the filter is a no-op.
type GenderFilter struct {
	Male   bool `json:"male"`
	Female bool `json:"female"`
}

// ExperienceFilter holds coarse tenure buckets derived from entered_at.
// Enabled buckets are OR-combined.
type ExperienceFilter struct {
	LessThan3 bool `json:"lessThan3"`
	LessThan5 bool `json:"lessThan5"`
	MoreThan5 bool `json:"moreThan5"`
}

// DateRangeFilter constrains a record date to an inclusive [From, To] window.
// NoInput disables the filter regardless of the bounds.
type DateRangeFilter struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	NoInput bool   `json:"noInput"`
}

// UserFilters is the optional caller-supplied refinement layered on top of
// HardFilterSpec. JSON keys match the filter modal's payload.
type UserFilters struct {
	Gender           *GenderFilter     `json:"gender,omitempty"`
	Experience       *ExperienceFilter `json:"experience,omitempty"`
	JoinDate         *DateRangeFilter  `json:"joinDate,omitempty"`
	BirthDate        *DateRangeFilter  `json:"birthDate,omitempty"`
	EmploymentPeriod *DateRangeFilter  `json:"employmentPeriod,omitempty"`
	DepartureDate    *DateRangeFilter  `json:"departureDate,omitempty"`
}

// FilterStats summarizes one filtering pass. EliminationRate is a percentage
// rounded to one decimal and is informational only.
type FilterStats struct {
	TotalEmployees  int     `json:"total_employees"`
	FilteredCount   int     `json:"filtered_count"`
	EliminationRate float64 `json:"elimination_rate"`
}

// AnalyzeRequest is the request body for the analysis stage.
// TargetEmployee is decoded lazily so the raw profile can be embedded in the
// analysis prompt unchanged.
type AnalyzeRequest struct {
	TargetEmployee json.RawMessage `json:"target_employee" validate:"required"`
	Language       string          `json:"language,omitempty" validate:"omitempty,oneof=ja en"`
}

// AnalyzeResponse is the response of the analysis stage.
type AnalyzeResponse struct {
	SearchID       string          `json:"search_id"`
	Stage          string          `json:"stage"`
	ThinkingText   string          `json:"thinking_text"`
	AnalysisResult *AnalysisResult `json:"analysis_result,omitempty"`
}

// FilterRequest is the request body for the filtering stage.
type FilterRequest struct {
	SearchID         string         `json:"search_id"`
	HardFilters      HardFilterSpec `json:"hard_filters"`
	TargetEmployeeID string         `json:"target_employee_id" validate:"required"`
	UserFilters      *UserFilters   `json:"user_filters,omitempty"`
	Language         string         `json:"language,omitempty" validate:"omitempty,oneof=ja en"`
}

// FilterResponse is the response of the filtering stage.
type FilterResponse struct {
	Stage        string      `json:"stage"`
	ThinkingText string      `json:"thinking_text"`
	Stats        FilterStats `json:"stats"`
	CandidateIDs []string    `json:"candidate_ids"`
	SQLQuery     string      `json:"sql_query,omitempty"`
}

// EvaluateRequest is the request body for the streaming evaluation stage.
type EvaluateRequest struct {
	SearchID       string           `json:"search_id"`
	TargetEmployee json.RawMessage  `json:"target_employee" validate:"required"`
	CandidateIDs   []string         `json:"candidate_ids" validate:"required"`
	SoftCriteria   SoftCriteriaSpec `json:"soft_criteria"`
	Language       string           `json:"language,omitempty" validate:"omitempty,oneof=ja en"`
}

var validate = validator.New()

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the FilterRequest using the validator.
func (r *FilterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the EvaluateRequest using the validator.
func (r *EvaluateRequest) Validate() error {
	return validate.Struct(r)
}
