// Package types provides type definitions for structured data used throughout the talent-search system.
package types

import "encoding/json"

// ActiveEmployeeFlag is the sentinel value marking a currently employed person
// in the HR snapshot.
const ActiveEmployeeFlag = "●"

// DateLayout is the wire format for all snapshot dates.
const DateLayout = "2006-01-02"

// EmployeeRecord represents one row of the employee snapshot.
// History arrays are carried opaquely; the funnel never inspects them.
type EmployeeRecord struct {
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name"`
	EmployeeNameKana string `json:"employee_name_kana,omitempty"`
	Nickname         string `json:"nickname,omitempty"`
	Mail             string `json:"mail,omitempty"`

	CurrentEmployeeFlag string `json:"current_employee_flag,omitempty"`
	EmploymentType      string `json:"employment_type,omitempty"`
	EmploymentCategory  string `json:"employment_category,omitempty"`
	EnteredAt           string `json:"entered_at,omitempty"`
	LastDayAt           string `json:"last_day_at,omitempty"`
	RetiredAt           string `json:"retired_at,omitempty"`
	YearsOfService      string `json:"years_of_service,omitempty"`

	Gender   string `json:"gender,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	Age      *int   `json:"age,omitempty"`

	DeptName string `json:"dept_name,omitempty"`
	Dept1    string `json:"dept_1,omitempty"`
	Dept2    string `json:"dept_2,omitempty"`
	Dept3    string `json:"dept_3,omitempty"`
	Dept4    string `json:"dept_4,omitempty"`
	Dept5    string `json:"dept_5,omitempty"`
	Dept6    string `json:"dept_6,omitempty"`

	Location        string `json:"location,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
	JobFamily       string `json:"job_family,omitempty"`
	JobFamilyDetail string `json:"job_family_detail,omitempty"`

	SelfIntroduction string `json:"self_introduction,omitempty"`

	PulseSurveyHistory    json.RawMessage `json:"pulse_survey_history,omitempty"`
	EvaluationHistory     json.RawMessage `json:"evaluation_history,omitempty"`
	ActivityHistory       json.RawMessage `json:"activity_history,omitempty"`
	TransferHistory       json.RawMessage `json:"transfer_history,omitempty"`
	GradeRetentionHistory json.RawMessage `json:"grade_retention_history,omitempty"`
}

// Skill is one entry of a persona's structured skill list.
type Skill struct {
	Name        string `json:"name"`
	Experience  *int   `json:"experience,omitempty"`
	Description string `json:"description,omitempty"`
}

// Persona is a structured skills/career summary associated with an employee id,
// independent of the free-text resume.
type Persona struct {
	Skills []Skill          `json:"skills"`
	Career []map[string]any `json:"career,omitempty"`
}

// Review is a single performance review row from a JSONL side-table.
// Rows are heterogeneous across review types, so fields beyond the recency
// keys stay in Fields.
type Review struct {
	EmployeeID      string         `json:"employee_id"`
	YearMonth       string         `json:"year_month,omitempty"`
	CycleStartDate  string         `json:"cycle_start_date,omitempty"`
	UploadYearMonth string         `json:"upload_year_month,omitempty"`
	Fields          map[string]any `json:"-"`
}

// Reviews bundles the most recent monthly and half-year reviews for one employee.
// Either side may be nil.
type Reviews struct {
	Monthly  *Review
	HalfYear *Review
}

// HasAny reports whether at least one review exists.
func (r Reviews) HasAny() bool {
	return r.Monthly != nil || r.HalfYear != nil
}
