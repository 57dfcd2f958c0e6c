// Package filtering implements the deterministic second funnel stage: the
// AND-chain of hard-filter predicates plus the caller's override filters.
package filtering

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/store"
	"github.com/jonathan/talent-search/internal/types"
)

// MaxCandidates caps the candidate-id list handed to the evaluation stage.
const MaxCandidates = 50

// Engine evaluates every record in the store against a filter specification.
// It is pure and synchronous; the only failure mode is an empty store.
type Engine struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Engine backed by the given snapshot.
func New(s *store.Store, logger *zap.Logger) *Engine {
	return &Engine{store: s, logger: logger, now: time.Now}
}

// Result is the output of one filtering pass. Stats are computed on the full
// match count; CandidateIDs is truncated to MaxCandidates.
type Result struct {
	CandidateIDs []string
	Stats        types.FilterStats
	SQLQuery     string
}

// Filter applies the hard filters and optional user overrides to every record
// in store order. The target employee is always excluded.
func (e *Engine) Filter(spec types.HardFilterSpec, targetID string, user *types.UserFilters) (*Result, error) {
	employees := e.store.ListAll()
	if len(employees) == 0 {
		return nil, &types.ErrNotFound{Resource: "employee data"}
	}

	now := e.now()
	var matched []string
	for _, emp := range employees {
		if emp.EmployeeID == targetID {
			continue
		}
		if !e.matchesHardFilters(emp, spec) {
			continue
		}
		if !matchesUserFilters(emp, user, now) {
			continue
		}
		matched = append(matched, emp.EmployeeID)
	}

	total := len(employees)
	kept := len(matched)
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(total-kept)/float64(total)*1000) / 10
	}

	candidateIDs := matched
	if len(candidateIDs) > MaxCandidates {
		candidateIDs = candidateIDs[:MaxCandidates]
	}

	e.logger.Info("candidates filtered",
		zap.String("target_employee_id", targetID),
		zap.Int("total", total),
		zap.Int("kept", kept),
		zap.Int("returned", len(candidateIDs)),
		zap.Float64("elimination_rate", rate),
	)

	return &Result{
		CandidateIDs: candidateIDs,
		Stats: types.FilterStats{
			TotalEmployees:  total,
			FilteredCount:   kept,
			EliminationRate: rate,
		},
		SQLQuery: queryTrace(spec, targetID),
	}, nil
}

// matchesHardFilters applies the structural predicates as a short-circuiting
// AND-chain: active flag, job_family, dept_3, job_title, years of service.
func (e *Engine) matchesHardFilters(emp types.EmployeeRecord, spec types.HardFilterSpec) bool {
	if spec.CurrentEmployeeFlag != "" && emp.CurrentEmployeeFlag != spec.CurrentEmployeeFlag {
		return false
	}

	jobFamilyMatched := spec.JobFamily != "" && emp.JobFamily == spec.JobFamily
	if spec.JobFamily != "" && !jobFamilyMatched {
		return false
	}

	if len(spec.Dept3) > 0 {
		if !containsString(spec.Dept3, emp.Dept3) && !IsRelatedDepartment(emp.Dept3, spec.Dept3) {
			return false
		}
	}

	if len(spec.JobTitle) > 0 {
		if !containsString(spec.JobTitle, emp.JobTitle) &&
			!IsSimilarJobTitle(emp.JobTitle, spec.JobTitle) &&
			!jobFamilyMatched {
			return false
		}
	}

	if spec.YearsOfServiceMin > 0 {
		if years, ok := parseYearsOfService(emp.YearsOfService); ok && years < spec.YearsOfServiceMin {
			return false
		}
		// Unparseable tenure passes: an unknown length of service cannot be
		// proven too short.
	}

	return true
}

var yearsPattern = regexp.MustCompile(`(\d+)\s*(?:年|year)`)

// parseYearsOfService extracts the whole-year count from a free-text duration
// string such as "3年2ヵ月" or "3 years 2 months".
func parseYearsOfService(s string) (int, bool) {
	m := yearsPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return years, true
}

// queryTrace renders the hard filters as a SQL-style description for the
// client's query display. It is informational only and never executed.
func queryTrace(spec types.HardFilterSpec, targetID string) string {
	depts := make([]string, 0, len(spec.Dept3))
	for _, d := range spec.Dept3 {
		depts = append(depts, "'"+d+"'")
	}
	return fmt.Sprintf(`SELECT * FROM employees
WHERE current_employee_flag = '%s'
  AND employee_id != '%s'
  AND job_family = '%s'
  AND dept_3 IN (%s)
LIMIT %d`,
		spec.CurrentEmployeeFlag, targetID, spec.JobFamily,
		strings.Join(depts, ", "), MaxCandidates)
}

// ThinkingText renders the stage summary sentence shown to the client.
func ThinkingText(stats types.FilterStats, language string) string {
	if language == "en" {
		return fmt.Sprintf("Searched the database. Found %d candidates from %d employees (%.1f%% eliminated).",
			stats.FilteredCount, stats.TotalEmployees, stats.EliminationRate)
	}
	return fmt.Sprintf("データベースを検索しました。%d人の従業員から%d人の候補者を見つけました（%.1f%%を除外）。",
		stats.TotalEmployees, stats.FilteredCount, stats.EliminationRate)
}
