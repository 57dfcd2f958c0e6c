package filtering

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/store"
	"github.com/jonathan/talent-search/internal/types"
)

func newTestEngine(t *testing.T, employees []types.EmployeeRecord) *Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "employees"), 0o755))

	data, err := json.Marshal(employees)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "employees", "employees.json"), data, 0o644))

	s, err := store.Load(dir, zap.NewNop())
	require.NoError(t, err)
	return New(s, zap.NewNop())
}

func activeEmployee(id, name string) types.EmployeeRecord {
	return types.EmployeeRecord{
		EmployeeID:          id,
		EmployeeName:        name,
		CurrentEmployeeFlag: types.ActiveEmployeeFlag,
	}
}

func TestFilter_EmptySpecKeepsEveryNonTargetRecord(t *testing.T) {
	engine := newTestEngine(t, []types.EmployeeRecord{
		activeEmployee("001", "A"),
		activeEmployee("002", "B"),
		activeEmployee("003", "C"),
	})

	result, err := engine.Filter(types.HardFilterSpec{}, "E-target", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"001", "002", "003"}, result.CandidateIDs)
	assert.Equal(t, 3, result.Stats.TotalEmployees)
	assert.Equal(t, 3, result.Stats.FilteredCount)
	assert.Equal(t, 0.0, result.Stats.EliminationRate)
}

func TestFilter_EmptyStore(t *testing.T) {
	engine := newTestEngine(t, []types.EmployeeRecord{})

	_, err := engine.Filter(types.HardFilterSpec{}, "001", nil)
	require.Error(t, err)

	var notFound *types.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestFilter_ActiveFlagExcludesRegardlessOfOtherFields(t *testing.T) {
	retired := types.EmployeeRecord{
		EmployeeID:   "002",
		EmployeeName: "B",
		JobFamily:    "Engineer",
		Dept3:        "AI推進部",
		JobTitle:     "MLエンジニア",
	}
	kept := activeEmployee("003", "C")
	kept.JobFamily = "Engineer"

	engine := newTestEngine(t, []types.EmployeeRecord{retired, kept})

	result, err := engine.Filter(types.HardFilterSpec{
		CurrentEmployeeFlag: types.ActiveEmployeeFlag,
		JobFamily:           "Engineer",
	}, "001", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"003"}, result.CandidateIDs)
}

func TestFilter_TargetAlwaysExcluded(t *testing.T) {
	engine := newTestEngine(t, []types.EmployeeRecord{
		activeEmployee("001", "A"),
		activeEmployee("002", "B"),
	})

	result, err := engine.Filter(types.HardFilterSpec{}, "001", nil)
	require.NoError(t, err)
	assert.NotContains(t, result.CandidateIDs, "001")
}

func TestFilter_Dept3FuzzyMatch(t *testing.T) {
	related := activeEmployee("002", "B")
	related.Dept3 = "データ分析部"

	unrelated := activeEmployee("003", "C")
	unrelated.Dept3 = "総務部"

	exact := activeEmployee("004", "D")
	exact.Dept3 = "データサイエンス部"

	engine := newTestEngine(t, []types.EmployeeRecord{related, unrelated, exact})

	result, err := engine.Filter(types.HardFilterSpec{
		Dept3: []string{"データサイエンス部"},
	}, "001", nil)
	require.NoError(t, err)

	// データ分析部 shares the データ keyword with the allowed entry; 総務部
	// carries no domain keyword and fails.
	assert.Equal(t, []string{"002", "004"}, result.CandidateIDs)
}

func TestFilter_JobFamilyOverridesTitleMismatch(t *testing.T) {
	emp := activeEmployee("002", "B")
	emp.JobFamily = "Engineer"
	emp.JobTitle = "何か別の肩書き"

	engine := newTestEngine(t, []types.EmployeeRecord{emp})

	result, err := engine.Filter(types.HardFilterSpec{
		JobFamily: "Engineer",
		JobTitle:  []string{"データサイエンティスト"},
	}, "001", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"002"}, result.CandidateIDs)
}

func TestFilter_JobTitleFuzzyMatch(t *testing.T) {
	similar := activeEmployee("002", "B")
	similar.JobTitle = "ソフトウェアエンジニア"

	dissimilar := activeEmployee("003", "C")
	dissimilar.JobTitle = "営業担当"

	engine := newTestEngine(t, []types.EmployeeRecord{similar, dissimilar})

	result, err := engine.Filter(types.HardFilterSpec{
		JobTitle: []string{"インフラエンジニア"},
	}, "001", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"002"}, result.CandidateIDs)
}

func TestFilter_YearsOfServiceFailOpen(t *testing.T) {
	longTenure := activeEmployee("002", "B")
	longTenure.YearsOfService = "5年3ヵ月"

	shortTenure := activeEmployee("003", "C")
	shortTenure.YearsOfService = "1年"

	unparseable := activeEmployee("004", "D")
	unparseable.YearsOfService = "ベテラン"

	missing := activeEmployee("005", "E")

	engine := newTestEngine(t, []types.EmployeeRecord{longTenure, shortTenure, unparseable, missing})

	result, err := engine.Filter(types.HardFilterSpec{YearsOfServiceMin: 3}, "001", nil)
	require.NoError(t, err)

	// The provably short tenure is excluded; unknown tenures pass.
	assert.Equal(t, []string{"002", "004", "005"}, result.CandidateIDs)
}

func TestFilter_CapAt50(t *testing.T) {
	var employees []types.EmployeeRecord
	for i := 0; i < 60; i++ {
		employees = append(employees, activeEmployee(fmt.Sprintf("%03d", i+1), "X"))
	}
	engine := newTestEngine(t, employees)

	result, err := engine.Filter(types.HardFilterSpec{}, "no-such-id", nil)
	require.NoError(t, err)

	assert.Len(t, result.CandidateIDs, MaxCandidates)
	// Stats reflect the full match count, not the truncated list.
	assert.Equal(t, 60, result.Stats.FilteredCount)
	assert.Equal(t, 0.0, result.Stats.EliminationRate)
}

func TestFilter_ScenarioStats(t *testing.T) {
	eng1 := activeEmployee("002", "B")
	eng1.JobFamily = "Engineer"
	eng2 := activeEmployee("003", "C")
	eng2.JobFamily = "Engineer"
	other := types.EmployeeRecord{EmployeeID: "004", EmployeeName: "D", JobFamily: "Sales"}

	engine := newTestEngine(t, []types.EmployeeRecord{eng1, eng2, other})

	result, err := engine.Filter(types.HardFilterSpec{
		JobFamily:           "Engineer",
		CurrentEmployeeFlag: types.ActiveEmployeeFlag,
	}, "E1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"002", "003"}, result.CandidateIDs)
	assert.Equal(t, 3, result.Stats.TotalEmployees)
	assert.Equal(t, 2, result.Stats.FilteredCount)
	assert.InDelta(t, 33.3, result.Stats.EliminationRate, 0.05)
}

func TestFilter_QueryTrace(t *testing.T) {
	engine := newTestEngine(t, []types.EmployeeRecord{activeEmployee("002", "B")})

	result, err := engine.Filter(types.HardFilterSpec{
		CurrentEmployeeFlag: types.ActiveEmployeeFlag,
		JobFamily:           "Engineer",
		Dept3:               []string{"AI推進部"},
	}, "001", nil)
	require.NoError(t, err)

	assert.Contains(t, result.SQLQuery, "job_family = 'Engineer'")
	assert.Contains(t, result.SQLQuery, "'AI推進部'")
	assert.Contains(t, result.SQLQuery, "employee_id != '001'")
}

func TestParseYearsOfService(t *testing.T) {
	tests := []struct {
		input string
		years int
		ok    bool
	}{
		{"3年2ヵ月", 3, true},
		{"10年", 10, true},
		{"3 years 2 months", 3, true},
		{"1 year", 1, true},
		{"ベテラン", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		years, ok := parseYearsOfService(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.years, years, tt.input)
	}
}

func TestThinkingText(t *testing.T) {
	stats := types.FilterStats{TotalEmployees: 100, FilteredCount: 12, EliminationRate: 88.0}
	assert.Contains(t, ThinkingText(stats, "en"), "12 candidates")
	assert.Contains(t, ThinkingText(stats, "ja"), "12人の候補者")
}

func TestFilter_FixedClock(t *testing.T) {
	young := activeEmployee("002", "B")
	young.EnteredAt = "2023-06-01"
	veteran := activeEmployee("003", "C")
	veteran.EnteredAt = "2015-04-01"

	engine := newTestEngine(t, []types.EmployeeRecord{young, veteran})
	engine.now = func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}

	result, err := engine.Filter(types.HardFilterSpec{}, "001", &types.UserFilters{
		Experience: &types.ExperienceFilter{MoreThan5: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"003"}, result.CandidateIDs)
}
