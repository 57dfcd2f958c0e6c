// Package analysis implements the first funnel stage: decomposing a target
// employee profile into hard filters and soft criteria via the LLM gateway.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/llm"
	"github.com/jonathan/talent-search/internal/logging"
	"github.com/jonathan/talent-search/internal/prompts"
	"github.com/jonathan/talent-search/internal/types"
)

// analysisTemperature keeps filter extraction near-deterministic.
const analysisTemperature = 0.1

// Analyzer turns a free-form target profile into a structured filter
// specification.
type Analyzer struct {
	gateway llm.Client
	logger  *zap.Logger
}

// New creates an Analyzer.
func New(gateway llm.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{gateway: gateway, logger: logger}
}

// Analyze prompts the gateway with the raw target profile and parses the
// reply. It returns a fresh search id for the caller to thread through later
// stages; the server keeps no session state.
func (a *Analyzer) Analyze(ctx context.Context, target json.RawMessage, language string) (string, *types.AnalysisResult, error) {
	var record types.EmployeeRecord
	if err := json.Unmarshal(target, &record); err != nil {
		return "", nil, &types.ErrValidation{Field: "target_employee", Message: "must be an object"}
	}
	if record.EmployeeID == "" {
		return "", nil, &types.ErrValidation{Field: "target_employee", Message: "must contain employee_id"}
	}

	searchID := uuid.New().String()

	var profile bytes.Buffer
	if err := json.Indent(&profile, target, "", "  "); err != nil {
		profile.Reset()
		profile.Write(target)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.Localized("analysis.json", "system", language)},
		{Role: llm.RoleUser, Content: prompts.Format(
			prompts.Localized("analysis.json", "user", language),
			map[string]string{"Profile": profile.String()},
		)},
	}

	reply, err := a.gateway.Send(ctx, messages, analysisTemperature, true)
	if err != nil {
		return "", nil, &types.ErrUpstream{Provider: a.gateway.Provider(), Err: err}
	}

	a.logger.Debug("analysis reply received",
		zap.String("search_id", searchID),
		zap.String("reply", logging.TruncateForLog(reply, 500)),
	)

	reply = llm.CleanJSONBlock(reply)

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return "", nil, &types.ErrResponseFormat{Detail: "analysis reply is not valid JSON", Err: err}
	}

	if result.HardFilters.CurrentEmployeeFlag == "" {
		result.HardFilters.CurrentEmployeeFlag = types.ActiveEmployeeFlag
	}
	if result.ThinkingText == "" {
		result.ThinkingText = defaultThinkingText(language)
	}

	a.logger.Info("profile analyzed",
		zap.String("search_id", searchID),
		zap.String("target_employee_id", record.EmployeeID),
		zap.String("job_family", result.HardFilters.JobFamily),
		zap.Int("dept_3_values", len(result.HardFilters.Dept3)),
	)

	return searchID, &result, nil
}

func defaultThinkingText(language string) string {
	if language == "en" {
		return "Analysis complete."
	}
	return "分析が完了しました。"
}
