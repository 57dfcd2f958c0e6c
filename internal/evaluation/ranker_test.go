package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/llm"
	"github.com/jonathan/talent-search/internal/store"
	"github.com/jonathan/talent-search/internal/types"
)

// scriptedClient replays replies in call order.
type scriptedClient struct {
	replies []scriptedReply
	calls   int
}

type scriptedReply struct {
	text string
	err  error
}

func (s *scriptedClient) Send(_ context.Context, _ []llm.Message, _ float32, _ bool) (string, error) {
	if s.calls >= len(s.replies) {
		return "", errors.New("unexpected extra call")
	}
	r := s.replies[s.calls]
	s.calls++
	return r.text, r.err
}

func (s *scriptedClient) Provider() string { return "scripted" }
func (s *scriptedClient) Close() error     { return nil }

func resumeReply(overall int) scriptedReply {
	return scriptedReply{text: fmt.Sprintf(`{
		"scores": {"technical_skills": %d, "domain_expertise": %d, "experience_level": %d, "role_alignment": %d, "soft_skills": %d, "overall": %d},
		"strengths": ["strength"],
		"gaps": ["gap"],
		"explanation": "evaluated"
	}`, overall, overall, overall, overall, overall, overall)}
}

func reviewReplyJSON(overall int) scriptedReply {
	return scriptedReply{text: fmt.Sprintf(`{
		"scores": {"performance": %d, "growth": %d, "collaboration": %d, "consistency": %d, "overall": %d},
		"strengths": ["review strength"],
		"gaps": ["review gap"],
		"explanation": "review trend"
	}`, overall, overall, overall, overall, overall)}
}

func newTestStore(t *testing.T, files map[string]string) *store.Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	s, err := store.Load(dir, zap.NewNop())
	require.NoError(t, err)
	return s
}

func snapshotJSON(t *testing.T, ids ...string) string {
	t.Helper()
	var records []types.EmployeeRecord
	for _, id := range ids {
		records = append(records, types.EmployeeRecord{
			EmployeeID:   id,
			EmployeeName: "社員" + id,
			JobTitle:     "エンジニア",
		})
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	return string(data)
}

func target() types.EmployeeRecord {
	return types.EmployeeRecord{EmployeeID: "T1", EmployeeName: "ターゲット", JobTitle: "データサイエンティスト"}
}

func TestEvaluate_ProgressEventsExactlyOncePerCandidate(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1", "C2", "C3", "C4", "C5"),
	})
	gateway := &scriptedClient{replies: []scriptedReply{
		resumeReply(40),
		resumeReply(95),
		{err: errors.New("upstream hiccup")}, // C3 fails, batch continues
		resumeReply(70),
		resumeReply(95),
	}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	var progress []Progress
	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1", "C2", "C3", "C4", "C5"}, types.SoftCriteriaSpec{}, "ja",
		func(p Progress) { progress = append(progress, p) })
	require.NoError(t, err)

	require.Len(t, progress, 5)
	for i, p := range progress {
		assert.Equal(t, i+1, p.Current)
		assert.Equal(t, 5, p.Total)
	}
	assert.Equal(t, 4, outcome.Evaluated)
}

func TestEvaluate_StableSortOnTiedOverall(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1", "C2", "C3", "C4"),
	})
	gateway := &scriptedClient{replies: []scriptedReply{
		resumeReply(40),
		resumeReply(95),
		resumeReply(70),
		resumeReply(95),
	}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1", "C2", "C3", "C4"}, types.SoftCriteriaSpec{}, "ja", nil)
	require.NoError(t, err)

	require.Len(t, outcome.TopCandidates, 3)
	// C2 and C4 tie at 95; C2 was seen first and keeps the higher rank.
	assert.Equal(t, "C2", outcome.TopCandidates[0].Candidate.EmployeeID)
	assert.Equal(t, 1, outcome.TopCandidates[0].Rank)
	assert.Equal(t, "C4", outcome.TopCandidates[1].Candidate.EmployeeID)
	assert.Equal(t, 2, outcome.TopCandidates[1].Rank)
	assert.Equal(t, "C3", outcome.TopCandidates[2].Candidate.EmployeeID)
	assert.Equal(t, 3, outcome.TopCandidates[2].Rank)
}

func TestEvaluate_ReviewBlend(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1"),
		"reviews/monthly_review.jsonl.json": `{"employee_id": "T1", "year_month": "2024-06", "summary": "target review"}
{"employee_id": "C1", "year_month": "2024-06", "summary": "candidate review"}`,
	})
	gateway := &scriptedClient{replies: []scriptedReply{
		resumeReply(80),
		reviewReplyJSON(60),
	}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1"}, types.SoftCriteriaSpec{}, "ja", nil)
	require.NoError(t, err)

	require.Len(t, outcome.TopCandidates, 1)
	eval := outcome.TopCandidates[0].Evaluation
	// 0.7*80 + 0.3*60 = 74
	assert.Equal(t, 74, eval.Scores.Overall)
	assert.Contains(t, eval.Strengths, "review strength")
	assert.Contains(t, eval.Explanation, "review trend")
	assert.Equal(t, 2, gateway.calls)
}

func TestEvaluate_ReviewFailureLeavesResumeScore(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json":          snapshotJSON(t, "C1"),
		"reviews/monthly_review.jsonl.json": `{"employee_id": "C1", "year_month": "2024-06"}`,
	})
	gateway := &scriptedClient{replies: []scriptedReply{
		resumeReply(80),
		{err: errors.New("review call failed")},
	}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1"}, types.SoftCriteriaSpec{}, "ja", nil)
	require.NoError(t, err)

	require.Len(t, outcome.TopCandidates, 1)
	assert.Equal(t, 80, outcome.TopCandidates[0].Evaluation.Scores.Overall)
}

func TestEvaluate_NoReviewsSkipsSecondCall(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1"),
	})
	gateway := &scriptedClient{replies: []scriptedReply{resumeReply(80)}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	_, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1"}, types.SoftCriteriaSpec{}, "ja", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls)
}

func TestEvaluate_CapsStrengthsAndGaps(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1"),
	})
	gateway := &scriptedClient{replies: []scriptedReply{{text: `{
		"scores": {"technical_skills": 80, "domain_expertise": 80, "experience_level": 80, "role_alignment": 80, "soft_skills": 80, "overall": 80},
		"strengths": ["a", "b", "c", "d", "e"],
		"gaps": ["x", "y", "z"],
		"explanation": "over-enumerated"
	}`}}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1"}, types.SoftCriteriaSpec{}, "ja", nil)
	require.NoError(t, err)

	eval := outcome.TopCandidates[0].Evaluation
	assert.Len(t, eval.Strengths, types.MaxStrengths)
	assert.Len(t, eval.Gaps, types.MaxGaps)
}

func TestEvaluate_BatchCappedAt30(t *testing.T) {
	ids := make([]string, 0, 35)
	for i := 0; i < 35; i++ {
		ids = append(ids, fmt.Sprintf("C%02d", i+1))
	}
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, ids...),
	})

	replies := make([]scriptedReply, 0, MaxBatch)
	for i := 0; i < MaxBatch; i++ {
		replies = append(replies, resumeReply(50))
	}
	gateway := &scriptedClient{replies: replies}
	ranker := New(s, gateway, zap.NewNop(), 0)

	var progress []Progress
	outcome, err := ranker.Evaluate(context.Background(), target(), ids,
		types.SoftCriteriaSpec{}, "ja",
		func(p Progress) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Len(t, progress, MaxBatch)
	assert.Equal(t, MaxBatch, progress[len(progress)-1].Total)
	assert.Equal(t, MaxBatch, outcome.Evaluated)
	assert.Len(t, outcome.TopCandidates, TopN)
}

func TestEvaluate_UnknownCandidateSkipped(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1"),
	})
	gateway := &scriptedClient{replies: []scriptedReply{resumeReply(80)}}
	ranker := New(s, gateway, zap.NewNop(), 0)

	var progress []Progress
	outcome, err := ranker.Evaluate(context.Background(), target(),
		[]string{"C1", "GHOST"}, types.SoftCriteriaSpec{}, "ja",
		func(p Progress) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Len(t, progress, 2)
	assert.Equal(t, 1, outcome.Evaluated)
	require.Len(t, outcome.TopCandidates, 1)
	assert.Equal(t, "C1", outcome.TopCandidates[0].Candidate.EmployeeID)
}

func TestEvaluate_EmptyBatch(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"employees/employees.json": snapshotJSON(t, "C1"),
	})
	ranker := New(s, &scriptedClient{}, zap.NewNop(), 0)

	outcome, err := ranker.Evaluate(context.Background(), target(), nil,
		types.SoftCriteriaSpec{}, "en", nil)
	require.NoError(t, err)

	assert.Empty(t, outcome.TopCandidates)
	assert.Equal(t, 0, outcome.Evaluated)
	assert.Contains(t, outcome.ThinkingText, "Evaluated 0 candidates")
}

func TestSummaryText(t *testing.T) {
	assert.Contains(t, summaryText(12, "en"), "Evaluated 12 candidates")
	assert.Contains(t, summaryText(12, "ja"), "12人の候補者")
}
