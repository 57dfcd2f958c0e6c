package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 57, ClampScore(57))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(250))
}

func TestEvaluationScoreNormalize_KeepsProvidedOverall(t *testing.T) {
	s := EvaluationScore{
		TechnicalSkills: 80,
		DomainExpertise: 90,
		ExperienceLevel: 70,
		RoleAlignment:   60,
		SoftSkills:      50,
		Overall:         82,
	}
	s.Normalize()
	assert.Equal(t, 82, s.Overall)
}

func TestEvaluationScoreNormalize_RecomputesMissingOverall(t *testing.T) {
	s := EvaluationScore{
		TechnicalSkills: 80,
		DomainExpertise: 90,
		ExperienceLevel: 70,
		RoleAlignment:   60,
		SoftSkills:      51,
	}
	s.Normalize()
	// (80+90+70+60+51)/5 = 70.2 -> 70
	assert.Equal(t, 70, s.Overall)
}

func TestEvaluationScoreNormalize_ClampsAxes(t *testing.T) {
	s := EvaluationScore{
		TechnicalSkills: 150,
		DomainExpertise: -10,
		Overall:         120,
	}
	s.Normalize()
	assert.Equal(t, 100, s.TechnicalSkills)
	assert.Equal(t, 0, s.DomainExpertise)
	assert.Equal(t, 100, s.Overall)
}

func TestReviewScoreNormalize_RecomputesMissingOverall(t *testing.T) {
	s := ReviewScore{
		Performance:   85,
		Growth:        80,
		Collaboration: 75,
		Consistency:   90,
	}
	s.Normalize()
	// (85+80+75+90)/4 = 82.5 -> 83
	assert.Equal(t, 83, s.Overall)
}

func TestBlendOverall(t *testing.T) {
	// 0.7*80 + 0.3*60 = 74
	assert.Equal(t, 74, BlendOverall(80, 60))
	// 0.7*85 + 0.3*90 = 86.5 -> 87
	assert.Equal(t, 87, BlendOverall(85, 90))
	assert.Equal(t, 0, BlendOverall(0, 0))
	assert.Equal(t, 100, BlendOverall(100, 100))
}

func TestCapList(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b", "c"}, CapList(items, MaxStrengths))
	assert.Equal(t, []string{"a", "b"}, CapList(items, MaxGaps))
	assert.Equal(t, []string{"a"}, CapList([]string{"a"}, MaxStrengths))
	assert.Empty(t, CapList(nil, MaxGaps))
}
