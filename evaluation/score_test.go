package evaluation

import (
	"context"
	"testing"

	"github.com/hupe1980/agentpair/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCompleteness(t *testing.T) {
	assert.Equal(t, RatingNone, ScoreCompleteness(false, 0, 5))
	assert.Equal(t, RatingExcellent, ScoreCompleteness(true, 0, 5))
	assert.Equal(t, RatingGood, ScoreCompleteness(true, 1, 5))
	assert.Equal(t, RatingPoor, ScoreCompleteness(true, 2, 5))
	assert.Equal(t, RatingPoor, ScoreCompleteness(true, 1, 2))
}

func TestScoreLintQuality(t *testing.T) {
	assert.Equal(t, RatingNone, ScoreLintQuality(0, false))
	assert.Equal(t, RatingExcellent, ScoreLintQuality(0, true))
	assert.Equal(t, RatingGood, ScoreLintQuality(2, true))
	assert.Equal(t, RatingPoor, ScoreLintQuality(3, true))
}

func TestScoreCodeQuality(t *testing.T) {
	assert.Equal(t, RatingNone, ScoreCodeQuality(false, 0))
	assert.Equal(t, RatingExcellent, ScoreCodeQuality(true, 0))
	assert.Equal(t, RatingGood, ScoreCodeQuality(true, 2))
	assert.Equal(t, RatingPoor, ScoreCodeQuality(true, 3))
}

func TestScoreOutputValidity(t *testing.T) {
	assert.Equal(t, RatingNone, ScoreOutputValidity(false, 0, 0))
	assert.Equal(t, RatingExcellent, ScoreOutputValidity(true, 0, 0))
	assert.Equal(t, RatingGood, ScoreOutputValidity(true, 0, 2))
	assert.Equal(t, RatingPoor, ScoreOutputValidity(true, 1, 0))
}

func TestScoreQuestionEfficiency(t *testing.T) {
	assert.Equal(t, RatingExcellent, ScoreQuestionEfficiency(0, 0))
	assert.Equal(t, RatingGood, ScoreQuestionEfficiency(0, 1))
	assert.Equal(t, RatingGood, ScoreQuestionEfficiency(2, 1))
	assert.Equal(t, RatingPoor, ScoreQuestionEfficiency(4, 1))
	assert.Equal(t, RatingNone, ScoreQuestionEfficiency(5, 1))
}

func TestScore_TotalGradePassed(t *testing.T) {
	cases := []struct {
		score  Score
		total  int
		grade  string
		passed bool
	}{
		{Score{3, 3, 3, 3, 3}, 15, GradeExcellent, true},
		{Score{3, 3, 3, 3, 1}, 13, GradeExcellent, true},
		{Score{2, 2, 2, 2, 2}, 10, GradeSuccess, true},
		{Score{2, 1, 1, 1, 1}, 6, GradePartial, true},
		{Score{1, 1, 1, 1, 1}, 5, GradeFailure, false},
		{Score{}, 0, GradeFailure, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.total, tc.score.Total())
		assert.Equal(t, tc.grade, tc.score.Grade())
		assert.Equal(t, tc.passed, tc.score.Passed())
	}
}

func TestCalculate(t *testing.T) {
	s := Calculate(Metrics{
		ProducedPackage:    true,
		TotalResources:     3,
		LintCycles:         1,
		LintPassed:         true,
		SyntaxValid:        true,
		PatternIssues:      0,
		OutputValid:        true,
		ValidationWarnings: 1,
		QuestionsAsked:     1,
	})
	assert.Equal(t, Score{
		Completeness:       RatingExcellent,
		LintQuality:        RatingGood,
		CodeQuality:        RatingExcellent,
		OutputValidity:     RatingGood,
		QuestionEfficiency: RatingGood,
	}, s)
	assert.Equal(t, 12, s.Total())
	assert.Equal(t, "3", RatingExcellent.String())
}

func TestOutcomeEvaluator(t *testing.T) {
	e := NewOutcomeEvaluator()

	inv := Invocation{
		PackageDir: "/tmp/out/my_vpc",
		Files: map[string]string{
			"__init__.py": "from .network import *",
			"network.py":  "class MyVpc: pass\nclass PublicSubnet: pass",
		},
		ExpectedResources: []string{"MyVpc", "PublicSubnet", "NatGateway"},
		LintRuns: []core.LintReport{
			{Passed: false, Issues: []string{"WAW001 wildcard", "WAW002 inline"}},
			{Passed: true},
		},
		Build:          &core.BuildReport{OK: true, Warnings: 0},
		QuestionsAsked: 0,
	}

	m := e.Metrics(inv)
	assert.True(t, m.ProducedPackage)
	assert.Equal(t, 1, m.MissingResources)
	assert.Equal(t, 3, m.TotalResources)
	assert.Equal(t, 1, m.LintCycles)
	assert.True(t, m.LintPassed)
	assert.Equal(t, 2, m.PatternIssues)
	assert.True(t, m.SyntaxValid)
	assert.True(t, m.OutputValid)

	score, err := e.Evaluate(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, Score{
		Completeness:       RatingPoor,
		LintQuality:        RatingGood,
		CodeQuality:        RatingGood,
		OutputValidity:     RatingExcellent,
		QuestionEfficiency: RatingExcellent,
	}, score)
}

func TestOutcomeEvaluator_NoBuild(t *testing.T) {
	m := NewOutcomeEvaluator().Metrics(Invocation{
		LintRuns: []core.LintReport{{Passed: true}},
	})
	assert.False(t, m.ProducedPackage)
	assert.True(t, m.SyntaxValid)
	assert.False(t, m.OutputValid)
	assert.Equal(t, 0, m.MissingResources)
}

var _ Evaluator = (*OutcomeEvaluator)(nil)
