package program

import (
	"testing"

	"care_program_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoAxisBattery builds a small definition: two burden questions and one
// stress question, each with options scored 0..2.
func twoAxisBattery() *model.AssessmentDefinition {
	question := func(id string) model.AssessmentQuestion {
		q := model.AssessmentQuestion{
			UUIDBase: model.UUIDBase{ID: id},
			Content:  "q " + id,
			Required: true,
		}
		for score := 0; score <= 2; score++ {
			q.Options = append(q.Options, model.AssessmentOption{
				UUIDBase:   model.UUIDBase{ID: id + "-opt" + string(rune('0'+score))},
				QuestionID: id,
				Score:      score,
				Order:      score,
			})
		}
		return q
	}
	return &model.AssessmentDefinition{
		Name:    "battery",
		Version: 1,
		Sections: []model.AssessmentSection{
			{
				Axis:      model.AxisBurden,
				Questions: []model.AssessmentQuestion{question("b1"), question("b2")},
			},
			{
				Axis:      model.AxisStress,
				Questions: []model.AssessmentQuestion{question("s1")},
			},
		},
		Ranges: []model.ScoreRange{
			{Axis: model.AxisBurden, MinScore: 0, MaxScore: 1, Category: string(model.BurdenMild)},
			{Axis: model.AxisBurden, MinScore: 2, MaxScore: 4, Category: string(model.BurdenModerate)},
			{Axis: model.AxisStress, MinScore: 0, MaxScore: 0, Category: string(model.StressLow)},
			{Axis: model.AxisStress, MinScore: 1, MaxScore: 2, Category: string(model.StressHigh)},
		},
	}
}

func TestScoreSubmissionScoresEachAxis(t *testing.T) {
	def := twoAxisBattery()
	answers := []SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b1-opt2"},
		{QuestionID: "b2", OptionID: "b2-opt1"},
		{QuestionID: "s1", OptionID: "s1-opt0"},
	}

	outcomes, err := ScoreSubmission(answers, def)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	byAxis := make(map[model.AssessmentAxis]AxisOutcome)
	for _, o := range outcomes {
		byAxis[o.Axis] = o
	}
	assert.Equal(t, 3, byAxis[model.AxisBurden].Score)
	assert.Equal(t, string(model.BurdenModerate), byAxis[model.AxisBurden].Category)
	assert.Equal(t, 0, byAxis[model.AxisStress].Score)
	assert.Equal(t, string(model.StressLow), byAxis[model.AxisStress].Category)
}

func TestScoreSubmissionRejectsUnknownQuestion(t *testing.T) {
	def := twoAxisBattery()
	answers := []SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b1-opt0"},
		{QuestionID: "b2", OptionID: "b2-opt0"},
		{QuestionID: "s1", OptionID: "s1-opt0"},
		{QuestionID: "phantom", OptionID: "b1-opt0"},
	}

	_, err := ScoreSubmission(answers, def)
	assert.True(t, IsValidation(err))
}

func TestScoreAxisRejectsDuplicateAnswer(t *testing.T) {
	def := twoAxisBattery()
	answers := []SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b1-opt0"},
		{QuestionID: "b1", OptionID: "b1-opt2"},
	}

	_, err := ScoreAxis(answers, def.SectionsForAxis(model.AxisBurden))
	assert.True(t, IsValidation(err))
}

func TestScoreAxisRejectsForeignOption(t *testing.T) {
	def := twoAxisBattery()
	answers := []SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b2-opt0"},
		{QuestionID: "b2", OptionID: "b2-opt1"},
	}

	_, err := ScoreAxis(answers, def.SectionsForAxis(model.AxisBurden))
	assert.True(t, IsValidation(err))
}

func TestScoreAxisRejectsMissingRequired(t *testing.T) {
	def := twoAxisBattery()
	answers := []SubmittedAnswer{
		{QuestionID: "b1", OptionID: "b1-opt1"},
	}

	_, err := ScoreAxis(answers, def.SectionsForAxis(model.AxisBurden))
	assert.True(t, IsValidation(err))
}

func TestCategorizeBurdenBoundaries(t *testing.T) {
	ranges := []model.ScoreRange{
		{Axis: model.AxisBurden, MinScore: 0, MaxScore: 21, Category: string(model.BurdenMild)},
		{Axis: model.AxisBurden, MinScore: 22, MaxScore: 40, Category: string(model.BurdenModerate)},
		{Axis: model.AxisBurden, MinScore: 41, MaxScore: 88, Category: string(model.BurdenSevere)},
	}

	cases := []struct {
		score int
		want  string
	}{
		{0, string(model.BurdenMild)},
		{21, string(model.BurdenMild)},
		{22, string(model.BurdenModerate)},
		{40, string(model.BurdenModerate)},
		{41, string(model.BurdenSevere)},
		{88, string(model.BurdenSevere)},
	}
	for _, tc := range cases {
		got, err := Categorize(tc.score, ranges)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "score %d", tc.score)
	}
}

func TestCategorizeSurfacesBrokenRanges(t *testing.T) {
	ranges := []model.ScoreRange{
		{MinScore: 0, MaxScore: 10, Category: "a"},
		{MinScore: 8, MaxScore: 20, Category: "b"},
	}

	// overlap: two matches
	_, err := Categorize(9, ranges)
	assert.True(t, IsConfiguration(err))

	// gap: no match
	_, err = Categorize(25, ranges)
	assert.True(t, IsConfiguration(err))
}

func TestValidateRanges(t *testing.T) {
	good := []model.ScoreRange{
		{MinScore: 0, MaxScore: 21, Category: "mild"},
		{MinScore: 22, MaxScore: 40, Category: "moderate"},
		{MinScore: 41, MaxScore: 88, Category: "severe"},
	}
	assert.NoError(t, ValidateRanges(good, 0, 88))

	gap := []model.ScoreRange{
		{MinScore: 0, MaxScore: 20, Category: "mild"},
		{MinScore: 22, MaxScore: 88, Category: "severe"},
	}
	assert.True(t, IsConfiguration(ValidateRanges(gap, 0, 88)))

	overlap := []model.ScoreRange{
		{MinScore: 0, MaxScore: 22, Category: "mild"},
		{MinScore: 22, MaxScore: 88, Category: "severe"},
	}
	assert.True(t, IsConfiguration(ValidateRanges(overlap, 0, 88)))

	uncovered := []model.ScoreRange{
		{MinScore: 0, MaxScore: 40, Category: "mild"},
	}
	assert.True(t, IsConfiguration(ValidateRanges(uncovered, 0, 88)))

	assert.True(t, IsConfiguration(ValidateRanges(nil, 0, 88)))
}

func TestScoreDomain(t *testing.T) {
	def := twoAxisBattery()
	minScore, maxScore := ScoreDomain(def.SectionsForAxis(model.AxisBurden))
	assert.Equal(t, 0, minScore)
	assert.Equal(t, 4, maxScore)
}
