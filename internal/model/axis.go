package model

// AssessmentAxis names one independently scored dimension of the
// questionnaire battery. Each axis has its own sections, score ranges and
// category type so results from different axes cannot be mixed up.
type AssessmentAxis string

const (
	AxisBurden        AssessmentAxis = "burden"
	AxisStress        AssessmentAxis = "stress"
	AxisQualityOfLife AssessmentAxis = "quality_of_life"
)

type BurdenLevel string

const (
	BurdenMild     BurdenLevel = "mild"
	BurdenModerate BurdenLevel = "moderate"
	BurdenSevere   BurdenLevel = "severe"
)

type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
)

type QualityOfLifeLevel string

const (
	QolLow    QualityOfLifeLevel = "low"
	QolMedium QualityOfLifeLevel = "medium"
	QolHigh   QualityOfLifeLevel = "high"
)

// ContentAxisForRole returns the axis whose category selects day content for
// the given participant role. Quality of life is scored for both roles but
// never drives content selection.
func ContentAxisForRole(role UserRole) AssessmentAxis {
	if role == Caregiver {
		return AxisBurden
	}
	return AxisStress
}
