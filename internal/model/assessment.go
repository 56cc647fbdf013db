package model

// AssessmentDefinition is one version of the questionnaire battery. Editing a
// published version creates a new one; attempts keep the resolved scores they
// were graded with, never a live reference.
// swagger:model AssessmentDefinition
type AssessmentDefinition struct {
	BaseModel
	Name     string `gorm:"size:255;not null" json:"name"`
	Version  int    `gorm:"default:1" json:"version"`
	IsActive bool   `gorm:"default:false" json:"isActive"`

	Sections []AssessmentSection `gorm:"foreignKey:DefinitionID" json:"sections,omitempty"`
	Ranges   []ScoreRange        `gorm:"foreignKey:DefinitionID" json:"ranges,omitempty"`
}

func (AssessmentDefinition) TableName() string {
	return "assessment_definitions"
}

// SectionsForAxis returns the sections belonging to one scored axis.
func (d *AssessmentDefinition) SectionsForAxis(axis AssessmentAxis) []AssessmentSection {
	var out []AssessmentSection
	for _, s := range d.Sections {
		if s.Axis == axis {
			out = append(out, s)
		}
	}
	return out
}

// RangesForAxis returns the score ranges of one axis.
func (d *AssessmentDefinition) RangesForAxis(axis AssessmentAxis) []ScoreRange {
	var out []ScoreRange
	for _, r := range d.Ranges {
		if r.Axis == axis {
			out = append(out, r)
		}
	}
	return out
}

// Axes lists the distinct axes the definition scores, in section order.
func (d *AssessmentDefinition) Axes() []AssessmentAxis {
	seen := make(map[AssessmentAxis]bool)
	var out []AssessmentAxis
	for _, s := range d.Sections {
		if !seen[s.Axis] {
			seen[s.Axis] = true
			out = append(out, s.Axis)
		}
	}
	return out
}

type AssessmentSection struct {
	BaseModel
	DefinitionID uint           `gorm:"index;type:bigint unsigned" json:"definitionId"`
	Axis         AssessmentAxis `gorm:"size:30;not null" json:"axis"`
	Title        string         `gorm:"size:255" json:"title"`
	Order        int            `gorm:"default:0" json:"order"`

	Questions []AssessmentQuestion `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
}

func (AssessmentSection) TableName() string {
	return "assessment_sections"
}

type AssessmentQuestion struct {
	UUIDBase
	SectionID uint   `gorm:"index;type:bigint unsigned" json:"sectionId"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Order     int    `gorm:"default:0" json:"order"`
	Required  bool   `gorm:"default:true" json:"required"`

	Options []AssessmentOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

type AssessmentOption struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36)" json:"questionId"`
	Label      string `gorm:"size:255;not null" json:"label"`
	Score      int    `gorm:"default:0" json:"score"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (AssessmentOption) TableName() string {
	return "assessment_options"
}

// ScoreRange maps a contiguous score interval to a category label. The ranges
// of one axis must be disjoint and cover the whole attainable score domain.
// swagger:model ScoreRange
type ScoreRange struct {
	BaseModel
	DefinitionID uint           `gorm:"index;type:bigint unsigned" json:"definitionId"`
	Axis         AssessmentAxis `gorm:"size:30;not null" json:"axis"`
	MinScore     int            `json:"minScore"`
	MaxScore     int            `json:"maxScore"`
	Category     string         `gorm:"size:30;not null" json:"category"`
}

func (ScoreRange) TableName() string {
	return "score_ranges"
}
