package program

import (
	"fmt"
	"sort"

	"care_program_backend/internal/model"
)

// SubmittedAnswer is one selected option. Requests are decoded strictly, so
// payloads carrying fields of some other entity are rejected before scoring
// instead of being stored.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
}

// AxisOutcome is the result of scoring one axis of a submission.
type AxisOutcome struct {
	Axis     model.AssessmentAxis
	Score    int
	Category string
}

// ScoreAxis sums the scores of the options selected for the axis' questions.
// Every answer must reference a real question and one of its real options;
// unanswered required questions reject the whole submission.
func ScoreAxis(answers []SubmittedAnswer, sections []model.AssessmentSection) (int, error) {
	type questionRef struct {
		question *model.AssessmentQuestion
		options  map[string]*model.AssessmentOption
	}
	questions := make(map[string]questionRef)
	for si := range sections {
		for qi := range sections[si].Questions {
			q := &sections[si].Questions[qi]
			opts := make(map[string]*model.AssessmentOption, len(q.Options))
			for oi := range q.Options {
				opts[q.Options[oi].ID] = &q.Options[oi]
			}
			questions[q.ID] = questionRef{question: q, options: opts}
		}
	}

	total := 0
	answered := make(map[string]bool)
	for _, ans := range answers {
		ref, ok := questions[ans.QuestionID]
		if !ok {
			// Answers for other axes of the same battery pass through here;
			// they are validated by their own axis pass.
			continue
		}
		if answered[ans.QuestionID] {
			return 0, Validationf("question %s answered more than once", ans.QuestionID)
		}
		opt, ok := ref.options[ans.OptionID]
		if !ok {
			return 0, Validationf("option %s does not belong to question %s", ans.OptionID, ans.QuestionID)
		}
		answered[ans.QuestionID] = true
		total += opt.Score
	}

	for id, ref := range questions {
		if ref.question.Required && !answered[id] {
			return 0, Validationf("required question %s not answered", id)
		}
	}
	return total, nil
}

// Categorize resolves a total score against the axis' ranges. Exactly one
// range must match; anything else is broken configuration and is surfaced,
// never defaulted.
func Categorize(totalScore int, ranges []model.ScoreRange) (string, error) {
	matched := ""
	count := 0
	for _, r := range ranges {
		if totalScore >= r.MinScore && totalScore <= r.MaxScore {
			matched = r.Category
			count++
		}
	}
	switch count {
	case 1:
		return matched, nil
	case 0:
		return "", Configurationf("score %d matches no configured range", totalScore)
	default:
		return "", Configurationf("score %d matches %d overlapping ranges", totalScore, count)
	}
}

// ScoreSubmission validates and scores every axis of the battery from one
// answer set, plus rejects answers referencing questions outside the
// definition entirely.
func ScoreSubmission(answers []SubmittedAnswer, def *model.AssessmentDefinition) ([]AxisOutcome, error) {
	known := make(map[string]bool)
	for _, s := range def.Sections {
		for _, q := range s.Questions {
			known[q.ID] = true
		}
	}
	for _, ans := range answers {
		if !known[ans.QuestionID] {
			return nil, Validationf("question %s is not part of the active questionnaire", ans.QuestionID)
		}
	}

	var outcomes []AxisOutcome
	for _, axis := range def.Axes() {
		score, err := ScoreAxis(answers, def.SectionsForAxis(axis))
		if err != nil {
			return nil, err
		}
		category, err := Categorize(score, def.RangesForAxis(axis))
		if err != nil {
			return nil, fmt.Errorf("axis %s: %w", axis, err)
		}
		outcomes = append(outcomes, AxisOutcome{Axis: axis, Score: score, Category: category})
	}
	return outcomes, nil
}

// ValidateRanges checks that one axis' ranges are disjoint and jointly cover
// [domainMin, domainMax]. Run before a definition version is activated.
func ValidateRanges(ranges []model.ScoreRange, domainMin, domainMax int) error {
	if len(ranges) == 0 {
		return Configurationf("no score ranges configured")
	}
	sorted := make([]model.ScoreRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	for _, r := range sorted {
		if r.MinScore > r.MaxScore {
			return Configurationf("range [%d,%d] is inverted", r.MinScore, r.MaxScore)
		}
	}
	if sorted[0].MinScore > domainMin {
		return Configurationf("scores below %d are uncovered", sorted[0].MinScore)
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.MinScore <= prev.MaxScore {
			return Configurationf("ranges [%d,%d] and [%d,%d] overlap", prev.MinScore, prev.MaxScore, cur.MinScore, cur.MaxScore)
		}
		if cur.MinScore != prev.MaxScore+1 {
			return Configurationf("gap between %d and %d", prev.MaxScore, cur.MinScore)
		}
	}
	if sorted[len(sorted)-1].MaxScore < domainMax {
		return Configurationf("scores above %d are uncovered", sorted[len(sorted)-1].MaxScore)
	}
	return nil
}

// ScoreDomain computes the attainable [min,max] score of one axis from its
// option scores, for range validation.
func ScoreDomain(sections []model.AssessmentSection) (int, int) {
	domainMin, domainMax := 0, 0
	for _, s := range sections {
		for _, q := range s.Questions {
			if len(q.Options) == 0 {
				continue
			}
			qMin, qMax := q.Options[0].Score, q.Options[0].Score
			for _, o := range q.Options[1:] {
				if o.Score < qMin {
					qMin = o.Score
				}
				if o.Score > qMax {
					qMax = o.Score
				}
			}
			domainMin += qMin
			domainMax += qMax
		}
	}
	return domainMin, domainMax
}
