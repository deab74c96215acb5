package service

import (
	"math"
	"strings"
	"time"

	"lms_backend/internal/model"
)

// ComparisonResult is the outcome of checking one submitted answer.
type ComparisonResult int

const (
	AnswerIncorrect ComparisonResult = iota
	AnswerCorrect
	// AnswerManual means the question type can never be auto-compared and a
	// human must grade it. Not an error.
	AnswerManual
)

// CompareAnswer checks a submitted answer against a question's accepted
// answer set, per question type.
func CompareAnswer(question *model.QuizQuestion, answer model.SubmittedAnswer) ComparisonResult {
	if question.QuestionType.RequiresManualGrading() {
		return AnswerManual
	}

	accepted, err := question.AcceptedAnswers()
	if err != nil || len(accepted) == 0 {
		return AnswerIncorrect
	}

	switch question.QuestionType {
	case model.QuestionMCQ, model.QuestionTrueFalse:
		if answer.Value == accepted[0] {
			return AnswerCorrect
		}

	case model.QuestionMultiple:
		if len(answer.Values) != len(accepted) {
			return AnswerIncorrect
		}
		acceptedSet := make(map[string]bool, len(accepted))
		for _, a := range accepted {
			acceptedSet[a] = true
		}
		submittedSet := make(map[string]bool, len(answer.Values))
		for _, v := range answer.Values {
			if !acceptedSet[v] {
				return AnswerIncorrect
			}
			submittedSet[v] = true
		}
		// Set containment both ways: every accepted value must also have
		// been submitted.
		for _, a := range accepted {
			if !submittedSet[a] {
				return AnswerIncorrect
			}
		}
		return AnswerCorrect

	case model.QuestionFillBlank:
		normalized := normalizeAnswer(answer.Value)
		for _, a := range accepted {
			if normalized == normalizeAnswer(a) {
				return AnswerCorrect
			}
		}
	}

	return AnswerIncorrect
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QuizScore is the aggregate of scoring one submission.
type QuizScore struct {
	EarnedPoints int
	TotalPoints  int
	Score        int // rounded percentage, 0-100
	// ManualPending is set when at least one question needs human grading;
	// the stored score stays unset until that happens.
	ManualPending bool
}

// ScoreQuiz grades a full answer map against the quiz's question list.
// Absent answers count as incorrect; manual-grading questions contribute to
// the total but never to earned points at auto-grade time. A zero-point quiz
// scores 0.
func ScoreQuiz(questions []model.QuizQuestion, answers map[uint]model.SubmittedAnswer) QuizScore {
	result := QuizScore{}

	for i := range questions {
		q := &questions[i]
		result.TotalPoints += q.Points

		switch CompareAnswer(q, answers[q.ID]) {
		case AnswerCorrect:
			result.EarnedPoints += q.Points
		case AnswerManual:
			result.ManualPending = true
		}
	}

	if result.TotalPoints > 0 {
		result.Score = int(math.Round(float64(result.EarnedPoints) / float64(result.TotalPoints) * 100))
	}

	return result
}

// ApplyLatePenalty adjusts a raw assignment grade for late submission. It
// runs exactly once, at grading time. The result never exceeds the raw grade
// and never drops below zero.
func ApplyLatePenalty(rawGrade int, deadline *time.Time, submittedAt time.Time, penaltyPercentage int) int {
	if deadline == nil || !submittedAt.After(*deadline) || penaltyPercentage <= 0 {
		return rawGrade
	}

	penalty := rawGrade * penaltyPercentage / 100
	final := rawGrade - penalty
	if final < 0 {
		final = 0
	}
	return final
}

// ComputeProgress converts mandatory-item completion counts into the 0-100
// enrollment percentage, rounded down. A course with no mandatory items
// stays at 0 and can never auto-complete.
func ComputeProgress(completedMandatory, totalMandatory int64) int {
	if totalMandatory <= 0 {
		return 0
	}
	progress := int(completedMandatory * 100 / totalMandatory)
	if progress > 100 {
		progress = 100
	}
	return progress
}
