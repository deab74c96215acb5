package service

import (
	"encoding/json"
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, qType model.QuestionType, points int, accepted ...string) model.QuizQuestion {
	raw, _ := json.Marshal(accepted)
	q := model.QuizQuestion{
		QuestionType:   qType,
		CorrectAnswers: raw,
		Points:         points,
	}
	q.ID = id
	return q
}

func TestCompareAnswerMCQ(t *testing.T) {
	q := question(1, model.QuestionMCQ, 1, "b")

	assert.Equal(t, AnswerCorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "b"}))
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "a"}))
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{}))
	// MCQ comparison is exact, no normalization.
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "B"}))
}

func TestCompareAnswerTrueFalse(t *testing.T) {
	q := question(1, model.QuestionTrueFalse, 1, "true")

	assert.Equal(t, AnswerCorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "true"}))
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "false"}))
}

func TestCompareAnswerMultiple(t *testing.T) {
	q := question(1, model.QuestionMultiple, 2, "a", "c", "d")

	tests := []struct {
		name   string
		values []string
		want   ComparisonResult
	}{
		{"exact match", []string{"a", "c", "d"}, AnswerCorrect},
		{"order does not matter", []string{"d", "a", "c"}, AnswerCorrect},
		{"missing one", []string{"a", "c"}, AnswerIncorrect},
		{"extra one", []string{"a", "c", "d", "b"}, AnswerIncorrect},
		{"wrong substitution", []string{"a", "c", "b"}, AnswerIncorrect},
		{"empty", nil, AnswerIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareAnswer(&q, model.SubmittedAnswer{Values: tt.values}))
		})
	}
}

func TestCompareAnswerFillBlank(t *testing.T) {
	q := question(1, model.QuestionFillBlank, 1, "Paris", "paris")

	assert.Equal(t, AnswerCorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "Paris"}))
	assert.Equal(t, AnswerCorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "  paris "}))
	assert.Equal(t, AnswerCorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "PARIS"}))
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "London"}))
}

func TestCompareAnswerManualTypes(t *testing.T) {
	descriptive := question(1, model.QuestionDescriptive, 5)
	code := question(2, model.QuestionCode, 5)

	assert.Equal(t, AnswerManual, CompareAnswer(&descriptive, model.SubmittedAnswer{Value: "an essay"}))
	assert.Equal(t, AnswerManual, CompareAnswer(&code, model.SubmittedAnswer{Value: "func main() {}"}))
	// Even an empty answer routes to manual grading, never auto-zero.
	assert.Equal(t, AnswerManual, CompareAnswer(&descriptive, model.SubmittedAnswer{}))
}

func TestCompareAnswerNoAcceptedAnswers(t *testing.T) {
	q := question(1, model.QuestionMCQ, 1)
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&q, model.SubmittedAnswer{Value: "a"}))

	malformed := model.QuizQuestion{QuestionType: model.QuestionMCQ, CorrectAnswers: json.RawMessage(`{not json`)}
	assert.Equal(t, AnswerIncorrect, CompareAnswer(&malformed, model.SubmittedAnswer{Value: "a"}))
}

func TestScoreQuiz(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionMCQ, 1, "b"),
		question(2, model.QuestionTrueFalse, 1, "true"),
		question(3, model.QuestionMultiple, 1, "a", "c"),
		question(4, model.QuestionFillBlank, 1, "Paris"),
	}
	answers := map[uint]model.SubmittedAnswer{
		1: {Value: "b"},
		2: {Value: "false"},
		3: {Values: []string{"c", "a"}},
		4: {Value: " paris "},
	}

	result := ScoreQuiz(questions, answers)
	assert.Equal(t, 3, result.EarnedPoints)
	assert.Equal(t, 4, result.TotalPoints)
	assert.Equal(t, 75, result.Score)
	assert.False(t, result.ManualPending)
}

func TestScoreQuizDeterministic(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionMCQ, 3, "a"),
		question(2, model.QuestionFillBlank, 2, "x"),
	}
	answers := map[uint]model.SubmittedAnswer{1: {Value: "a"}, 2: {Value: "y"}}

	first := ScoreQuiz(questions, answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreQuiz(questions, answers))
	}
}

func TestScoreQuizAbsentAnswersCountIncorrect(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionMCQ, 1, "a"),
		question(2, model.QuestionMCQ, 1, "b"),
	}
	result := ScoreQuiz(questions, map[uint]model.SubmittedAnswer{1: {Value: "a"}})

	assert.Equal(t, 1, result.EarnedPoints)
	assert.Equal(t, 50, result.Score)
}

func TestScoreQuizManualPending(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionMCQ, 1, "a"),
		question(2, model.QuestionDescriptive, 3),
	}
	result := ScoreQuiz(questions, map[uint]model.SubmittedAnswer{
		1: {Value: "a"},
		2: {Value: "long answer"},
	})

	assert.True(t, result.ManualPending)
	assert.Equal(t, 1, result.EarnedPoints)
	// The descriptive question still counts in the denominator.
	assert.Equal(t, 4, result.TotalPoints)
}

func TestScoreQuizZeroTotal(t *testing.T) {
	result := ScoreQuiz(nil, nil)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.TotalPoints)

	zeroPoint := []model.QuizQuestion{question(1, model.QuestionMCQ, 0, "a")}
	result = ScoreQuiz(zeroPoint, map[uint]model.SubmittedAnswer{1: {Value: "a"}})
	assert.Equal(t, 0, result.Score)
}

func TestScoreQuizRounding(t *testing.T) {
	questions := []model.QuizQuestion{
		question(1, model.QuestionMCQ, 1, "a"),
		question(2, model.QuestionMCQ, 1, "b"),
		question(3, model.QuestionMCQ, 1, "c"),
	}
	result := ScoreQuiz(questions, map[uint]model.SubmittedAnswer{
		1: {Value: "a"},
		2: {Value: "b"},
	})
	// 2/3 rounds to 67, not truncated to 66.
	assert.Equal(t, 67, result.Score)
}

func TestApplyLatePenalty(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		raw         int
		deadline    *time.Time
		submittedAt time.Time
		penaltyPct  int
		want        int
	}{
		{"on time", 80, &deadline, deadline.Add(-time.Hour), 25, 80},
		{"exactly at deadline", 80, &deadline, deadline, 25, 80},
		{"late", 80, &deadline, deadline.Add(time.Hour), 25, 60},
		{"late no deadline", 80, nil, deadline.Add(time.Hour), 25, 80},
		{"late zero penalty", 80, &deadline, deadline.Add(time.Hour), 0, 80},
		{"full penalty", 80, &deadline, deadline.Add(time.Hour), 100, 0},
		{"integer floor", 10, &deadline, deadline.Add(time.Hour), 95, 1},
		{"never negative", 0, &deadline, deadline.Add(time.Hour), 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyLatePenalty(tt.raw, tt.deadline, tt.submittedAt, tt.penaltyPct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{"none done", 0, 4, 0},
		{"half done", 2, 4, 50},
		{"all done", 4, 4, 100},
		{"rounds down", 2, 3, 66},
		{"no mandatory items", 0, 0, 0},
		{"over-count clamps", 5, 4, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.completed, tt.total))
		})
	}
}

func TestDecodeAnswersRoundTrip(t *testing.T) {
	answers := map[uint]model.SubmittedAnswer{
		7:  {Value: "b"},
		12: {Values: []string{"a", "c"}},
	}
	raw, err := json.Marshal(answers)
	require.NoError(t, err)

	submission := model.QuizSubmission{Answers: raw}
	decoded, err := submission.DecodeAnswers()
	require.NoError(t, err)
	assert.Equal(t, answers, decoded)
}
