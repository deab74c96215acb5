package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiresManualGrading(t *testing.T) {
	assert.True(t, QuestionDescriptive.RequiresManualGrading())
	assert.True(t, QuestionCode.RequiresManualGrading())

	assert.False(t, QuestionMCQ.RequiresManualGrading())
	assert.False(t, QuestionMultiple.RequiresManualGrading())
	assert.False(t, QuestionTrueFalse.RequiresManualGrading())
	assert.False(t, QuestionFillBlank.RequiresManualGrading())
}

func TestAcceptedAnswers(t *testing.T) {
	q := QuizQuestion{CorrectAnswers: json.RawMessage(`["a","c"]`)}
	answers, err := q.AcceptedAnswers()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, answers)

	empty := QuizQuestion{}
	answers, err = empty.AcceptedAnswers()
	require.NoError(t, err)
	assert.Nil(t, answers)

	malformed := QuizQuestion{CorrectAnswers: json.RawMessage(`{"not":"an array"}`)}
	_, err = malformed.AcceptedAnswers()
	assert.Error(t, err)
}
