package model

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionMultiple    QuestionType = "multiple"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionFillBlank   QuestionType = "fill_blank"
	QuestionDescriptive QuestionType = "descriptive"
	QuestionCode        QuestionType = "code"
)

// RequiresManualGrading reports whether answers of this type can never be
// auto-compared.
func (t QuestionType) RequiresManualGrading() bool {
	return t == QuestionDescriptive || t == QuestionCode
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID     uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	TimeLimit    int    `gorm:"default:0" json:"timeLimit"` // Minutes, 0 = unlimited
	PassingScore int    `gorm:"default:60" json:"passingScore"`
	// 0 means unlimited attempts.
	AttemptsAllowed int  `gorm:"default:0" json:"attemptsAllowed"`
	AutoGrade       bool `gorm:"default:true" json:"autoGrade"`
	IsPublished     bool `gorm:"default:false" json:"isPublished"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is immutable once a submission references it: edits to a live
// quiz never re-grade stored submissions, their scores are kept as computed.
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID       uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionType QuestionType    `gorm:"size:20;not null" json:"questionType"`
	Content      string          `gorm:"type:text;not null" json:"content"` // Stem
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	// JSON array of accepted values; interpretation depends on QuestionType.
	CorrectAnswers json.RawMessage `gorm:"type:json" json:"correctAnswers,omitempty"`
	Points         int             `gorm:"default:1" json:"points"`
	Explanation    string          `gorm:"type:text" json:"explanation"`
	Order          int             `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// AcceptedAnswers decodes the stored CorrectAnswers array.
func (q *QuizQuestion) AcceptedAnswers() ([]string, error) {
	if len(q.CorrectAnswers) == 0 {
		return nil, nil
	}
	var answers []string
	if err := json.Unmarshal(q.CorrectAnswers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending" // waiting for manual grading
	SubmissionGraded  SubmissionStatus = "graded"
)

// SubmittedAnswer is the per-question answer payload. Single-valued types use
// Value; MULTIPLE uses Values.
type SubmittedAnswer struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	QuizID    uint  `gorm:"index;type:bigint unsigned" json:"quizId"`
	StudentID uint  `gorm:"index;type:bigint unsigned" json:"studentId"`
	Student   *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	// JSON map from question id to SubmittedAnswer.
	Answers      json.RawMessage  `gorm:"type:json" json:"answers"`
	Score        *int             `json:"score,omitempty"` // 0-100, nil while manual grading is pending
	EarnedPoints int              `gorm:"default:0" json:"earnedPoints"`
	TotalPoints  int              `gorm:"default:0" json:"totalPoints"`
	Passed       bool             `gorm:"default:false" json:"passed"`
	Status       SubmissionStatus `gorm:"size:20;default:'pending'" json:"status"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	GradedAt     *time.Time       `json:"gradedAt,omitempty"`
	GradedBy     *uint            `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// DecodeAnswers unpacks the stored answers map.
func (s *QuizSubmission) DecodeAnswers() (map[uint]SubmittedAnswer, error) {
	answers := make(map[uint]SubmittedAnswer)
	if len(s.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
