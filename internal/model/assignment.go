package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID    uint       `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	// Percentage of the raw grade deducted on late submission, 0-100.
	LatePenaltyPercentage int  `gorm:"default:0" json:"latePenaltyPercentage"`
	MaxGrade              int  `gorm:"default:100" json:"maxGrade"`
	IsPublished           bool `gorm:"default:false" json:"isPublished"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint      `gorm:"index;type:bigint unsigned" json:"assignmentId"`
	StudentID    uint      `gorm:"index;type:bigint unsigned" json:"studentId"`
	Student      *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Content      string    `gorm:"type:text" json:"content"`
	AttachmentURL string   `gorm:"size:255" json:"attachmentUrl"`
	SubmittedAt  time.Time `json:"submittedAt"`
	// Final grade after any late penalty, 0-100. Nil until graded.
	Grade    *int       `json:"grade,omitempty"`
	RawGrade *int       `json:"rawGrade,omitempty"`
	Feedback string     `gorm:"type:text" json:"feedback"`
	GradedAt *time.Time `json:"gradedAt,omitempty"`
	GradedBy *uint      `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
