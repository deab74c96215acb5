package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// Enrollment links a student to a course. One row per (student, course) pair,
// enforced by the composite unique index.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID          uint             `gorm:"uniqueIndex:idx_enrollment_student_course;type:bigint unsigned" json:"studentId"`
	Student            *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID           uint             `gorm:"uniqueIndex:idx_enrollment_student_course;type:bigint unsigned" json:"courseId"`
	Course             *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	FranchiseID        *uint            `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	Status             EnrollmentStatus `gorm:"size:20;default:'enrolled'" json:"status"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ItemCompletion marks a single section item done for an enrollment.
// swagger:model ItemCompletion
type ItemCompletion struct {
	BaseModel
	EnrollmentID uint      `gorm:"uniqueIndex:idx_completion_enrollment_item;type:bigint unsigned" json:"enrollmentId"`
	ItemID       uint      `gorm:"uniqueIndex:idx_completion_enrollment_item;type:bigint unsigned" json:"itemId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (ItemCompletion) TableName() string {
	return "item_completions"
}
