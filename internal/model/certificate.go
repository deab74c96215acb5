package model

import "time"

// Certificate records a completed course. At most one per (student, course),
// enforced by the composite unique index; concurrent issuance relies on the
// constraint rather than a lock.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	StudentID         uint      `gorm:"uniqueIndex:idx_certificate_student_course;type:bigint unsigned" json:"studentId"`
	Student           *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID          uint      `gorm:"uniqueIndex:idx_certificate_student_course;type:bigint unsigned" json:"courseId"`
	Course            *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	FranchiseID       *uint     `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	CertificateNumber string    `gorm:"size:50;unique;not null" json:"certificateNumber"`
	VerificationURL   string    `gorm:"size:255" json:"verificationUrl"`
	FileURL           string    `gorm:"size:255" json:"fileUrl"`
	IssuedAt          time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
