package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Preload("Course").First(&e, id).Error
	return &e, err
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Where("student_id = ?", studentID).
		Order("created_at desc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	query := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []model.Enrollment
	offset := (page - 1) * limit
	err := r.DB.Preload("Student").Where("course_id = ?", courseID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) CreateItemCompletion(completion *model.ItemCompletion) error {
	return r.DB.Create(completion).Error
}

func (r *EnrollmentRepository) CountCompletedMandatoryItems(enrollmentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Table("item_completions ic").
		Joins("JOIN section_items si ON si.id = ic.item_id").
		Where("ic.enrollment_id = ? AND si.course_id = ? AND si.is_mandatory = ? AND ic.deleted_at IS NULL AND si.deleted_at IS NULL",
			enrollmentID, courseID, true).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) ListItemCompletions(enrollmentID uint) ([]model.ItemCompletion, error) {
	var completions []model.ItemCompletion
	err := r.DB.Where("enrollment_id = ?", enrollmentID).Find(&completions).Error
	return completions, err
}

// ListCompletedWithoutCertificate feeds the background certificate sweep:
// completed enrollments on certificate-enabled courses with no issued row yet.
func (r *EnrollmentRepository) ListCompletedWithoutCertificate(limit int) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Joins("JOIN courses c ON c.id = enrollments.course_id AND c.certificates_enabled = ? AND c.deleted_at IS NULL", true).
		Joins("LEFT JOIN certificates ct ON ct.student_id = enrollments.student_id AND ct.course_id = enrollments.course_id AND ct.deleted_at IS NULL").
		Where("enrollments.status = ? AND enrollments.completed_at IS NOT NULL AND ct.id IS NULL", model.EnrollmentCompleted).
		Limit(limit).
		Find(&enrollments).Error
	return enrollments, err
}

// BulkComplete marks a set of enrollments complete in one transaction,
// all-or-nothing.
func (r *EnrollmentRepository) BulkComplete(enrollmentIDs []uint, completedAt time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range enrollmentIDs {
			res := tx.Model(&model.Enrollment{}).
				Where("id = ? AND status <> ?", id, model.EnrollmentCompleted).
				Updates(map[string]interface{}{
					"status":              model.EnrollmentCompleted,
					"progress_percentage": 100,
					"completed_at":        completedAt,
				})
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}
