package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}

func (r *AssignmentRepository) ListByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("created_at asc").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) CreateSubmission(submission *model.AssignmentSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *AssignmentRepository) FindSubmissionByID(id uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *AssignmentRepository) FindSubmissionByStudent(assignmentID, studentID uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssignmentRepository) UpdateSubmission(submission *model.AssignmentSubmission) error {
	return r.DB.Save(submission).Error
}

func (r *AssignmentRepository) ListSubmissions(assignmentID uint, gradedOnly bool, page, limit int) ([]model.AssignmentSubmission, int64, error) {
	query := r.DB.Model(&model.AssignmentSubmission{}).Where("assignment_id = ?", assignmentID)
	if gradedOnly {
		query = query.Where("grade IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.AssignmentSubmission
	offset := (page - 1) * limit
	err := query.Preload("Student").
		Order("submitted_at desc").Offset(offset).Limit(limit).Find(&submissions).Error
	return submissions, total, err
}
