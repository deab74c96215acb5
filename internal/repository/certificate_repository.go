package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Create inserts the certificate row. Callers must treat
// gorm.ErrDuplicatedKey as "already issued".
func (r *CertificateRepository) Create(certificate *model.Certificate) error {
	return r.DB.Create(certificate).Error
}

func (r *CertificateRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) FindByNumber(number string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Preload("Student").Preload("Course").
		Where("certificate_number = ?", number).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) ListByStudent(studentID uint) ([]model.Certificate, error) {
	var certificates []model.Certificate
	err := r.DB.Preload("Course").Where("student_id = ?", studentID).
		Order("issued_at desc").Find(&certificates).Error
	return certificates, err
}

func (r *CertificateRepository) List(franchiseID *uint, page, limit int) ([]model.Certificate, int64, error) {
	query := r.DB.Model(&model.Certificate{})
	if franchiseID != nil {
		query = query.Where("franchise_id = ?", *franchiseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certificates []model.Certificate
	offset := (page - 1) * limit
	err := query.Preload("Student").Preload("Course").
		Order("issued_at desc").Offset(offset).Limit(limit).Find(&certificates).Error
	return certificates, total, err
}
