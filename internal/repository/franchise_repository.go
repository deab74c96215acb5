package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type FranchiseRepository struct {
	DB *gorm.DB
}

func NewFranchiseRepository(db *gorm.DB) *FranchiseRepository {
	return &FranchiseRepository{DB: db}
}

func (r *FranchiseRepository) Create(franchise *model.Franchise) error {
	return r.DB.Create(franchise).Error
}

func (r *FranchiseRepository) FindByID(id uint) (*model.Franchise, error) {
	var f model.Franchise
	err := r.DB.First(&f, id).Error
	return &f, err
}

func (r *FranchiseRepository) FindBySubdomain(subdomain string) (*model.Franchise, error) {
	var f model.Franchise
	err := r.DB.Where("subdomain = ?", subdomain).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FranchiseRepository) Update(franchise *model.Franchise) error {
	return r.DB.Save(franchise).Error
}

func (r *FranchiseRepository) List(page, limit int) ([]model.Franchise, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Franchise{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var franchises []model.Franchise
	offset := (page - 1) * limit
	err := r.DB.Order("created_at desc").Offset(offset).Limit(limit).Find(&franchises).Error
	return franchises, total, err
}

// Stats returned for the admin dashboard, computed per tenant.
type FranchiseStats struct {
	Students     int64 `json:"students"`
	Courses      int64 `json:"courses"`
	Enrollments  int64 `json:"enrollments"`
	Certificates int64 `json:"certificates"`
	OpenTickets  int64 `json:"openTickets"`
}

func (r *FranchiseRepository) Stats(franchiseID *uint) (*FranchiseStats, error) {
	stats := &FranchiseStats{}

	scoped := func(q *gorm.DB) *gorm.DB {
		if franchiseID != nil {
			return q.Where("franchise_id = ?", *franchiseID)
		}
		return q
	}

	if err := scoped(r.DB.Model(&model.User{}).Where("role = ?", model.Student)).Count(&stats.Students).Error; err != nil {
		return nil, err
	}
	if err := scoped(r.DB.Model(&model.Course{})).Count(&stats.Courses).Error; err != nil {
		return nil, err
	}
	if err := scoped(r.DB.Model(&model.Enrollment{})).Count(&stats.Enrollments).Error; err != nil {
		return nil, err
	}
	if err := scoped(r.DB.Model(&model.Certificate{})).Count(&stats.Certificates).Error; err != nil {
		return nil, err
	}
	if err := scoped(r.DB.Model(&model.Ticket{}).Where("status <> ?", model.TicketClosed)).Count(&stats.OpenTickets).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
