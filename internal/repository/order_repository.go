package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.DB.Create(order).Error
}

func (r *OrderRepository) FindByID(id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.First(&o, "id = ?", id).Error
	return &o, err
}

func (r *OrderRepository) Update(order *model.Order) error {
	return r.DB.Save(order).Error
}

func (r *OrderRepository) ListByStudent(studentID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) List(franchiseID *uint, status string, page, limit int) ([]model.Order, int64, error) {
	query := r.DB.Model(&model.Order{})
	if franchiseID != nil {
		query = query.Where("franchise_id = ?", *franchiseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}
