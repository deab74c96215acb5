package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TicketRepository struct {
	DB *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) Create(ticket *model.Ticket) error {
	return r.DB.Create(ticket).Error
}

func (r *TicketRepository) FindByID(id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.DB.Preload("Student").First(&t, "id = ?", id).Error
	return &t, err
}

func (r *TicketRepository) Update(ticket *model.Ticket) error {
	return r.DB.Save(ticket).Error
}

func (r *TicketRepository) ListByStudent(studentID uint) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&tickets).Error
	return tickets, err
}

func (r *TicketRepository) List(franchiseID *uint, status string, page, limit int) ([]model.Ticket, int64, error) {
	query := r.DB.Model(&model.Ticket{})
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

	var tickets []model.Ticket
	offset := (page - 1) * limit
	err := query.Preload("Student").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&tickets).Error
	return tickets, total, err
}

func (r *TicketRepository) CreateMessage(message *model.TicketMessage) error {
	return r.DB.Create(message).Error
}

func (r *TicketRepository) ListMessages(ticketID string) ([]model.TicketMessage, error) {
	var messages []model.TicketMessage
	err := r.DB.Preload("Author").Where("ticket_id = ?", ticketID).
		Order("created_at asc").Find(&messages).Error
	return messages, err
}
