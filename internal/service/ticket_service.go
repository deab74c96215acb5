package service

import (
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type TicketService struct {
	Repo *repository.TicketRepository
}

func NewTicketService(repo *repository.TicketRepository) *TicketService {
	return &TicketService{Repo: repo}
}

type OpenTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (s *TicketService) Open(studentID uint, franchiseID *uint, req OpenTicketRequest) (*model.Ticket, error) {
	ticket := &model.Ticket{
		StudentID:   studentID,
		FranchiseID: franchiseID,
		Subject:     req.Subject,
		Status:      model.TicketOpen,
	}
	if err := s.Repo.Create(ticket); err != nil {
		return nil, err
	}
	msg := &model.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: studentID,
		Body:     req.Body,
	}
	if err := s.Repo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) Get(id string) (*model.Ticket, []model.TicketMessage, error) {
	ticket, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, nil, util.ErrTicketNotFound
	}
	messages, err := s.Repo.ListMessages(id)
	if err != nil {
		return nil, nil, err
	}
	return ticket, messages, nil
}

// Reply appends a message. A staff reply moves the ticket to answered, a
// student reply reopens it. Closed tickets reject replies.
func (s *TicketService) Reply(id string, authorID uint, isStaff bool, body string) (*model.TicketMessage, error) {
	ticket, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrTicketNotFound
	}
	if ticket.Status == model.TicketClosed {
		return nil, util.ErrTicketClosed
	}

	msg := &model.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: authorID,
		Body:     body,
		IsStaff:  isStaff,
	}
	if err := s.Repo.CreateMessage(msg); err != nil {
		return nil, err
	}

	next := model.TicketOpen
	if isStaff {
		next = model.TicketAnswered
	}
	if ticket.Status != next {
		ticket.Status = next
		if err := s.Repo.Update(ticket); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (s *TicketService) Close(id string) (*model.Ticket, error) {
	ticket, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrTicketNotFound
	}
	if ticket.Status == model.TicketClosed {
		return ticket, nil
	}
	now := time.Now()
	ticket.Status = model.TicketClosed
	ticket.ClosedAt = &now
	if err := s.Repo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) ListByStudent(studentID uint) ([]model.Ticket, error) {
	return s.Repo.ListByStudent(studentID)
}

func (s *TicketService) List(franchiseID *uint, status string, page, limit int) ([]model.Ticket, int64, error) {
	return s.Repo.List(franchiseID, status, page, limit)
}
