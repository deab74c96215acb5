package model

import "time"

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

// swagger:model Ticket
type Ticket struct {
	UUIDBase
	StudentID   uint         `gorm:"index;type:bigint unsigned" json:"studentId"`
	Student     *User        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	FranchiseID *uint        `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	Subject     string       `gorm:"size:255;not null" json:"subject"`
	Status      TicketStatus `gorm:"size:20;default:'open'" json:"status"`
	ClosedAt    *time.Time   `json:"closedAt,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// swagger:model TicketMessage
type TicketMessage struct {
	UUIDBase
	TicketID string `gorm:"index;type:varchar(36)" json:"ticketId"`
	AuthorID uint   `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Body     string `gorm:"type:text;not null" json:"body"`
	IsStaff  bool   `gorm:"default:false" json:"isStaff"`
}

func (TicketMessage) TableName() string {
	return "ticket_messages"
}
