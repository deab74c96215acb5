package model

import "time"

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderPaid     OrderStatus = "paid"
	OrderFailed   OrderStatus = "failed"
	OrderRefunded OrderStatus = "refunded"
)

// Order records a course purchase. Gateway integration lives outside this
// service; orders are confirmed through the admin callback endpoint.
// swagger:model Order
type Order struct {
	UUIDBase
	StudentID   uint        `gorm:"index;type:bigint unsigned" json:"studentId"`
	CourseID    uint        `gorm:"index;type:bigint unsigned" json:"courseId"`
	FranchiseID *uint       `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	Amount      float64     `gorm:"default:0" json:"amount"`
	Currency    string      `gorm:"size:10;default:'USD'" json:"currency"`
	Status      OrderStatus `gorm:"size:20;default:'pending'" json:"status"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
	Reference   string      `gorm:"size:100" json:"reference"`
}

func (Order) TableName() string {
	return "orders"
}
