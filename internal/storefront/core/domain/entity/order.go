package entity

import "time"

type OrderStatus string

const (
	StatusPaid OrderStatus = "PAID"
)

type Order struct {
	ID             string
	UserID         int64
	ProductID      string
	Quantity       int
	Status         OrderStatus
	IdempotencyKey string
	CreatedAt      time.Time
}
