package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`
	Base

	OrderNumber    string          `bun:"order_number,unique,notnull" json:"order_number"`
	PurchaseDate   time.Time       `bun:"purchase_date,notnull" json:"purchase_date"`
	ExpirationDate *time.Time      `bun:"expiration_date" json:"expiration_date"`
	Status         OrderStatus     `bun:"status,notnull" json:"status"`
	TotalAmount    decimal.Decimal `bun:"total_amount,type:decimal(10,2),notnull" json:"total_amount"`
	BuyerID        *int64          `bun:"buyer_id" json:"buyer_id"`
}

// OrderCreate carries the requested line; amounts are never taken from the caller.
type OrderCreate struct {
	TicketTypeID *int64 `json:"ticket_type_id" validate:"required,gt=0"`
	Quantity     *int   `json:"quantity" validate:"required,gt=0"`
	BuyerID      *int64 `json:"buyer_id" validate:"omitempty,gt=0"`
}
