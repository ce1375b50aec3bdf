package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment rows are recorded as reported; no gateway is called from here.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`
	Base

	Amount         decimal.Decimal `bun:"amount,type:decimal(10,2),notnull" json:"amount"`
	PaymentMethod  *string         `bun:"payment_method" json:"payment_method"`
	TransactionID  *string         `bun:"transaction_id" json:"transaction_id"`
	PaymentDate    *time.Time      `bun:"payment_date" json:"payment_date"`
	PaymentStatus  PaymentStatus   `bun:"payment_status,notnull" json:"payment_status"`
	RetryCount     int             `bun:"retry_count,notnull" json:"retry_count"`
	PaymentGateway *string         `bun:"payment_gateway" json:"payment_gateway"`
	OrderID        int64           `bun:"order_id,notnull" json:"order_id"`
}

type PaymentCreate struct {
	OrderID        *int64           `json:"order_id" validate:"required,gt=0"`
	Amount         *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	PaymentMethod  *string          `json:"payment_method" validate:"omitempty,max=50"`
	TransactionID  *string          `json:"transaction_id" validate:"omitempty,max=100"`
	PaymentGateway *string          `json:"payment_gateway" validate:"omitempty,max=50"`
}

func (c PaymentCreate) ToModel() *Payment {
	return &Payment{
		OrderID:        valueOr(c.OrderID, 0),
		Amount:         valueOr(c.Amount, decimal.Zero).Round(2),
		PaymentMethod:  copyPtr(c.PaymentMethod),
		TransactionID:  copyPtr(c.TransactionID),
		PaymentGateway: copyPtr(c.PaymentGateway),
		PaymentStatus:  PaymentStatusPending,
	}
}

type PaymentUpdate struct {
	PaymentStatus *string    `json:"payment_status" validate:"omitempty,oneof=pending completed failed refunded"`
	RetryCount    *int       `json:"retry_count" validate:"omitempty,gte=0"`
	TransactionID *string    `json:"transaction_id" validate:"omitempty,max=100"`
	PaymentDate   *time.Time `json:"payment_date"`
}

func (u PaymentUpdate) Apply(row *Payment) []string {
	var cols []string
	if u.PaymentStatus != nil {
		row.PaymentStatus = PaymentStatus(*u.PaymentStatus)
		cols = append(cols, "payment_status")
	}
	cols = assign(cols, "retry_count", u.RetryCount, &row.RetryCount)
	cols = assignNullable(cols, "transaction_id", u.TransactionID, &row.TransactionID)
	cols = assignNullable(cols, "payment_date", u.PaymentDate, &row.PaymentDate)
	return cols
}
