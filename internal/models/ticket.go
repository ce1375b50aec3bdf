package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`
	Base

	Name        string          `bun:"name,notnull" json:"name"`
	Price       decimal.Decimal `bun:"price,type:decimal(10,2),notnull" json:"price"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
	Description *string         `bun:"description" json:"description"`
	Benefits    *string         `bun:"benefits" json:"benefits"`
	EventID     int64           `bun:"event_id,notnull" json:"event_id"`
}

type TicketTypeCreate struct {
	Name        *string          `json:"name" validate:"required,min=1,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Benefits    *string          `json:"benefits" validate:"omitempty,max=500"`
	EventID     *int64           `json:"event_id" validate:"required,gt=0"`
}

func (c TicketTypeCreate) ToModel() *TicketType {
	return &TicketType{
		Name:        valueOr(c.Name, ""),
		Price:       valueOr(c.Price, decimal.Zero).Round(2),
		Quantity:    valueOr(c.Quantity, 0),
		Description: copyPtr(c.Description),
		Benefits:    copyPtr(c.Benefits),
		EventID:     valueOr(c.EventID, 0),
	}
}

type TicketTypeUpdate struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Benefits    *string          `json:"benefits" validate:"omitempty,max=500"`
}

func (u TicketTypeUpdate) Apply(row *TicketType) []string {
	var cols []string
	cols = assign(cols, "name", u.Name, &row.Name)
	if u.Price != nil {
		row.Price = u.Price.Round(2)
		cols = append(cols, "price")
	}
	cols = assign(cols, "quantity", u.Quantity, &row.Quantity)
	cols = assignNullable(cols, "description", u.Description, &row.Description)
	cols = assignNullable(cols, "benefits", u.Benefits, &row.Benefits)
	return cols
}

type TicketStatus string

const (
	TicketStatusValid TicketStatus = "valid"
	TicketStatusUsed  TicketStatus = "used"
	TicketStatusVoid  TicketStatus = "void"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`
	Base

	TicketTypeID int64        `bun:"ticket_type_id,notnull" json:"ticket_type_id"`
	QRCode       string       `bun:"qr_code,unique,notnull" json:"qr_code"`
	SeatNumber   *string      `bun:"seat_number" json:"seat_number"`
	Status       TicketStatus `bun:"status,notnull" json:"status"`
	OrderID      *int64       `bun:"order_id" json:"order_id"`
}

// TicketCreate leaves qr_code optional; a code is generated when it is absent.
type TicketCreate struct {
	TicketTypeID *int64  `json:"ticket_type_id" validate:"required,gt=0"`
	QRCode       *string `json:"qr_code" validate:"omitempty,min=4,max=200"`
	SeatNumber   *string `json:"seat_number" validate:"omitempty,max=50"`
	Status       *string `json:"status" validate:"omitempty,oneof=valid used void"`
	OrderID      *int64  `json:"order_id" validate:"omitempty,gt=0"`
}

func (c TicketCreate) ToModel() *Ticket {
	return &Ticket{
		TicketTypeID: valueOr(c.TicketTypeID, 0),
		QRCode:       valueOr(c.QRCode, ""),
		SeatNumber:   copyPtr(c.SeatNumber),
		Status:       TicketStatus(valueOr(c.Status, string(TicketStatusValid))),
		OrderID:      copyPtr(c.OrderID),
	}
}

type TicketUpdate struct {
	SeatNumber *string `json:"seat_number" validate:"omitempty,max=50"`
	Status     *string `json:"status" validate:"omitempty,oneof=valid used void"`
	OrderID    *int64  `json:"order_id" validate:"omitempty,gt=0"`
}

func (u TicketUpdate) Apply(row *Ticket) []string {
	var cols []string
	cols = assignNullable(cols, "seat_number", u.SeatNumber, &row.SeatNumber)
	if u.Status != nil {
		row.Status = TicketStatus(*u.Status)
		cols = append(cols, "status")
	}
	cols = assignNullable(cols, "order_id", u.OrderID, &row.OrderID)
	return cols
}

// TicketScan is the body of a check-in request: the payload read from the QR image.
type TicketScan struct {
	Payload *string `json:"payload" validate:"required,min=1"`
}
