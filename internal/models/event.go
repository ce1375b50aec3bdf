package models

import (
	"time"

	"github.com/uptrace/bun"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

const DefaultMaxTicketsPerPurchase = 10

type Event struct {
	bun.BaseModel `bun:"table:events"`
	Base

	Name                  string      `bun:"name,notnull" json:"name"`
	Date                  time.Time   `bun:"date,notnull" json:"date"`
	Category              string      `bun:"category,notnull" json:"category"`
	Capacity              int         `bun:"capacity,notnull" json:"capacity"`
	EventStatus           EventStatus `bun:"event_status,notnull" json:"event_status"`
	AgeRestriction        *string     `bun:"age_restriction" json:"age_restriction"`
	MaxTicketsPerPurchase int         `bun:"max_tickets_per_purchase,notnull" json:"max_tickets_per_purchase"`
	Media                 *string     `bun:"media" json:"media"`
	OrganizerID           *int64      `bun:"organizer_id" json:"organizer_id"`
	LocationID            int64       `bun:"location_id,notnull" json:"location_id"`
}

// EventCreate has no status field: new events always start as drafts.
type EventCreate struct {
	Name                  *string    `json:"name" validate:"required,min=1,max=100"`
	Date                  *time.Time `json:"date" validate:"required"`
	Category              *string    `json:"category" validate:"required,min=1,max=50"`
	Capacity              *int       `json:"capacity" validate:"required,gt=0"`
	AgeRestriction        *string    `json:"age_restriction" validate:"omitempty,max=20"`
	MaxTicketsPerPurchase *int       `json:"max_tickets_per_purchase" validate:"omitempty,gt=0"`
	Media                 *string    `json:"media" validate:"omitempty,max=500"`
	OrganizerID           *int64     `json:"organizer_id" validate:"omitempty,gt=0"`
	LocationID            *int64     `json:"location_id" validate:"required,gt=0"`
}

func (c EventCreate) ToModel() *Event {
	return &Event{
		Name:                  valueOr(c.Name, ""),
		Date:                  valueOr(c.Date, time.Time{}).UTC(),
		Category:              valueOr(c.Category, ""),
		Capacity:              valueOr(c.Capacity, 0),
		EventStatus:           EventStatusDraft,
		AgeRestriction:        copyPtr(c.AgeRestriction),
		MaxTicketsPerPurchase: valueOr(c.MaxTicketsPerPurchase, DefaultMaxTicketsPerPurchase),
		Media:                 copyPtr(c.Media),
		OrganizerID:           copyPtr(c.OrganizerID),
		LocationID:            valueOr(c.LocationID, 0),
	}
}

type EventUpdate struct {
	Name                  *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Date                  *time.Time `json:"date"`
	Category              *string    `json:"category" validate:"omitempty,min=1,max=50"`
	Capacity              *int       `json:"capacity" validate:"omitempty,gt=0"`
	EventStatus           *string    `json:"event_status" validate:"omitempty,oneof=draft published cancelled completed"`
	AgeRestriction        *string    `json:"age_restriction" validate:"omitempty,max=20"`
	MaxTicketsPerPurchase *int       `json:"max_tickets_per_purchase" validate:"omitempty,gt=0"`
	Media                 *string    `json:"media" validate:"omitempty,max=500"`
	LocationID            *int64     `json:"location_id" validate:"omitempty,gt=0"`
}

func (u EventUpdate) Apply(row *Event) []string {
	var cols []string
	cols = assign(cols, "name", u.Name, &row.Name)
	if u.Date != nil {
		row.Date = u.Date.UTC()
		cols = append(cols, "date")
	}
	cols = assign(cols, "category", u.Category, &row.Category)
	cols = assign(cols, "capacity", u.Capacity, &row.Capacity)
	if u.EventStatus != nil {
		row.EventStatus = EventStatus(*u.EventStatus)
		cols = append(cols, "event_status")
	}
	cols = assignNullable(cols, "age_restriction", u.AgeRestriction, &row.AgeRestriction)
	cols = assign(cols, "max_tickets_per_purchase", u.MaxTicketsPerPurchase, &row.MaxTicketsPerPurchase)
	cols = assignNullable(cols, "media", u.Media, &row.Media)
	cols = assign(cols, "location_id", u.LocationID, &row.LocationID)
	return cols
}
