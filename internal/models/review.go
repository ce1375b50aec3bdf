package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews"`
	Base

	EventID int64   `bun:"event_id,notnull" json:"event_id"`
	UserID  int64   `bun:"user_id,notnull" json:"user_id"`
	Rating  int     `bun:"rating,notnull" json:"rating"`
	Comment *string `bun:"comment" json:"comment"`
}

type ReviewCreate struct {
	EventID *int64  `json:"event_id" validate:"required,gt=0"`
	UserID  *int64  `json:"user_id" validate:"required,gt=0"`
	Rating  *int    `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (c ReviewCreate) ToModel() *Review {
	return &Review{
		EventID: valueOr(c.EventID, 0),
		UserID:  valueOr(c.UserID, 0),
		Rating:  valueOr(c.Rating, 0),
		Comment: copyPtr(c.Comment),
	}
}

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationSMS   NotificationType = "sms"
	NotificationPush  NotificationType = "push"
)

// Notification rows are stored only. Nothing delivers them.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`
	Base

	UserID  int64            `bun:"user_id,notnull" json:"user_id"`
	Type    NotificationType `bun:"type,notnull" json:"type"`
	Message *string          `bun:"message" json:"message"`
	SentAt  *time.Time       `bun:"sent_at" json:"sent_at"`
	IsRead  bool             `bun:"is_read,notnull" json:"is_read"`
}

type NotificationCreate struct {
	UserID  *int64  `json:"user_id" validate:"required,gt=0"`
	Type    *string `json:"type" validate:"required,oneof=email sms push"`
	Message *string `json:"message" validate:"omitempty,max=500"`
}

func (c NotificationCreate) ToModel() *Notification {
	return &Notification{
		UserID:  valueOr(c.UserID, 0),
		Type:    NotificationType(valueOr(c.Type, "")),
		Message: copyPtr(c.Message),
	}
}

// NotificationRead marks a notification read; it is the only mutable field.
type NotificationRead struct{}

func (NotificationRead) Apply(row *Notification) []string {
	row.IsRead = true
	return []string{"is_read"}
}

type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs"`
	Base

	AdminID *int64  `bun:"admin_id" json:"admin_id"`
	Action  string  `bun:"action,notnull" json:"action"`
	Entity  string  `bun:"entity,notnull" json:"entity"`
	Details *string `bun:"details" json:"details"`
}
