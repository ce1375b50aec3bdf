package analytics

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

type EventLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// Service computes read-only aggregates straight from the tables.
type Service struct {
	DB     *storage.DB
	Events EventLookup
	Logger *logger.Logger
}

func NewService(db *storage.DB, events EventLookup, log *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Logger: log}
}

// EventStats summarises ticket sales and reviews for one event
type EventStats struct {
	EventID        int64    `json:"event_id"`
	Capacity       int      `json:"capacity"`
	TicketTypes    int      `json:"ticket_types"`
	TicketsOffered int      `json:"tickets_offered"`
	TicketsIssued  int      `json:"tickets_issued"`
	TicketsUsed    int      `json:"tickets_checked_in"`
	TicketsVoid    int      `json:"tickets_void"`
	Reviews        int      `json:"reviews"`
	AverageRating  *float64 `json:"average_rating"`
}

type ticketTotals struct {
	TicketTypes    int `bun:"ticket_types"`
	TicketsOffered int `bun:"tickets_offered"`
}

type ticketCounts struct {
	Issued int `bun:"issued"`
	Used   int `bun:"used"`
	Void   int `bun:"void"`
}

type reviewTotals struct {
	Reviews       int      `bun:"reviews"`
	AverageRating *float64 `bun:"average_rating"`
}

// GetEventStats returns NotFound when the event does not exist.
func (s *Service) GetEventStats(ctx context.Context, eventID int64) (*EventStats, error) {
	event, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			s.Logger.Error("ANALYTICS", fmt.Sprintf("Failed to load event %d: %v", eventID, err))
		}
		metrics.RecordOperation("analytics", "event_stats", err)
		return nil, fmt.Errorf("get event %d: %w", eventID, err)
	}

	stats, err := s.eventStats(ctx, event)
	metrics.RecordOperation("analytics", "event_stats", err)
	if err != nil {
		s.Logger.Error("ANALYTICS", fmt.Sprintf("Failed to compute stats for event %d: %v", eventID, err))
		return nil, fmt.Errorf("event %d stats: %w", eventID, err)
	}
	return stats, nil
}

func (s *Service) eventStats(ctx context.Context, event *models.Event) (*EventStats, error) {
	var types ticketTotals
	err := s.DB.Bun.NewRaw(`
		SELECT
			COUNT(*) AS ticket_types,
			COALESCE(SUM(quantity), 0) AS tickets_offered
		FROM ticket_types
		WHERE event_id = ?`, event.ID).Scan(ctx, &types)
	if err != nil {
		return nil, err
	}

	var counts ticketCounts
	err = s.DB.Bun.NewRaw(`
		SELECT
			COUNT(t.id) AS issued,
			COALESCE(SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END), 0) AS used,
			COALESCE(SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END), 0) AS void
		FROM tickets t
		JOIN ticket_types tt ON t.ticket_type_id = tt.id
		WHERE tt.event_id = ?`,
		string(models.TicketStatusUsed), string(models.TicketStatusVoid), event.ID).Scan(ctx, &counts)
	if err != nil {
		return nil, err
	}

	var reviews reviewTotals
	err = s.DB.Bun.NewRaw(`
		SELECT
			COUNT(*) AS reviews,
			AVG(rating) AS average_rating
		FROM reviews
		WHERE event_id = ?`, event.ID).Scan(ctx, &reviews)
	if err != nil {
		return nil, err
	}

	return &EventStats{
		EventID:        event.ID,
		Capacity:       event.Capacity,
		TicketTypes:    types.TicketTypes,
		TicketsOffered: types.TicketsOffered,
		TicketsIssued:  counts.Issued,
		TicketsUsed:    counts.Used,
		TicketsVoid:    counts.Void,
		Reviews:        reviews.Reviews,
		AverageRating:  reviews.AverageRating,
	}, nil
}
