package events

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// RecordEventInput defines the input required to record an event.
// VisitorID and the marketing fields are optional; an absent VisitorID means
// the event is anonymous and never deduplicated.
type RecordEventInput struct {
	EventType   string
	Path        string
	VisitorID   string
	ProjectID   string
	Referrer    string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	Device      string
	Country     string
}

// RecordResult is the outcome of an ingestion call. Deduplicated true means
// the submission was suppressed as a same-day repeat and nothing was stored.
type RecordResult struct {
	EventID      uint
	Deduplicated bool
}

// RecordEvent appends an event to the log unless an event with the same
// (visitorId, eventType, path) already exists for the same UTC calendar day.
// The lookup and the insert are not atomic: two concurrent submissions of the
// same triple can both observe "no prior event today" and both land.
func RecordEvent(dbManager cartridge.DBManager, logger *slog.Logger, clock Clock, input *RecordEventInput) (*RecordResult, error) {
	if clock == nil {
		clock = SystemClock
	}

	timestamp := clock.Now().UnixMilli()
	today := ISODate(timestamp)
	db := dbManager.GetConnection()

	if input.VisitorID != "" {
		// Index-assisted fetch of every prior event for the triple; the
		// day comparison happens here so both sides go through ISODate.
		var priorTimestamps []int64
		err := db.Model(&Event{}).
			Where("visitor_id = ? AND event_type = ? AND path = ?",
				input.VisitorID, input.EventType, input.Path).
			Pluck("timestamp", &priorTimestamps).Error
		if err != nil {
			logger.Error("Failed to look up prior events for dedup", slog.Any("error", err))
			return nil, fmt.Errorf("failed to look up prior events: %w", err)
		}

		for _, ts := range priorTimestamps {
			if ISODate(ts) == today {
				logger.Debug("Suppressed duplicate event",
					slog.String("visitorId", input.VisitorID),
					slog.String("eventType", input.EventType),
					slog.String("path", input.Path),
					slog.String("date", today))
				return &RecordResult{Deduplicated: true}, nil
			}
		}
	}

	event := &Event{
		EventType:   input.EventType,
		Path:        input.Path,
		VisitorID:   input.VisitorID,
		ProjectID:   input.ProjectID,
		Referrer:    input.Referrer,
		UTMSource:   input.UTMSource,
		UTMMedium:   input.UTMMedium,
		UTMCampaign: input.UTMCampaign,
		Device:      input.Device,
		Country:     input.Country,
		Timestamp:   timestamp,
		CreatedAt:   time.Now().UTC(),
	}

	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		logger.Error("Failed to store event", slog.Any("error", err))
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	return &RecordResult{EventID: event.ID}, nil
}

// ClearAllEvents deletes every event record unconditionally and returns the
// number of records that were removed. Authorization is the caller's job.
func ClearAllEvents(dbManager cartridge.DBManager, logger *slog.Logger) (int64, error) {
	db := dbManager.GetConnection()

	var total int64
	if err := db.Model(&Event{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM events").Error
	})
	if err != nil {
		logger.Error("Failed to clear event log", slog.Any("error", err))
		return 0, fmt.Errorf("failed to clear event log: %w", err)
	}

	logger.Info("Cleared event log", slog.Int64("deleted", total))
	return total, nil
}
