// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - each represents something significant that happened
// in the system and that an outer surface (CLI report, notification layer)
// may want to react to.
const (
	// Import events
	EventImportCompleted EventType = "import.completed"
	EventImportFailed    EventType = "import.failed"

	// Student events
	EventStudentAdded   EventType = "student.added"
	EventStudentUpdated EventType = "student.updated"
	EventStudentDeleted EventType = "student.deleted"
	EventFeesMarkedPaid EventType = "student.fees_marked_paid"

	// Risk events
	EventHighRiskDetected EventType = "risk.high_detected"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes published events.
type EventHandler func(Event)

// EventPublisher publishes domain events.
type EventPublisher interface {
	// Publish delivers the event to all subscribed handlers.
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Import Events
// ═══════════════════════════════════════════════════════════════════════════

// ImportCompletedEvent is emitted after a CSV import has been merged and saved.
type ImportCompletedEvent struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Imported   int    `json:"imported"`
	Errors     int    `json:"errors"`
	TotalAfter int    `json:"total_after"`
}

// Payload implements Event interface.
func (e ImportCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"source_name": e.SourceName,
		"imported":    e.Imported,
		"errors":      e.Errors,
		"total_after": e.TotalAfter,
	}
}

// NewImportCompletedEvent creates a new ImportCompletedEvent.
func NewImportCompletedEvent(sourceName string, imported, errCount, totalAfter int) ImportCompletedEvent {
	return ImportCompletedEvent{
		BaseEvent:  NewBaseEvent(EventImportCompleted, sourceName),
		SourceName: sourceName,
		Imported:   imported,
		Errors:     errCount,
		TotalAfter: totalAfter,
	}
}

// ImportFailedEvent is emitted when a CSV import is rejected; nothing was
// persisted.
type ImportFailedEvent struct {
	BaseEvent
	SourceName string `json:"source_name"`
	ValidRows  int    `json:"valid_rows"`
	Errors     int    `json:"errors"`
}

// Payload implements Event interface.
func (e ImportFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"source_name": e.SourceName,
		"valid_rows":  e.ValidRows,
		"errors":      e.Errors,
	}
}

// NewImportFailedEvent creates a new ImportFailedEvent.
func NewImportFailedEvent(sourceName string, validRows, errCount int) ImportFailedEvent {
	return ImportFailedEvent{
		BaseEvent:  NewBaseEvent(EventImportFailed, sourceName),
		SourceName: sourceName,
		ValidRows:  validRows,
		Errors:     errCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentChangedEvent is emitted when a single record is added, updated,
// deleted, or has its fees marked as paid.
type StudentChangedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}

// Payload implements Event interface.
func (e StudentChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"name":       e.Name,
	}
}

// NewStudentChangedEvent creates a StudentChangedEvent of the given type.
func NewStudentChangedEvent(eventType EventType, studentID, name string) StudentChangedEvent {
	return StudentChangedEvent{
		BaseEvent: NewBaseEvent(eventType, studentID),
		StudentID: studentID,
		Name:      name,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Risk Events
// ═══════════════════════════════════════════════════════════════════════════

// HighRiskDetectedEvent is emitted when an assessment places a student in the
// high risk band.
type HighRiskDetectedEvent struct {
	BaseEvent
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
}

// Payload implements Event interface.
func (e HighRiskDetectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"name":       e.Name,
		"score":      e.Score,
	}
}

// NewHighRiskDetectedEvent creates a new HighRiskDetectedEvent.
func NewHighRiskDetectedEvent(studentID, name string, score float64) HighRiskDetectedEvent {
	return HighRiskDetectedEvent{
		BaseEvent: NewBaseEvent(EventHighRiskDetected, studentID),
		StudentID: studentID,
		Name:      name,
		Score:     score,
	}
}
