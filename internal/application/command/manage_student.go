package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SINGLE-RECORD COMMANDS
// Add, update, delete, and mark-fees-paid - the staff-facing record
// operations of the dashboard. Each loads the collection, applies one
// change, and saves the whole set back (full-overwrite store contract).
// ══════════════════════════════════════════════════════════════════════════════

// StudentInput carries the editable fields of one student.
type StudentInput struct {
	Name              string
	AttendancePercent float64
	MarksPercent      float64
	FeesPaid          bool
	GuardianPhone     string
}

// validate normalizes and checks the input, returning the normalized phone.
func (in StudentInput) validate() (student.GuardianPhone, error) {
	phone, ok := student.NormalizePhone(in.GuardianPhone)
	if !ok {
		return "", shared.ErrInvalidGuardianPhone
	}
	if !student.Percent(in.AttendancePercent).IsValid() || !student.Percent(in.MarksPercent).IsValid() {
		return "", shared.ErrInvalidPercent
	}
	return phone, nil
}

// StudentHandler handles the single-record commands.
type StudentHandler struct {
	store     student.Store
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(store student.Store, publisher shared.EventPublisher, log *logger.Logger) *StudentHandler {
	if log == nil {
		log = logger.Default()
	}
	return &StudentHandler{
		store:     store,
		publisher: publisher,
		log:       log.With(logger.Component("students")),
	}
}

// Add creates a new student record and persists the grown collection.
func (h *StudentHandler) Add(ctx context.Context, in StudentInput, now time.Time) (*student.Record, error) {
	phone, err := in.validate()
	if err != nil {
		return nil, err
	}

	rec, err := student.NewRecord(student.NewRecordParams{
		ID:                uuid.NewString(),
		Name:              in.Name,
		AttendancePercent: in.AttendancePercent,
		MarksPercent:      in.MarksPercent,
		FeesPaid:          in.FeesPaid,
		GuardianPhone:     phone,
		Timestamp:         now,
	})
	if err != nil {
		return nil, err
	}

	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	records = append(records, rec)
	if err := h.store.SaveAll(ctx, records); err != nil {
		return nil, err
	}

	h.log.Info("student added", logger.StudentID(rec.ID), logger.StudentName(rec.Name))
	h.publish(shared.EventStudentAdded, rec)
	return rec, nil
}

// Update folds a new observation into an existing record: the scalars take
// the input values and one snapshot is appended to the history.
func (h *StudentHandler) Update(ctx context.Context, id string, in StudentInput, now time.Time) (*student.Record, error) {
	phone, err := in.validate()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.ErrEmptyName
	}

	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rec := findByID(records, id)
	if rec == nil {
		return nil, shared.ErrStudentNotFound
	}

	rec.Name = name
	rec.GuardianPhone = phone.String()
	rec.ApplySnapshot(student.WeeklySnapshot{
		Date:              now,
		AttendancePercent: in.AttendancePercent,
		MarksPercent:      in.MarksPercent,
		FeesPaid:          in.FeesPaid,
	})

	if err := h.store.SaveAll(ctx, records); err != nil {
		return nil, err
	}

	h.log.Info("student updated", logger.StudentID(rec.ID), logger.StudentName(rec.Name))
	h.publish(shared.EventStudentUpdated, rec)
	return rec, nil
}

// Delete removes a record from the collection.
func (h *StudentHandler) Delete(ctx context.Context, id string) error {
	records, err := h.store.GetAll(ctx)
	if err != nil {
		return err
	}

	var deleted *student.Record
	kept := make([]*student.Record, 0, len(records))
	for _, r := range records {
		if r.ID == id {
			deleted = r
			continue
		}
		kept = append(kept, r)
	}
	if deleted == nil {
		return shared.ErrStudentNotFound
	}

	if err := h.store.SaveAll(ctx, kept); err != nil {
		return err
	}

	h.log.Info("student deleted", logger.StudentID(deleted.ID), logger.StudentName(deleted.Name))
	h.publish(shared.EventStudentDeleted, deleted)
	return nil
}

// MarkFeesPaid records a fees-paid observation for one student.
func (h *StudentHandler) MarkFeesPaid(ctx context.Context, id string, now time.Time) (*student.Record, error) {
	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rec := findByID(records, id)
	if rec == nil {
		return nil, shared.ErrStudentNotFound
	}
	if errors.Is(rec.Validate(), shared.ErrInvalidEntity) {
		// A stored record violating its own invariant is a storage fault.
		return nil, shared.WrapError("student", "MarkFeesPaid", shared.ErrStorage, "stored record is inconsistent", nil)
	}

	rec.MarkFeesPaid(now)
	if err := h.store.SaveAll(ctx, records); err != nil {
		return nil, err
	}

	h.log.Info("fees marked paid", logger.StudentID(rec.ID), logger.StudentName(rec.Name))
	h.publish(shared.EventFeesMarkedPaid, rec)
	return rec, nil
}

func (h *StudentHandler) publish(eventType shared.EventType, rec *student.Record) {
	if h.publisher == nil {
		return
	}
	_ = h.publisher.Publish(shared.NewStudentChangedEvent(eventType, rec.ID, rec.Name))
}

func findByID(records []*student.Record, id string) *student.Record {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
