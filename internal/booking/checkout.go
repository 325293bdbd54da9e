package booking

import (
	"context"

	"github.com/kelompok/venuehub/internal/model"
)

// ReportStore is the persistence port for damage reports, which have
// a lifecycle independent from bookings.
type ReportStore interface {
	CreateDamageReport(ctx context.Context, r *model.DamageReport) error
	GetDamageReport(ctx context.Context, id uint64) (*model.DamageReport, error)
	// MarkReportFixed flips an open report to fixed with a guard on
	// the current status; it returns ErrInvalidTransition when the
	// report is already fixed.
	MarkReportFixed(ctx context.Context, id uint64) error
	ListDamageReports(ctx context.Context) ([]model.DamageReport, error)
	ListDamageReportsByReporter(ctx context.Context, reporterID uint64) ([]model.DamageReport, error)
}

// CheckoutInput carries the completion evidence for an approved
// booking.
type CheckoutInput struct {
	BookingID     uint64
	RequesterID   uint64
	Notes         string
	CleanProofURL string
}

// Checkout finalises a booking: it records the cleanliness proof and
// transitions the booking from approved to completed in one storage
// transaction.  Only the original requester may check out, and only
// once; a retry after a successful checkout returns the stored record
// rather than inserting a second one.
func (e *Engine) Checkout(ctx context.Context, in CheckoutInput) (*model.Checkout, error) {
	b, err := e.store.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RequesterID != in.RequesterID {
		return nil, ErrForbidden
	}
	switch b.Status {
	case model.BookingApproved:
		// fall through to the insert below
	case model.BookingCompleted:
		// already checked out; treat a retry as success
		if prev, err := e.store.GetCheckoutByBooking(ctx, in.BookingID); err == nil {
			return prev, nil
		}
		return nil, ErrInvalidTransition
	default:
		return nil, ErrInvalidTransition
	}

	co := &model.Checkout{
		BookingID:     in.BookingID,
		RequesterID:   in.RequesterID,
		Notes:         in.Notes,
		CleanProofURL: in.CleanProofURL,
	}
	if err := e.store.CompleteWithCheckout(ctx, co); err != nil {
		return nil, err
	}
	// The interval stays registered: a completed booking still
	// occupies its historical slot.
	return co, nil
}

// CheckoutFor returns the checkout attached to a booking, if any.
func (e *Engine) CheckoutFor(ctx context.Context, bookingID uint64) (*model.Checkout, error) {
	return e.store.GetCheckoutByBooking(ctx, bookingID)
}

// Reports bundles the damage-report operations.  Reports may be filed
// at any time regardless of booking state and only ever move from
// open to fixed.
type Reports struct {
	store ReportStore
}

// NewReports constructs the damage-report service.
func NewReports(store ReportStore) *Reports {
	if store == nil {
		panic("nil store passed to NewReports")
	}
	return &Reports{store: store}
}

// FileInput carries a new damage report.
type FileInput struct {
	RoomID      uint64
	ReporterID  uint64
	Description string
	Severity    model.DamageSeverity
	ProofURL    *string
}

// File creates an open damage report for a room.
func (r *Reports) File(ctx context.Context, in FileInput) (*model.DamageReport, error) {
	if !in.Severity.Valid() {
		return nil, ErrInvalidSeverity
	}
	rep := &model.DamageReport{
		RoomID:      in.RoomID,
		ReporterID:  in.ReporterID,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      model.ReportOpen,
		ProofURL:    in.ProofURL,
	}
	if err := r.store.CreateDamageReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// MarkFixed transitions a report from open to fixed.  Fixed is
// terminal; marking an already-fixed report fails with
// ErrInvalidTransition.
func (r *Reports) MarkFixed(ctx context.Context, reportID uint64, actorID uint64) (*model.DamageReport, error) {
	rep, err := r.store.GetDamageReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Status == model.ReportFixed {
		return nil, ErrInvalidTransition
	}
	if err := r.store.MarkReportFixed(ctx, reportID); err != nil {
		return nil, err
	}
	rep.Status = model.ReportFixed
	return rep, nil
}

// List returns every damage report, newest first.
func (r *Reports) List(ctx context.Context) ([]model.DamageReport, error) {
	return r.store.ListDamageReports(ctx)
}

// ListForReporter returns the reports filed by one user.
func (r *Reports) ListForReporter(ctx context.Context, reporterID uint64) ([]model.DamageReport, error) {
	return r.store.ListDamageReportsByReporter(ctx, reporterID)
}
