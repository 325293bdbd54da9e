package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelompok/venuehub/internal/model"
)

func approvedBooking(t *testing.T, e *Engine) *model.Booking {
	t.Helper()
	b := submit(t, e, 1, 0, 2)
	_, err := e.Decide(context.Background(), b.ID, model.BookingApproved, 99)
	require.NoError(t, err)
	return b
}

func TestCheckoutCompletesApprovedBooking(t *testing.T) {
	e, store := newTestEngine(t)
	b := approvedBooking(t, e)

	co, err := e.Checkout(context.Background(), CheckoutInput{
		BookingID:     b.ID,
		RequesterID:   b.RequesterID,
		Notes:         "chairs restored",
		CleanProofURL: "https://cdn.example/proof.jpg",
	})
	require.NoError(t, err)
	assert.NotZero(t, co.ID)

	after, err := store.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, after.Status)
}

func TestCheckoutOnlyRequesterMayComplete(t *testing.T) {
	e, _ := newTestEngine(t)
	b := approvedBooking(t, e)

	_, err := e.Checkout(context.Background(), CheckoutInput{
		BookingID:     b.ID,
		RequesterID:   b.RequesterID + 1,
		CleanProofURL: "https://cdn.example/proof.jpg",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCheckoutRequiresApprovedStatus(t *testing.T) {
	e, _ := newTestEngine(t)
	b := submit(t, e, 1, 0, 2) // still pending

	_, err := e.Checkout(context.Background(), CheckoutInput{
		BookingID:     b.ID,
		RequesterID:   b.RequesterID,
		CleanProofURL: "https://cdn.example/proof.jpg",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.Decide(context.Background(), b.ID, model.BookingRejected, 99)
	require.NoError(t, err)
	_, err = e.Checkout(context.Background(), CheckoutInput{
		BookingID:     b.ID,
		RequesterID:   b.RequesterID,
		CleanProofURL: "https://cdn.example/proof.jpg",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckoutRetryReturnsStoredRecord(t *testing.T) {
	e, _ := newTestEngine(t)
	b := approvedBooking(t, e)

	in := CheckoutInput{
		BookingID:     b.ID,
		RequesterID:   b.RequesterID,
		Notes:         "first",
		CleanProofURL: "https://cdn.example/proof.jpg",
	}
	first, err := e.Checkout(context.Background(), in)
	require.NoError(t, err)

	in.Notes = "second attempt must not overwrite"
	second, err := e.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Notes)
}

func TestConcurrentCheckoutsSingleRecord(t *testing.T) {
	e, store := newTestEngine(t)
	b := approvedBooking(t, e)

	const n = 8
	var wg sync.WaitGroup
	ids := make([]uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			co, err := e.Checkout(context.Background(), CheckoutInput{
				BookingID:     b.ID,
				RequesterID:   b.RequesterID,
				CleanProofURL: "https://cdn.example/proof.jpg",
			})
			if err == nil {
				ids[i] = co.ID
			}
		}(i)
	}
	wg.Wait()

	stored, err := store.GetCheckoutByBooking(context.Background(), b.ID)
	require.NoError(t, err)
	for _, id := range ids {
		if id != 0 {
			assert.Equal(t, stored.ID, id)
		}
	}
}

func TestReportsLifecycle(t *testing.T) {
	store := newMemReportStore()
	svc := NewReports(store)

	rep, err := svc.File(context.Background(), FileInput{
		RoomID:      1,
		ReporterID:  7,
		Description: "projector flickers",
		Severity:    model.SeverityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportOpen, rep.Status)

	fixed, err := svc.MarkFixed(context.Background(), rep.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, model.ReportFixed, fixed.Status)

	// fixed is terminal
	_, err = svc.MarkFixed(context.Background(), rep.ID, 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReportsRejectUnknownSeverity(t *testing.T) {
	svc := NewReports(newMemReportStore())

	_, err := svc.File(context.Background(), FileInput{
		RoomID:      1,
		ReporterID:  7,
		Description: "broken window",
		Severity:    model.DamageSeverity("catastrophic"),
	})
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestReportsListForReporter(t *testing.T) {
	svc := NewReports(newMemReportStore())

	for i := 0; i < 3; i++ {
		_, err := svc.File(context.Background(), FileInput{
			RoomID:      1,
			ReporterID:  7,
			Description: "scratched desk",
			Severity:    model.SeverityLight,
		})
		require.NoError(t, err)
	}
	_, err := svc.File(context.Background(), FileInput{
		RoomID:      1,
		ReporterID:  8,
		Description: "stained carpet",
		Severity:    model.SeverityLight,
	})
	require.NoError(t, err)

	mine, err := svc.ListForReporter(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

// memReportStore is the in-memory ReportStore counterpart of memStore.
type memReportStore struct {
	mu      sync.Mutex
	nextID  uint64
	reports map[uint64]*model.DamageReport
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: make(map[uint64]*model.DamageReport)}
}

func (s *memReportStore) CreateDamageReport(_ context.Context, r *model.DamageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.reports[r.ID] = &cp
	return nil
}

func (s *memReportStore) GetDamageReport(_ context.Context, id uint64) (*model.DamageReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memReportStore) MarkReportFixed(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	if r.Status != model.ReportOpen {
		return ErrInvalidTransition
	}
	r.Status = model.ReportFixed
	return nil
}

func (s *memReportStore) ListDamageReports(_ context.Context) ([]model.DamageReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DamageReport
	for _, r := range s.reports {
		out = append(out, *r)
	}
	return out, nil
}

func (s *memReportStore) ListDamageReportsByReporter(_ context.Context, reporterID uint64) ([]model.DamageReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DamageReport
	for _, r := range s.reports {
		if r.ReporterID == reporterID {
			out = append(out, *r)
		}
	}
	return out, nil
}
