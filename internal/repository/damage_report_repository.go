package repository

import (
	"context"
	"database/sql"

	"github.com/kelompok/venuehub/internal/booking"
	"github.com/kelompok/venuehub/internal/model"
)

// DamageReportRepo persists damage reports.  It implements
// booking.ReportStore.
type DamageReportRepo struct {
	db *sql.DB
}

// NewDamageReportRepo returns a new DamageReportRepo.
func NewDamageReportRepo(db *sql.DB) *DamageReportRepo { return &DamageReportRepo{db: db} }

const reportColumns = `id, room_id, reporter_id, description, severity, status, proof_url, created_at, updated_at`

func scanReport(row interface{ Scan(...any) error }) (*model.DamageReport, error) {
	var (
		rep   model.DamageReport
		proof sql.NullString
	)
	err := row.Scan(&rep.ID, &rep.RoomID, &rep.ReporterID, &rep.Description,
		&rep.Severity, &rep.Status, &proof, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if proof.Valid {
		v := proof.String
		rep.ProofURL = &v
	}
	return &rep, nil
}

// CreateDamageReport inserts a report and fills in the generated ID
// and timestamps.
func (r *DamageReportRepo) CreateDamageReport(ctx context.Context, rep *model.DamageReport) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO damage_reports (room_id, reporter_id, description, severity, status, proof_url)
		 VALUES (?,?,?,?,?,?)`,
		rep.RoomID, rep.ReporterID, rep.Description, rep.Severity, rep.Status, nullString(rep.ProofURL))
	if err != nil {
		return translate("insert report", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("insert report id", err)
	}
	rep.ID = uint64(id)
	created, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM damage_reports WHERE id = ?`, rep.ID))
	if err != nil {
		return translate("reload report", err)
	}
	*rep = *created
	return nil
}

// GetDamageReport returns a single report.
func (r *DamageReportRepo) GetDamageReport(ctx context.Context, id uint64) (*model.DamageReport, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM damage_reports WHERE id = ?`, id))
	if err != nil {
		return nil, translate("get report", err)
	}
	return rep, nil
}

// MarkReportFixed flips an open report to fixed.  The status guard in
// the WHERE clause makes the update a no-op for already-fixed reports,
// which is then reported as ErrInvalidTransition, or ErrNotFound when
// the report does not exist at all.
func (r *DamageReportRepo) MarkReportFixed(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE damage_reports SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		model.ReportFixed, id, model.ReportOpen)
	if err != nil {
		return translate("fix report", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("fix report rows", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM damage_reports WHERE id = ?)`, id).Scan(&exists); err != nil {
			return translate("fix report exists", err)
		}
		if !exists {
			return booking.ErrNotFound
		}
		return booking.ErrInvalidTransition
	}
	return nil
}

// ListDamageReports returns every report, open ones first and newest
// within each group, so admins see outstanding damage at the top.
func (r *DamageReportRepo) ListDamageReports(ctx context.Context) ([]model.DamageReport, error) {
	return r.listReports(ctx,
		`SELECT `+reportColumns+` FROM damage_reports ORDER BY status ASC, created_at DESC`)
}

// ListDamageReportsByReporter returns the reports filed by one user,
// newest first.
func (r *DamageReportRepo) ListDamageReportsByReporter(ctx context.Context, reporterID uint64) ([]model.DamageReport, error) {
	return r.listReports(ctx,
		`SELECT `+reportColumns+` FROM damage_reports WHERE reporter_id = ? ORDER BY created_at DESC`,
		reporterID)
}

func (r *DamageReportRepo) listReports(ctx context.Context, query string, args ...any) ([]model.DamageReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list reports", err)
	}
	defer rows.Close()
	out := make([]model.DamageReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, translate("list reports scan", err)
		}
		out = append(out, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list reports rows", err)
	}
	return out, nil
}
