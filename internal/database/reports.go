package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
)

const reportColumns = `
	id, reporter_id, item_type, item_id, reason, description, status,
	admin_notes, created_at, resolved_at
`

func scanReport(row pgx.Row) (*models.Report, error) {
	var r models.Report
	err := row.Scan(
		&r.ID,
		&r.ReporterID,
		&r.ItemType,
		&r.ItemID,
		&r.Reason,
		&r.Description,
		&r.Status,
		&r.AdminNotes,
		&r.CreatedAt,
		&r.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

type CreateReportParams struct {
	ReporterID  int64
	ItemType    models.ItemType
	ItemID      int64
	Reason      string
	Description *string
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (*models.Report, error) {
	query := `
		INSERT INTO reports (reporter_id, item_type, item_id, reason, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reportColumns

	return scanReport(q.db.QueryRow(ctx, query,
		arg.ReporterID, arg.ItemType, arg.ItemID, arg.Reason, arg.Description,
	))
}

func (q *Queries) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) ListReports(ctx context.Context, status *string, limit int, offset int) ([]models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE ($1::varchar IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if reports == nil {
		return []models.Report{}, nil
	}

	return reports, nil
}

// ResolveReport moves a report into a terminal status and stamps the
// resolution time.
func (q *Queries) ResolveReport(ctx context.Context, id int64, status string, adminNotes *string) (bool, error) {
	query := `
		UPDATE reports
		SET status = $1, admin_notes = $2, resolved_at = NOW()
		WHERE id = $3
	`
	res, err := q.db.Exec(ctx, query, status, adminNotes, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
