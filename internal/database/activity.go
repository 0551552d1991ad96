package database

import (
	"context"

	"github.com/Arnav55278/study-vault/internal/models"
)

type LogActivityParams struct {
	UserID      *int64
	Action      string
	Description *string
	FileID      *int64
	FolderID    *int64
	IPAddress   *string
	UserAgent   *string
}

func (q *Queries) LogActivity(ctx context.Context, arg LogActivityParams) error {
	query := `
		INSERT INTO activity_logs (user_id, action, description, file_id, folder_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.db.Exec(ctx, query,
		arg.UserID, arg.Action, arg.Description, arg.FileID, arg.FolderID,
		arg.IPAddress, arg.UserAgent,
	)
	return err
}

func (q *Queries) ListRecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	query := `
		SELECT id, user_id, action, description, file_id, folder_id, ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		err := rows.Scan(
			&l.ID, &l.UserID, &l.Action, &l.Description, &l.FileID,
			&l.FolderID, &l.IPAddress, &l.UserAgent, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if logs == nil {
		return []models.ActivityLog{}, nil
	}

	return logs, nil
}

func (q *Queries) RecordDownload(ctx context.Context, userID *int64, fileID int64, ipAddress *string) error {
	query := `INSERT INTO download_history (user_id, file_id, ip_address) VALUES ($1, $2, $3)`
	_, err := q.db.Exec(ctx, query, userID, fileID, ipAddress)
	return err
}

func (q *Queries) DeleteDownloadHistoryForFiles(ctx context.Context, fileIDs []int64) error {
	query := `DELETE FROM download_history WHERE file_id = ANY($1)`
	_, err := q.db.Exec(ctx, query, fileIDs)
	return err
}

func (q *Queries) ListDownloadHistory(ctx context.Context, userID int64, limit int, offset int) ([]models.DownloadRecord, error) {
	query := `
		SELECT id, user_id, file_id, ip_address, downloaded_at
		FROM download_history
		WHERE user_id = $1
		ORDER BY downloaded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DownloadRecord
	for rows.Next() {
		var r models.DownloadRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.FileID, &r.IPAddress, &r.DownloadedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if records == nil {
		return []models.DownloadRecord{}, nil
	}

	return records, nil
}
