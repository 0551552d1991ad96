package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UpsertRating records a user's rating for a file, replacing any earlier one.
func (q *Queries) UpsertRating(ctx context.Context, fileID int64, userID int64, rating int) (*models.Rating, error) {
	query := `
		INSERT INTO ratings (rating, file_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT unique_file_rating
		DO UPDATE SET rating = EXCLUDED.rating
		RETURNING id, rating, file_id, user_id, created_at
	`
	var r models.Rating
	err := q.db.QueryRow(ctx, query, rating, fileID, userID).Scan(
		&r.ID, &r.Rating, &r.FileID, &r.UserID, &r.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (q *Queries) GetUserRating(ctx context.Context, fileID int64, userID int64) (*models.Rating, error) {
	query := `SELECT id, rating, file_id, user_id, created_at FROM ratings WHERE file_id = $1 AND user_id = $2`
	var r models.Rating
	err := q.db.QueryRow(ctx, query, fileID, userID).Scan(
		&r.ID, &r.Rating, &r.FileID, &r.UserID, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func (q *Queries) GetRatingSummary(ctx context.Context, fileID int64) (RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE file_id = $1
	`
	var s RatingSummary
	err := q.db.QueryRow(ctx, query, fileID).Scan(&s.Average, &s.Count)
	return s, err
}

func (q *Queries) DeleteRating(ctx context.Context, fileID int64, userID int64) (bool, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM ratings WHERE file_id = $1 AND user_id = $2`, fileID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteRatingsForFiles(ctx context.Context, fileIDs []int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM ratings WHERE file_id = ANY($1)`, fileIDs)
	return err
}
