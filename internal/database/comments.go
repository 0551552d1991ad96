package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrCommentNotFound = errors.New("comment not found")

const commentColumns = `
	id, content, file_id, user_id, parent_id, is_approved, is_edited,
	created_at, updated_at
`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID,
		&c.Content,
		&c.FileID,
		&c.UserID,
		&c.ParentID,
		&c.IsApproved,
		&c.IsEdited,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type CreateCommentParams struct {
	Content  string
	FileID   int64
	UserID   int64
	ParentID *int64
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (*models.Comment, error) {
	query := `
		INSERT INTO comments (content, file_id, user_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	comment, err := scanComment(q.db.QueryRow(ctx, query,
		arg.Content, arg.FileID, arg.UserID, arg.ParentID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (q *Queries) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) ListCommentsForFile(ctx context.Context, fileID int64) ([]models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE file_id = $1 AND is_approved
		ORDER BY created_at
	`
	rows, err := q.db.Query(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if comments == nil {
		return []models.Comment{}, nil
	}

	return comments, nil
}

func (q *Queries) UpdateComment(ctx context.Context, id int64, userID int64, content string) (bool, error) {
	query := `
		UPDATE comments
		SET content = $1, is_edited = TRUE, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`
	res, err := q.db.Exec(ctx, query, content, id, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// DeleteCommentWithReplies removes a comment together with the whole reply
// subtree under it.
func (q *Queries) DeleteCommentWithReplies(ctx context.Context, id int64) error {
	query := `
		WITH RECURSIVE thread AS (
			SELECT id FROM comments WHERE id = $1

			UNION ALL

			SELECT c.id
			FROM comments c
			JOIN thread t ON c.parent_id = t.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM thread)
	`
	_, err := q.db.Exec(ctx, query, id)
	return err
}

func (q *Queries) DeleteCommentsForFiles(ctx context.Context, fileIDs []int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM comments WHERE file_id = ANY($1)`, fileIDs)
	return err
}

func (q *Queries) SetCommentApproved(ctx context.Context, id int64, approved bool) (bool, error) {
	res, err := q.db.Exec(ctx, `UPDATE comments SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
