package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
)

func scanTag(row pgx.Row) (*models.Tag, error) {
	var t models.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetOrCreateTag resolves a tag by its slug, inserting it if missing. The
// upsert makes concurrent uploads with the same new tag converge on one row.
func (q *Queries) GetOrCreateTag(ctx context.Context, name string, slug string) (*models.Tag, error) {
	query := `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = tags.name
		RETURNING id, name, slug, created_at
	`
	return scanTag(q.db.QueryRow(ctx, query, name, slug))
}

func (q *Queries) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	query := `SELECT id, name, slug, created_at FROM tags WHERE slug = $1`
	return scanTag(q.db.QueryRow(ctx, query, slug))
}

// SetFileTags replaces the file's tag set with the given tag ids.
func (q *Queries) SetFileTags(ctx context.Context, fileID int64, tagIDs []int64) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM file_tags WHERE file_id = $1`, fileID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO file_tags (file_id, tag_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	_, err := q.db.Exec(ctx, query, fileID, tagIDs)
	return err
}

func (q *Queries) ListTagsForFile(ctx context.Context, fileID int64) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_id = $1
		ORDER BY t.name
	`
	rows, err := q.db.Query(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		return []models.Tag{}, nil
	}

	return tags, nil
}

func (q *Queries) ListFilesByTag(ctx context.Context, tagID int64, limit int, offset int) ([]models.File, error) {
	query := `
		SELECT ` + fileColumnsPrefixed + `
		FROM files f
		JOIN file_tags ft ON ft.file_id = f.id
		JOIN folders d ON d.id = f.folder_id
		WHERE ft.tag_id = $1 AND d.is_public
		ORDER BY f.uploaded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, tagID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

type TagCount struct {
	Tag       models.Tag `json:"tag"`
	FileCount int64      `json:"file_count"`
}

func (q *Queries) ListPopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(ft.file_id) AS file_count
		FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		GROUP BY t.id
		ORDER BY file_count DESC, t.name
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag.ID, &tc.Tag.Name, &tc.Tag.Slug, &tc.Tag.CreatedAt, &tc.FileCount); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if counts == nil {
		return []TagCount{}, nil
	}

	return counts, nil
}
