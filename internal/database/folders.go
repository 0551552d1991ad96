package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrFolderNotFound = errors.New("folder not found")
var ErrParentNotFound = errors.New("parent folder does not exist")
var ErrFolderCycle = errors.New("cannot move a folder under itself or one of its descendants")

const folderColumns = `
	id, name, slug, description, parent_id, owner_id, category_id, is_public,
	is_featured, password_hash, subject, class_level, view_count, share_token,
	created_at, updated_at
`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Slug,
		&f.Description,
		&f.ParentID,
		&f.OwnerID,
		&f.CategoryID,
		&f.IsPublic,
		&f.IsFeatured,
		&f.PasswordHash,
		&f.Subject,
		&f.ClassLevel,
		&f.ViewCount,
		&f.ShareToken,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		return []models.Folder{}, nil
	}

	return folders, nil
}

type CreateFolderParams struct {
	Name         string
	Slug         *string
	Description  *string
	ParentID     *int64
	OwnerID      int64
	CategoryID   *int64
	IsPublic     bool
	PasswordHash *string
	Subject      *string
	ClassLevel   *string
	ShareToken   *string
}

func (q *Queries) CreateFolder(ctx context.Context, arg CreateFolderParams) (*models.Folder, error) {
	query := `
		INSERT INTO folders (name, slug, description, parent_id, owner_id,
		                     category_id, is_public, password_hash, subject,
		                     class_level, share_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + folderColumns

	folder, err := scanFolder(q.db.QueryRow(ctx, query,
		arg.Name, arg.Slug, arg.Description, arg.ParentID, arg.OwnerID,
		arg.CategoryID, arg.IsPublic, arg.PasswordHash, arg.Subject,
		arg.ClassLevel, arg.ShareToken,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	return folder, nil
}

func (q *Queries) GetFolderByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	return scanFolder(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetFolderByShareToken(ctx context.Context, token string) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE share_token = $1`
	return scanFolder(q.db.QueryRow(ctx, query, token))
}

func (q *Queries) ListChildFolders(ctx context.Context, parentID int64) ([]models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE parent_id = $1 ORDER BY id`
	rows, err := q.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) ListFoldersByOwner(ctx context.Context, ownerID int64) ([]models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE owner_id = $1 ORDER BY id`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) ListPublicFoldersByOwner(ctx context.Context, ownerID int64) ([]models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE owner_id = $1 AND is_public ORDER BY id`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

type UpdateFolderParams struct {
	ID           int64
	OwnerID      int64
	Name         string
	Slug         *string
	Description  *string
	ParentID     *int64
	CategoryID   *int64
	IsPublic     bool
	PasswordHash *string
	Subject      *string
	ClassLevel   *string
}

// UpdateFolder rewrites the mutable folder fields. A nil PasswordHash clears
// the password gate. The caller must run the descendant check before changing
// ParentID; the query itself only protects against a dangling parent.
func (q *Queries) UpdateFolder(ctx context.Context, arg UpdateFolderParams) (bool, error) {
	query := `
		UPDATE folders
		SET name = $1, slug = $2, description = $3, parent_id = $4,
		    category_id = $5, is_public = $6, password_hash = $7,
		    subject = $8, class_level = $9, updated_at = NOW()
		WHERE id = $10 AND owner_id = $11
	`
	res, err := q.db.Exec(ctx, query,
		arg.Name, arg.Slug, arg.Description, arg.ParentID,
		arg.CategoryID, arg.IsPublic, arg.PasswordHash,
		arg.Subject, arg.ClassLevel, arg.ID, arg.OwnerID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrParentNotFound
		}
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// IsDescendantOf reports whether candidate lies in the subtree rooted at
// folderID, the folder itself included. Re-parent operations use it to keep
// the parent chain acyclic.
func (q *Queries) IsDescendantOf(ctx context.Context, folderID int64, candidate int64) (bool, error) {
	if folderID == candidate {
		return true, nil
	}

	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1

			UNION ALL

			SELECT f.id
			FROM folders f
			JOIN subtree st ON f.parent_id = st.id
		)
		SELECT EXISTS (
			SELECT 1 FROM subtree WHERE id = $2
		);
	`
	var isDescendant bool
	err := q.db.QueryRow(ctx, query, folderID, candidate).Scan(&isDescendant)
	return isDescendant, err
}

// GetFolderPath returns the breadcrumb for the folder, ordered root first and
// the folder itself last. The recursive walk terminates because the parent
// chain is kept acyclic.
func (q *Queries) GetFolderPath(ctx context.Context, folderID int64) ([]models.Folder, error) {
	query := `
		WITH RECURSIVE path AS (
			SELECT ` + folderColumns + `, 0 AS depth
			FROM folders
			WHERE id = $1

			UNION ALL

			SELECT f.id, f.name, f.slug, f.description, f.parent_id, f.owner_id,
			       f.category_id, f.is_public, f.is_featured, f.password_hash,
			       f.subject, f.class_level, f.view_count, f.share_token,
			       f.created_at, f.updated_at, p.depth + 1
			FROM folders f
			JOIN path p ON f.id = p.parent_id
		)
		SELECT ` + folderColumns + `
		FROM path
		ORDER BY depth DESC
	`
	rows, err := q.db.Query(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

// ListDescendantFolderIDs collects the ids of the whole subtree rooted at
// folderID, the root included, children before parents never guaranteed; the
// cascade delete removes the set in a single statement.
func (q *Queries) ListDescendantFolderIDs(ctx context.Context, folderID int64) ([]int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1

			UNION ALL

			SELECT f.id
			FROM folders f
			JOIN subtree st ON f.parent_id = st.id
		)
		SELECT id FROM subtree
	`
	rows, err := q.db.Query(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (q *Queries) DeleteFoldersByIDs(ctx context.Context, ids []int64) error {
	query := `DELETE FROM folders WHERE id = ANY($1)`
	_, err := q.db.Exec(ctx, query, ids)
	return err
}

func (q *Queries) SetFolderFeatured(ctx context.Context, folderID int64, featured bool) (bool, error) {
	res, err := q.db.Exec(ctx, `UPDATE folders SET is_featured = $1 WHERE id = $2 AND is_public`, featured, folderID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) SetFolderShareToken(ctx context.Context, folderID int64, token string) error {
	_, err := q.db.Exec(ctx, `UPDATE folders SET share_token = $1 WHERE id = $2`, token, folderID)
	return err
}

func (q *Queries) ClearFolderShareToken(ctx context.Context, folderID int64) error {
	_, err := q.db.Exec(ctx, `UPDATE folders SET share_token = NULL WHERE id = $1`, folderID)
	return err
}

func (q *Queries) IncrementFolderViewCount(ctx context.Context, folderID int64) error {
	query := `UPDATE folders SET view_count = view_count + 1 WHERE id = $1`
	_, err := q.db.Exec(ctx, query, folderID)
	return err
}

func (q *Queries) ListPopularFolders(ctx context.Context, limit int) ([]models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE is_public
		ORDER BY view_count DESC
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) ListFeaturedFolders(ctx context.Context, limit int) ([]models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE is_public AND is_featured
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) ListPublicFolders(ctx context.Context, categoryID *int64, limit int, offset int) ([]models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE is_public AND ($1::bigint IS NULL OR category_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}
