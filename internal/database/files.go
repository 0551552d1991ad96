package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrFileNotFound = errors.New("file not found")

const fileColumns = `
	id, filename, stored_filename, file_type, mime_type, description,
	folder_id, uploaded_by, size_bytes, download_count, view_count,
	share_token, uploaded_at, updated_at
`

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.StoredFilename,
		&f.FileType,
		&f.MimeType,
		&f.Description,
		&f.FolderID,
		&f.UploadedBy,
		&f.SizeBytes,
		&f.DownloadCount,
		&f.ViewCount,
		&f.ShareToken,
		&f.UploadedAt,
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

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if files == nil {
		return []models.File{}, nil
	}

	return files, nil
}

type CreateFileParams struct {
	Filename       string
	StoredFilename string
	FileType       string
	MimeType       *string
	Description    *string
	FolderID       int64
	UploadedBy     int64
	SizeBytes      int64
	ShareToken     *string
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (*models.File, error) {
	query := `
		INSERT INTO files (filename, stored_filename, file_type, mime_type,
		                   description, folder_id, uploaded_by, size_bytes,
		                   share_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fileColumns

	file, err := scanFile(q.db.QueryRow(ctx, query,
		arg.Filename, arg.StoredFilename, arg.FileType, arg.MimeType,
		arg.Description, arg.FolderID, arg.UploadedBy, arg.SizeBytes,
		arg.ShareToken,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return file, nil
}

func (q *Queries) GetFileByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetFileByShareToken(ctx context.Context, token string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE share_token = $1`
	return scanFile(q.db.QueryRow(ctx, query, token))
}

func (q *Queries) ListFilesInFolder(ctx context.Context, folderID int64) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1 ORDER BY id`
	rows, err := q.db.Query(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// ListFilesInFolders fetches every file contained in the given folders. The
// cascade deleter uses the result both to remove the stored artifacts and to
// delete the rows.
func (q *Queries) ListFilesInFolders(ctx context.Context, folderIDs []int64) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = ANY($1)`
	rows, err := q.db.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

func (q *Queries) ListFilesByUploader(ctx context.Context, userID int64, limit int, offset int) ([]models.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uploaded_by = $1
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

type UpdateFileParams struct {
	ID          int64
	Filename    string
	Description *string
}

func (q *Queries) UpdateFile(ctx context.Context, arg UpdateFileParams) (bool, error) {
	query := `
		UPDATE files
		SET filename = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`
	res, err := q.db.Exec(ctx, query, arg.Filename, arg.Description, arg.ID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteFile(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteFilesByIDs(ctx context.Context, ids []int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM files WHERE id = ANY($1)`, ids)
	return err
}

func (q *Queries) SetFileShareToken(ctx context.Context, fileID int64, token string) error {
	_, err := q.db.Exec(ctx, `UPDATE files SET share_token = $1 WHERE id = $2`, token, fileID)
	return err
}

func (q *Queries) ClearFileShareToken(ctx context.Context, fileID int64) error {
	_, err := q.db.Exec(ctx, `UPDATE files SET share_token = NULL WHERE id = $1`, fileID)
	return err
}

func (q *Queries) IncrementFileViewCount(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE files SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) IncrementFileDownloadCount(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE files SET download_count = download_count + 1 WHERE id = $1`, id)
	return err
}

// ListRecentPublicFiles feeds the landing page. Only files sitting in public
// folders are visible there.
func (q *Queries) ListRecentPublicFiles(ctx context.Context, limit int) ([]models.File, error) {
	query := `
		SELECT ` + fileColumnsPrefixed + `
		FROM files f
		JOIN folders d ON d.id = f.folder_id
		WHERE d.is_public
		ORDER BY f.uploaded_at DESC
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

func (q *Queries) ListTopDownloadedFiles(ctx context.Context, limit int) ([]models.File, error) {
	query := `
		SELECT ` + fileColumnsPrefixed + `
		FROM files f
		JOIN folders d ON d.id = f.folder_id
		WHERE d.is_public
		ORDER BY f.download_count DESC
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

const fileColumnsPrefixed = `
	f.id, f.filename, f.stored_filename, f.file_type, f.mime_type, f.description,
	f.folder_id, f.uploaded_by, f.size_bytes, f.download_count, f.view_count,
	f.share_token, f.uploaded_at, f.updated_at
`
