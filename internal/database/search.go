package database

import (
	"context"

	"github.com/Arnav55278/study-vault/internal/models"
)

type SearchFoldersParams struct {
	Query       string
	RequesterID *int64
	CategoryID  *int64
	Subject     *string
	ClassLevel  *string
	Sort        string
	Limit       int
	Offset      int
}

// SearchFolders matches public folders by name or description. A logged-in
// requester also matches their own private folders. Sort accepts "popular",
// "name" or defaults to newest first.
func (q *Queries) SearchFolders(ctx context.Context, arg SearchFoldersParams) ([]models.Folder, error) {
	orderBy := "created_at DESC"
	switch arg.Sort {
	case "oldest":
		orderBy = "created_at ASC"
	case "popular":
		orderBy = "view_count DESC"
	case "name":
		orderBy = "name ASC"
	}

	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE (is_public OR owner_id = $2)
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		  AND ($3::bigint IS NULL OR category_id = $3)
		  AND ($4::varchar IS NULL OR subject = $4)
		  AND ($5::varchar IS NULL OR class_level = $5)
		ORDER BY ` + orderBy + `
		LIMIT $6 OFFSET $7
	`
	rows, err := q.db.Query(ctx, query,
		arg.Query, arg.RequesterID, arg.CategoryID, arg.Subject, arg.ClassLevel,
		arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

type SearchFilesParams struct {
	Query       string
	RequesterID *int64
	FileType    *string
	Sort        string
	Limit       int
	Offset      int
}

// SearchFiles matches files in public folders by name or description, plus
// files in the requester's own folders.
func (q *Queries) SearchFiles(ctx context.Context, arg SearchFilesParams) ([]models.File, error) {
	orderBy := "f.uploaded_at DESC"
	switch arg.Sort {
	case "oldest":
		orderBy = "f.uploaded_at ASC"
	case "popular":
		orderBy = "f.download_count DESC"
	case "name":
		orderBy = "f.filename ASC"
	}

	query := `
		SELECT ` + fileColumnsPrefixed + `
		FROM files f
		JOIN folders d ON d.id = f.folder_id
		WHERE (d.is_public OR d.owner_id = $2)
		  AND (f.filename ILIKE '%' || $1 || '%' OR f.description ILIKE '%' || $1 || '%')
		  AND ($3::varchar IS NULL OR f.file_type = $3)
		ORDER BY ` + orderBy + `
		LIMIT $4 OFFSET $5
	`
	rows, err := q.db.Query(ctx, query, arg.Query, arg.RequesterID, arg.FileType, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// SearchSuggestions returns a short mixed list of folder and file names for
// the search box typeahead.
func (q *Queries) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	query := `
		SELECT name FROM (
			SELECT name, view_count AS weight
			FROM folders
			WHERE is_public AND name ILIKE $1 || '%'

			UNION ALL

			SELECT f.filename, f.view_count
			FROM files f
			JOIN folders d ON d.id = f.folder_id
			WHERE d.is_public AND f.filename ILIKE $1 || '%'
		) candidates
		ORDER BY weight DESC
		LIMIT $2
	`
	rows, err := q.db.Query(ctx, query, prefix, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, name)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if suggestions == nil {
		return []string{}, nil
	}

	return suggestions, nil
}
