package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, slug, description, icon, color, parent_id`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.ParentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (q *Queries) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if categories == nil {
		return []models.Category{}, nil
	}

	return categories, nil
}

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	return scanCategory(q.db.QueryRow(ctx, query, slug))
}

type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description *string
	Icon        string
	Color       string
	ParentID    *int64
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, slug, description, icon, color, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + categoryColumns

	return scanCategory(q.db.QueryRow(ctx, query,
		arg.Name, arg.Slug, arg.Description, arg.Icon, arg.Color, arg.ParentID,
	))
}

// SeedDefaultCategories inserts the built-in subject categories. Startup runs
// it every time; the slug conflict keeps it idempotent.
func (q *Queries) SeedDefaultCategories(ctx context.Context) error {
	defaults := []CreateCategoryParams{
		{Name: "Mathematics", Slug: "mathematics", Icon: "bi-calculator", Color: "primary"},
		{Name: "Physics", Slug: "physics", Icon: "bi-lightning", Color: "warning"},
		{Name: "Chemistry", Slug: "chemistry", Icon: "bi-droplet", Color: "success"},
		{Name: "Biology", Slug: "biology", Icon: "bi-tree", Color: "success"},
		{Name: "Computer Science", Slug: "computer-science", Icon: "bi-cpu", Color: "info"},
		{Name: "Languages", Slug: "languages", Icon: "bi-translate", Color: "secondary"},
		{Name: "History", Slug: "history", Icon: "bi-hourglass", Color: "danger"},
		{Name: "Other", Slug: "other", Icon: "bi-folder", Color: "secondary"},
	}
	for _, c := range defaults {
		if _, err := q.CreateCategory(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

const announcementColumns = `
	id, title, content, announcement_type, is_active, is_pinned, created_at, expires_at
`

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.AnnouncementType,
		&a.IsActive, &a.IsPinned, &a.CreatedAt, &a.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (q *Queries) ListActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements
		WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY is_pinned DESC, created_at DESC
	`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if announcements == nil {
		return []models.Announcement{}, nil
	}

	return announcements, nil
}

type CreateAnnouncementParams struct {
	Title     string
	Content   string
	Type      string
	IsPinned  bool
	ExpiresAt *string
}

func (q *Queries) CreateAnnouncement(ctx context.Context, arg CreateAnnouncementParams) (*models.Announcement, error) {
	if arg.Type == "" {
		arg.Type = "info"
	}
	query := `
		INSERT INTO announcements (title, content, announcement_type, is_pinned, expires_at)
		VALUES ($1, $2, $3, $4, $5::timestamptz)
		RETURNING ` + announcementColumns

	return scanAnnouncement(q.db.QueryRow(ctx, query,
		arg.Title, arg.Content, arg.Type, arg.IsPinned, arg.ExpiresAt,
	))
}

func (q *Queries) DeactivateAnnouncement(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.Exec(ctx, `UPDATE announcements SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

type PlatformStats struct {
	Users          int64 `json:"users"`
	Folders        int64 `json:"folders"`
	PublicFolders  int64 `json:"public_folders"`
	Files          int64 `json:"files"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
	Downloads      int64 `json:"downloads"`
	Comments       int64 `json:"comments"`
}

func (q *Queries) GetPlatformStats(ctx context.Context) (PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM folders),
			(SELECT COUNT(*) FROM folders WHERE is_public),
			(SELECT COUNT(*) FROM files),
			(SELECT COALESCE(SUM(size_bytes), 0) FROM files),
			(SELECT COALESCE(SUM(download_count), 0) FROM files),
			(SELECT COUNT(*) FROM comments)
	`
	var s PlatformStats
	err := q.db.QueryRow(ctx, query).Scan(
		&s.Users, &s.Folders, &s.PublicFolders, &s.Files,
		&s.TotalSizeBytes, &s.Downloads, &s.Comments,
	)
	return s, err
}

type LeaderboardEntry struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	Uploads   int64  `json:"uploads"`
	Downloads int64  `json:"downloads"`
}

// GetLeaderboard ranks uploaders by how often their public files were
// downloaded, uploads breaking ties.
func (q *Queries) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.username, u.avatar,
		       COUNT(f.id) AS uploads,
		       COALESCE(SUM(f.download_count), 0) AS downloads
		FROM users u
		JOIN files f ON f.uploaded_by = u.id
		JOIN folders d ON d.id = f.folder_id
		WHERE u.is_active AND d.is_public
		GROUP BY u.id
		ORDER BY downloads DESC, uploads DESC
		LIMIT $1
	`
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Avatar, &e.Uploads, &e.Downloads); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		return []LeaderboardEntry{}, nil
	}

	return entries, nil
}
