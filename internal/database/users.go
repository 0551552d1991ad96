package database

import (
	"context"
	"errors"
	"time"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUser = errors.New("a user with this username or email already exists")

const userColumns = `
	id, username, email, password_hash, full_name, bio, avatar, location,
	website, instagram, twitter, youtube, is_active, is_admin, is_verified,
	created_at, last_login
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Bio,
		&user.Avatar,
		&user.Location,
		&user.Website,
		&user.Instagram,
		&user.Twitter,
		&user.YouTube,
		&user.IsActive,
		&user.IsAdmin,
		&user.IsVerified,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query, arg.Username, arg.Email, arg.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(q.db.QueryRow(ctx, query, username))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

type UpdateProfileParams struct {
	UserID    int64
	FullName  *string
	Bio       *string
	Location  *string
	Website   *string
	Instagram *string
	Twitter   *string
	YouTube   *string
}

func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) error {
	query := `
		UPDATE users
		SET full_name = $1, bio = $2, location = $3, website = $4,
		    instagram = $5, twitter = $6, youtube = $7
		WHERE id = $8
	`
	_, err := q.db.Exec(ctx, query,
		arg.FullName, arg.Bio, arg.Location, arg.Website,
		arg.Instagram, arg.Twitter, arg.YouTube, arg.UserID,
	)
	return err
}

func (q *Queries) UpdateUserAvatar(ctx context.Context, userID int64, avatar string) error {
	query := `UPDATE users SET avatar = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, avatar, userID)
	return err
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}

func (q *Queries) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	query := `UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE id = $3`
	_, err := q.db.Exec(ctx, query, token, expiry, userID)
	return err
}

func (q *Queries) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_token_expiry > NOW()
	`
	return scanUser(q.db.QueryRow(ctx, query, token))
}

func (q *Queries) ClearResetToken(ctx context.Context, userID int64) error {
	query := `UPDATE users SET reset_token = NULL, reset_token_expiry = NULL WHERE id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

type UserAggregates struct {
	TotalUploads     int64 `json:"total_uploads"`
	TotalDownloads   int64 `json:"total_downloads"`
	StorageUsedBytes int64 `json:"storage_used_bytes"`
	TotalFolders     int64 `json:"total_folders"`
}

func (q *Queries) GetUserAggregates(ctx context.Context, userID int64) (*UserAggregates, error) {
	query := `
		SELECT
			(SELECT count(*) FROM files WHERE uploaded_by = $1),
			COALESCE((SELECT sum(download_count) FROM files WHERE uploaded_by = $1), 0),
			COALESCE((SELECT sum(size_bytes) FROM files WHERE uploaded_by = $1), 0),
			(SELECT count(*) FROM folders WHERE owner_id = $1)
	`
	var agg UserAggregates
	err := q.db.QueryRow(ctx, query, userID).Scan(
		&agg.TotalUploads,
		&agg.TotalDownloads,
		&agg.StorageUsedBytes,
		&agg.TotalFolders,
	)
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (q *Queries) ListUsers(ctx context.Context, search string, limit int, offset int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []models.User{}, nil
	}

	return users, nil
}

type UpdateUserAdminParams struct {
	UserID     int64
	Username   string
	Email      string
	FullName   *string
	IsActive   bool
	IsAdmin    bool
	IsVerified bool
}

func (q *Queries) UpdateUserAdmin(ctx context.Context, arg UpdateUserAdminParams) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, full_name = $3,
		    is_active = $4, is_admin = $5, is_verified = $6
		WHERE id = $7
	`
	_, err := q.db.Exec(ctx, query,
		arg.Username, arg.Email, arg.FullName,
		arg.IsActive, arg.IsAdmin, arg.IsVerified, arg.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (q *Queries) DeleteUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

type CreateSessionParams struct {
	ID           uuid.UUID
	UserID       int64
	RefreshToken string
	UserAgent    string
	ClientIP     string
	ExpiresAt    time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.RefreshToken, arg.UserAgent, arg.ClientIP, arg.ExpiresAt)
	return err
}

func (q *Queries) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.full_name, u.bio,
		       u.avatar, u.location, u.website, u.instagram, u.twitter,
		       u.youtube, u.is_active, u.is_admin, u.is_verified, u.created_at,
		       u.last_login
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.refresh_token = $1 AND s.expires_at > NOW()
	`
	return scanUser(q.db.QueryRow(ctx, query, refreshToken))
}

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserAgent,
			&session.ClientIP,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		return []models.Session{}, nil
	}

	return sessions, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, sessionID, userID)
	return err
}

func (q *Queries) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error {
	query := `DELETE FROM sessions WHERE refresh_token = $1`
	_, err := q.db.Exec(ctx, query, refreshToken)
	return err
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}
