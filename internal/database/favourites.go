package database

import (
	"context"
	"errors"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/jackc/pgx/v5"
)

func (q *Queries) GetFavourite(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (*models.Favourite, error) {
	query := `
		SELECT id, user_id, item_type, item_id, created_at
		FROM favourites
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3
	`
	var f models.Favourite
	err := q.db.QueryRow(ctx, query, userID, itemType, itemID).Scan(
		&f.ID, &f.UserID, &f.ItemType, &f.ItemID, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (q *Queries) AddFavourite(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (*models.Favourite, error) {
	query := `
		INSERT INTO favourites (user_id, item_type, item_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT unique_favourite DO NOTHING
		RETURNING id, user_id, item_type, item_id, created_at
	`
	var f models.Favourite
	err := q.db.QueryRow(ctx, query, userID, itemType, itemID).Scan(
		&f.ID, &f.UserID, &f.ItemType, &f.ItemID, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already favourited; fetch the existing row.
			return q.GetFavourite(ctx, userID, itemType, itemID)
		}
		return nil, err
	}
	return &f, nil
}

func (q *Queries) RemoveFavourite(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (bool, error) {
	query := `DELETE FROM favourites WHERE user_id = $1 AND item_type = $2 AND item_id = $3`
	res, err := q.db.Exec(ctx, query, userID, itemType, itemID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) ListFavouriteFolders(ctx context.Context, userID int64) ([]models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		JOIN favourites fav ON fav.item_type = 'folder' AND fav.item_id = folders.id
		WHERE fav.user_id = $1
		ORDER BY fav.created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) ListFavouriteFiles(ctx context.Context, userID int64) ([]models.File, error) {
	query := `
		SELECT ` + fileColumnsPrefixed + `
		FROM files f
		JOIN favourites fav ON fav.item_type = 'file' AND fav.item_id = f.id
		WHERE fav.user_id = $1
		ORDER BY fav.created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// The favourites table carries no foreign key to its target, so the cascade
// deleter removes the orphaned rows itself.

func (q *Queries) DeleteFavouritesForFolders(ctx context.Context, folderIDs []int64) error {
	query := `DELETE FROM favourites WHERE item_type = 'folder' AND item_id = ANY($1)`
	_, err := q.db.Exec(ctx, query, folderIDs)
	return err
}

func (q *Queries) DeleteFavouritesForFiles(ctx context.Context, fileIDs []int64) error {
	query := `DELETE FROM favourites WHERE item_type = 'file' AND item_id = ANY($1)`
	_, err := q.db.Exec(ctx, query, fileIDs)
	return err
}
