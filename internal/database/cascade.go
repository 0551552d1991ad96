package database

import (
	"context"
	"fmt"

	"github.com/Arnav55278/study-vault/internal/models"
)

// FolderSubtree is the full contents of a folder and its descendants, as
// collected ahead of a cascade delete. FolderIDs always contains the root.
// RootName survives in the activity log after the rows are gone.
type FolderSubtree struct {
	FolderIDs []int64
	RootName  string
	Files     []models.File
}

// CollectFolderSubtree gathers everything a cascade delete will touch. The
// caller removes the stored artifacts for Files first, then runs
// DeleteFolderTree; a crash in between leaves rows pointing at missing
// artifacts, which the download path tolerates.
func (s *Store) CollectFolderSubtree(ctx context.Context, folderID int64) (*FolderSubtree, error) {
	root, err := s.GetFolderByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrFolderNotFound
	}

	folderIDs, err := s.ListDescendantFolderIDs(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if len(folderIDs) == 0 {
		return nil, ErrFolderNotFound
	}

	files, err := s.ListFilesInFolders(ctx, folderIDs)
	if err != nil {
		return nil, err
	}

	return &FolderSubtree{FolderIDs: folderIDs, RootName: root.Name, Files: files}, nil
}

// DeleteFolderTree removes the subtree's rows in one transaction: engagement
// rows first, then files, then the folders themselves. Deleting the folder
// set in a single statement keeps the parent_id checks happy regardless of
// traversal order. file_tags rows go away with their files via the schema.
func (s *Store) DeleteFolderTree(ctx context.Context, subtree *FolderSubtree, deletedBy *int64) error {
	fileIDs := make([]int64, len(subtree.Files))
	for i, f := range subtree.Files {
		fileIDs[i] = f.ID
	}

	return s.ExecTx(ctx, func(q *Queries) error {
		if len(fileIDs) > 0 {
			if err := q.DeleteFavouritesForFiles(ctx, fileIDs); err != nil {
				return err
			}
			if err := q.DeleteCommentsForFiles(ctx, fileIDs); err != nil {
				return err
			}
			if err := q.DeleteRatingsForFiles(ctx, fileIDs); err != nil {
				return err
			}
			if err := q.DeleteDownloadHistoryForFiles(ctx, fileIDs); err != nil {
				return err
			}
			if err := q.DeleteFilesByIDs(ctx, fileIDs); err != nil {
				return err
			}
		}

		if err := q.DeleteFavouritesForFolders(ctx, subtree.FolderIDs); err != nil {
			return err
		}
		if err := q.DeleteFoldersByIDs(ctx, subtree.FolderIDs); err != nil {
			return err
		}

		rootID := subtree.FolderIDs[0]
		description := fmt.Sprintf("Deleted folder: %s", subtree.RootName)
		return q.LogActivity(ctx, LogActivityParams{
			UserID:      deletedBy,
			Action:      "folder_deleted",
			Description: &description,
			FolderID:    &rootID,
		})
	})
}

// DeleteFileDeep removes a single file's row together with its engagement
// rows. Artifact removal is the caller's job, before this runs.
func (s *Store) DeleteFileDeep(ctx context.Context, file *models.File, deletedBy *int64) error {
	ids := []int64{file.ID}
	return s.ExecTx(ctx, func(q *Queries) error {
		if err := q.DeleteFavouritesForFiles(ctx, ids); err != nil {
			return err
		}
		if err := q.DeleteCommentsForFiles(ctx, ids); err != nil {
			return err
		}
		if err := q.DeleteRatingsForFiles(ctx, ids); err != nil {
			return err
		}
		if err := q.DeleteDownloadHistoryForFiles(ctx, ids); err != nil {
			return err
		}
		if err := q.DeleteFilesByIDs(ctx, ids); err != nil {
			return err
		}
		description := fmt.Sprintf("Deleted file: %s", file.Filename)
		return q.LogActivity(ctx, LogActivityParams{
			UserID:      deletedBy,
			Action:      "file_deleted",
			Description: &description,
			FileID:      &file.ID,
		})
	})
}
