package api

import (
	"encoding/json"
	"net/http"

	"github.com/Arnav55278/study-vault/internal/models"
)

type ToggleFavouriteRequest struct {
	ItemType models.ItemType `json:"item_type" example:"file"`
	ItemID   int64           `json:"item_id" example:"7"`
}

type ToggleFavouriteResponse struct {
	Favourited bool `json:"favourited"`
}

// @Summary      Toggle a favourite
// @Description  Adds the file or folder to the user's favourites, or removes it if it already is one.
// @Tags         favourites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        toggleFavouriteRequest  body  ToggleFavouriteRequest  true  "Target item"
// @Success      200  {object}  ToggleFavouriteResponse
// @Failure      400  {string}  string "Unknown item type"
// @Failure      404  {string}  string "Item not found"
// @Router       /favourites/toggle [post]
func (s *Server) ToggleFavouriteHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req ToggleFavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.ItemType {
	case models.ItemTypeFile:
		file, err := s.store.GetFileByID(r.Context(), req.ItemID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if file == nil {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
	case models.ItemTypeFolder:
		folder, err := s.store.GetFolderByID(r.Context(), req.ItemID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if folder == nil {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
	default:
		http.Error(w, "Unknown item type", http.StatusBadRequest)
		return
	}

	existing, err := s.store.GetFavourite(r.Context(), claims.UserID, req.ItemType, req.ItemID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if existing != nil {
		if _, err := s.store.RemoveFavourite(r.Context(), claims.UserID, req.ItemType, req.ItemID); err != nil {
			http.Error(w, "Failed to remove favourite", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ToggleFavouriteResponse{Favourited: false})
		return
	}

	if _, err := s.store.AddFavourite(r.Context(), claims.UserID, req.ItemType, req.ItemID); err != nil {
		http.Error(w, "Failed to add favourite", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToggleFavouriteResponse{Favourited: true})
}

// @Summary      List favourites
// @Description  Returns the user's favourite folders and files.
// @Tags         favourites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /favourites [get]
func (s *Server) ListFavouritesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	favouriteFolders, err := s.store.ListFavouriteFolders(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list favourites", http.StatusInternalServerError)
		return
	}

	favouriteFiles, err := s.store.ListFavouriteFiles(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list favourites", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"folders": favouriteFolders,
		"files":   favouriteFiles,
	})
}
