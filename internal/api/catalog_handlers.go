package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// @Summary      Landing page data
// @Description  Returns the featured and popular public folders, the freshest uploads and any active announcements.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /catalog/home [get]
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	featured, err := s.store.ListFeaturedFolders(r.Context(), 6)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	popular, err := s.store.ListPopularFolders(r.Context(), 8)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recent, err := s.store.ListRecentPublicFiles(r.Context(), 10)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	announcements, err := s.store.ListActiveAnnouncements(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"featured":      featured,
		"popular":       popular,
		"recent_files":  recent,
		"announcements": announcements,
	})
}

// @Summary      Browse public folders
// @Description  Pages through public folders, optionally restricted to one category.
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "Category slug"
// @Param        page      query  int     false  "Page number"
// @Success      200  {array}   models.Folder
// @Failure      404  {string}  string "Category not found"
// @Router       /catalog/folders [get]
func (s *Server) ExploreFoldersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 24)

	var categoryID *int64
	if slug := r.URL.Query().Get("category"); slug != "" {
		category, err := s.store.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if category == nil {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		categoryID = &category.ID
	}

	folders, err := s.store.ListPublicFolders(r.Context(), categoryID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folders)
}

// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /catalog/categories [get]
func (s *Server) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// @Summary      Platform statistics
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  database.PlatformStats
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /catalog/stats [get]
func (s *Server) PlatformStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetPlatformStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// @Summary      Uploader leaderboard
// @Description  Ranks uploaders by downloads of their public files.
// @Tags         catalog
// @Produce      json
// @Param        limit  query  int  false  "Number of entries (max 100)"
// @Success      200  {array}   database.LeaderboardEntry
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /catalog/leaderboard [get]
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	entries, err := s.store.GetLeaderboard(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to compute leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// @Summary      Popular tags
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   database.TagCount
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /catalog/tags [get]
func (s *Server) PopularTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListPopularTags(r.Context(), 30)
	if err != nil {
		http.Error(w, "Failed to list tags", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tags)
}

// @Summary      Files under a tag
// @Tags         catalog
// @Produce      json
// @Param        slug  path  string  true  "Tag slug"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {string}  string "Tag not found"
// @Router       /catalog/tags/{slug} [get]
func (s *Server) FilesByTagHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	limit, offset := parsePagination(r, 24)

	tag, err := s.store.GetTagBySlug(r.Context(), slug)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if tag == nil {
		http.Error(w, "Tag not found", http.StatusNotFound)
		return
	}

	files, err := s.store.ListFilesByTag(r.Context(), tag.ID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tag":   tag,
		"files": files,
	})
}
