package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Arnav55278/study-vault/internal/database"
)

// @Summary      Search content
// @Description  Searches public folders and files by name and description; logged-in users also match their own private content. Folders can be narrowed by category, subject and class level; files by type. Sort accepts newest (default), popular or name.
// @Tags         search
// @Produce      json
// @Param        q            query  string  true   "Search phrase"
// @Param        category     query  string  false  "Category slug"
// @Param        subject      query  string  false  "Subject"
// @Param        class_level  query  string  false  "Class level"
// @Param        type         query  string  false  "File type"
// @Param        sort         query  string  false  "Sort order"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {string}  string "Missing search phrase"
// @Router       /search [get]
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	phrase := strings.TrimSpace(r.URL.Query().Get("q"))
	if phrase == "" {
		http.Error(w, "Search phrase is required", http.StatusBadRequest)
		return
	}

	limit, offset := parsePagination(r, 20)
	sort := r.URL.Query().Get("sort")

	var requesterID *int64
	if claims := GetUserFromContext(r.Context()); claims != nil {
		requesterID = &claims.UserID
	}

	var categoryID *int64
	if slug := r.URL.Query().Get("category"); slug != "" {
		category, err := s.store.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if category != nil {
			categoryID = &category.ID
		}
	}

	folders, err := s.store.SearchFolders(r.Context(), database.SearchFoldersParams{
		Query:       phrase,
		RequesterID: requesterID,
		CategoryID:  categoryID,
		Subject:     optionalString(r.URL.Query().Get("subject")),
		ClassLevel:  optionalString(r.URL.Query().Get("class_level")),
		Sort:        sort,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	files, err := s.store.SearchFiles(r.Context(), database.SearchFilesParams{
		Query:       phrase,
		RequesterID: requesterID,
		FileType:    optionalString(r.URL.Query().Get("type")),
		Sort:        sort,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"query":   phrase,
		"folders": folders,
		"files":   files,
	})
}

// @Summary      Search suggestions
// @Description  Returns a short list of folder and file names starting with the given prefix, for the search box typeahead.
// @Tags         search
// @Produce      json
// @Param        q  query  string  true  "Prefix"
// @Success      200  {array}   string
// @Router       /search/suggestions [get]
func (s *Server) SearchSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(prefix) < 2 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]string{})
		return
	}

	suggestions, err := s.store.SearchSuggestions(r.Context(), prefix, 8)
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}
