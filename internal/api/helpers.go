package api

import (
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/folders"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

func urlParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func parseFormInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.FormValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func parsePagination(r *http.Request, defaultLimit int) (limit int, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}

func requesterFromClaims(claims *auth.AppClaims) *folders.Requester {
	if claims == nil {
		return nil
	}
	return &folders.Requester{UserID: claims.UserID}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// parseTagNames splits a comma-separated tag list, dropping empties and
// duplicates, capped at ten tags per file.
func parseTagNames(raw string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		slug := slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		names = append(names, name)
		if len(names) == 10 {
			break
		}
	}
	return names
}

var fileTypeByExt = map[string]string{
	".pdf":  "pdf",
	".doc":  "document",
	".docx": "document",
	".odt":  "document",
	".txt":  "text",
	".md":   "text",
	".ppt":  "presentation",
	".pptx": "presentation",
	".xls":  "spreadsheet",
	".xlsx": "spreadsheet",
	".csv":  "spreadsheet",
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".gif":  "image",
	".webp": "image",
	".svg":  "image",
	".mp3":  "audio",
	".wav":  "audio",
	".mp4":  "video",
	".webm": "video",
	".mkv":  "video",
	".zip":  "archive",
	".rar":  "archive",
	".7z":   "archive",
	".tar":  "archive",
	".gz":   "archive",
}

func fileTypeFromName(filename string) string {
	if t, ok := fileTypeByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "other"
}

// previewableTypes can be rendered inline by the browser.
var previewableTypes = map[string]bool{
	"pdf":   true,
	"image": true,
	"text":  true,
	"audio": true,
	"video": true,
}

func newShareToken() (string, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return generateID(), nil
}

func clientIP(r *http.Request) *string {
	// RemoteAddr may arrive without a port (bare IPv6 included).
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		return nil
	}
	return &ip
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
