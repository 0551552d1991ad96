package api

import (
	"net/http"

	"github.com/Arnav55278/study-vault/internal/config"
	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/storage"
	"github.com/Arnav55278/study-vault/internal/websocket"

	"github.com/gorilla/sessions"
	"github.com/microcosm-cc/bluemonday"
)

type Server struct {
	config    *config.Config
	store     *database.Store
	uploads   *storage.LocalStorage
	avatars   *storage.LocalStorage
	wsHub     *websocket.Hub
	cookies   *sessions.CookieStore
	sanitizer *bluemonday.Policy
}

func NewServer(cfg *config.Config, store *database.Store, uploads, avatars *storage.LocalStorage, wsHub *websocket.Hub) *Server {
	cookies := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		config:    cfg,
		store:     store,
		uploads:   uploads,
		avatars:   avatars,
		wsHub:     wsHub,
		cookies:   cookies,
		sanitizer: bluemonday.UGCPolicy(),
	}
}
