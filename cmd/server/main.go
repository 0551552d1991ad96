// @title           Study Vault API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/Arnav55278/study-vault/internal/api"
	"github.com/Arnav55278/study-vault/internal/config"
	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/storage"
	"github.com/Arnav55278/study-vault/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Cannot connect to the database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Cannot ping the database: %v", err)
	}
	log.Println("Connected to the database")

	uploads, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Cannot initialize upload storage: %v", err)
	}
	log.Printf("Uploads will be stored in: %s", cfg.Storage.Path)

	avatars, err := storage.NewLocalStorage(cfg.Storage.AvatarPath)
	if err != nil {
		log.Fatalf("Cannot initialize avatar storage: %v", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool, wsHub)

	if err := store.SeedDefaultCategories(context.Background()); err != nil {
		log.Fatalf("Cannot seed categories: %v", err)
	}

	server := api.NewServer(cfg, store, uploads, avatars, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", server.RegisterHandler)
		r.Post("/auth/login", server.LoginHandler)
		r.Post("/auth/refresh", server.RefreshTokenHandler)
		r.Post("/auth/logout", server.LogoutHandler)
		r.Post("/auth/forgot-password", server.ForgotPasswordHandler)
		r.Post("/auth/reset-password", server.ResetPasswordHandler)

		// Public surface. Optional auth lets the access check recognize
		// owners browsing their own private folders.
		r.Group(func(r chi.Router) {
			r.Use(server.OptionalAuthMiddleware)

			r.Get("/catalog/home", server.HomeHandler)
			r.Get("/catalog/folders", server.ExploreFoldersHandler)
			r.Get("/catalog/categories", server.ListCategoriesHandler)
			r.Get("/catalog/stats", server.PlatformStatsHandler)
			r.Get("/catalog/leaderboard", server.LeaderboardHandler)
			r.Get("/catalog/tags", server.PopularTagsHandler)
			r.Get("/catalog/tags/{slug}", server.FilesByTagHandler)

			r.Get("/search", server.SearchHandler)
			r.Get("/search/suggestions", server.SearchSuggestionsHandler)

			r.Get("/folders/{folderId}", server.GetFolderHandler)
			r.Post("/folders/{folderId}/unlock", server.UnlockFolderHandler)

			r.Get("/files/{fileId}", server.GetFileHandler)
			r.Get("/files/{fileId}/download", server.DownloadFileHandler)
			r.Get("/files/{fileId}/preview", server.PreviewFileHandler)

			r.Get("/shared/folders/{token}", server.GetSharedFolderHandler)
			r.Get("/shared/files/{token}", server.GetSharedFileHandler)

			r.Get("/users/{username}", server.GetPublicProfileHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(server.AuthMiddleware)

			r.Get("/me", server.GetCurrentUserHandler)
			r.Put("/me", server.UpdateProfileHandler)
			r.Post("/me/avatar", server.UploadAvatarHandler)
			r.Get("/me/downloads", server.GetDownloadHistoryHandler)
			r.Get("/me/files", server.ListOwnFilesHandler)
			r.Get("/me/folders", server.ListOwnFoldersHandler)
			r.Get("/me/folders/tree", server.GetFolderTreeHandler)

			r.Put("/auth/password", server.ChangePasswordHandler)
			r.Get("/sessions", server.ListSessionsHandler)
			r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
			r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)

			r.Post("/folders", server.CreateFolderHandler)
			r.Put("/folders/{folderId}", server.UpdateFolderHandler)
			r.Delete("/folders/{folderId}", server.DeleteFolderHandler)
			r.Post("/folders/{folderId}/share", server.ShareFolderHandler)
			r.Delete("/folders/{folderId}/share", server.RevokeFolderShareHandler)

			r.Post("/files", server.UploadFileHandler)
			r.Put("/files/{fileId}", server.UpdateFileHandler)
			r.Delete("/files/{fileId}", server.DeleteFileHandler)
			r.Post("/files/{fileId}/share", server.ShareFileHandler)

			r.Post("/files/{fileId}/comments", server.CreateCommentHandler)
			r.Put("/comments/{commentId}", server.UpdateCommentHandler)
			r.Delete("/comments/{commentId}", server.DeleteCommentHandler)

			r.Put("/files/{fileId}/rating", server.RateFileHandler)
			r.Delete("/files/{fileId}/rating", server.DeleteRatingHandler)

			r.Get("/favourites", server.ListFavouritesHandler)
			r.Post("/favourites/toggle", server.ToggleFavouriteHandler)

			r.Get("/notifications", server.ListNotificationsHandler)
			r.Post("/notifications/{notificationId}/read", server.MarkNotificationReadHandler)
			r.Post("/notifications/read_all", server.MarkAllNotificationsReadHandler)
			r.Delete("/notifications/{notificationId}", server.DeleteNotificationHandler)

			r.Post("/reports", server.CreateReportHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(server.AdminMiddleware)

				r.Get("/users", server.AdminListUsersHandler)
				r.Put("/users/{userId}", server.AdminUpdateUserHandler)
				r.Get("/reports", server.AdminListReportsHandler)
				r.Put("/reports/{reportId}", server.AdminResolveReportHandler)
				r.Put("/folders/{folderId}/feature", server.AdminFeatureFolderHandler)
				r.Post("/announcements", server.AdminCreateAnnouncementHandler)
				r.Delete("/announcements/{announcementId}", server.AdminDeactivateAnnouncementHandler)
				r.Get("/activity", server.AdminRecentActivityHandler)
			})
		})
	})

	log.Println("Starting server on :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Cannot start server: %v", err)
	}
}
