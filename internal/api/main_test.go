package api

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"

	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/config"
	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/models"
	"github.com/Arnav55278/study-vault/internal/storage"
	"github.com/Arnav55278/study-vault/internal/websocket"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testServer *Server
var testUserToken string
var testUserClaims *auth.AppClaims

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	uploadsDir, err := os.MkdirTemp("", "api-uploads-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(uploadsDir)

	avatarsDir, err := os.MkdirTemp("", "api-avatars-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(avatarsDir)

	uploads, err := storage.NewLocalStorage(uploadsDir)
	if err != nil {
		log.Fatalf("Could not create upload storage: %s", err)
	}
	avatars, err := storage.NewLocalStorage(avatarsDir)
	if err != nil {
		log.Fatalf("Could not create avatar storage: %s", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	store := database.NewStore(pool, wsHub)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "api_test_secret"},
		Session: config.SessionConfig{Secret: "api_test_session_secret"},
	}
	testServer = NewServer(cfg, store, uploads, avatars, wsHub)

	testUser := seedUser(ctx, store)
	testUserToken, err = auth.GenerateJWT(testUser, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not generate token: %s", err)
	}

	testUserClaims, err = auth.VerifyJWT(testUserToken, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not verify token: %s", err)
	}

	os.Exit(m.Run())
}

var apiUserSeq int64

func seedUser(ctx context.Context, store *database.Store) *models.User {
	hashedPassword, _ := auth.HashPassword("password")
	n := atomic.AddInt64(&apiUserSeq, 1)
	username := fmt.Sprintf("api_user_%d_%d", os.Getpid(), n)
	user, err := store.CreateUser(ctx, database.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashedPassword,
	})
	if err != nil {
		log.Fatalf("Could not seed user: %s", err)
	}
	return user
}

func createOtherUser(t *testing.T) *auth.AppClaims {
	t.Helper()
	user := seedUser(context.Background(), testServer.store)
	return &auth.AppClaims{UserID: user.ID, Username: user.Username}
}

func createTestFolderAPI(t *testing.T, ownerID int64, name string, parentID *int64, isPublic bool, passwordHash *string) *models.Folder {
	t.Helper()
	slug := slugify(name)
	folder, err := testServer.store.CreateFolder(context.Background(), database.CreateFolderParams{
		Name:         name,
		Slug:         &slug,
		ParentID:     parentID,
		OwnerID:      ownerID,
		IsPublic:     isPublic,
		PasswordHash: passwordHash,
	})
	require.NoError(t, err)
	return folder
}

func createTestFileAPI(t *testing.T, folderID, uploaderID int64, name string, content []byte) *models.File {
	t.Helper()
	storedFilename := uuid.New().String() + ".pdf"
	if content != nil {
		_, err := testServer.uploads.Save(storedFilename, bytes.NewReader(content))
		require.NoError(t, err)
	}
	file, err := testServer.store.CreateFile(context.Background(), database.CreateFileParams{
		Filename:       name,
		StoredFilename: storedFilename,
		FileType:       fileTypeFromName(name),
		FolderID:       folderID,
		UploadedBy:     uploaderID,
		SizeBytes:      int64(len(content)),
	})
	require.NoError(t, err)
	return file
}
