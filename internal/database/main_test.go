package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/Arnav55278/study-vault/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStore *Store

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("failed to terminate postgres container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("failed to connect to test database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("failed to read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("failed to apply schema: %s", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	testStore = NewStore(pool, hub)

	os.Exit(m.Run())
}

var testUserSeq int

func createTestUser(t *testing.T) int64 {
	t.Helper()
	testUserSeq++
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     fmt.Sprintf("tester_%d_%d", os.Getpid(), testUserSeq),
		Email:        fmt.Sprintf("tester_%d_%d@example.com", os.Getpid(), testUserSeq),
		PasswordHash: "not-a-real-hash",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %s", err)
	}
	return user.ID
}

func createTestFolder(t *testing.T, ownerID int64, name string, parentID *int64) int64 {
	t.Helper()
	folder, err := testStore.CreateFolder(context.Background(), CreateFolderParams{
		Name:     name,
		ParentID: parentID,
		OwnerID:  ownerID,
		IsPublic: true,
	})
	if err != nil {
		t.Fatalf("failed to create test folder: %s", err)
	}
	return folder.ID
}

func createTestFile(t *testing.T, folderID, uploaderID int64, name string) int64 {
	t.Helper()
	testUserSeq++
	file, err := testStore.CreateFile(context.Background(), CreateFileParams{
		Filename:       name,
		StoredFilename: fmt.Sprintf("stored_%d_%d_%s", os.Getpid(), testUserSeq, name),
		FileType:       "pdf",
		FolderID:       folderID,
		UploadedBy:     uploaderID,
		SizeBytes:      1234,
	})
	if err != nil {
		t.Fatalf("failed to create test file: %s", err)
	}
	return file.ID
}
