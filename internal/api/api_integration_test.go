package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func withClaims(r *http.Request, claims *auth.AppClaims) *http.Request {
	if claims == nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), userContextKey, claims))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAPI_CreateFolder_Success(t *testing.T) {
	payload := CreateFolderRequest{Name: "Physics Notes", IsPublic: true}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/folders", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	req = withClaims(req, testUserClaims)
	http.HandlerFunc(testServer.CreateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Folder
	err := json.Unmarshal(rr.Body.Bytes(), &created)
	require.NoError(t, err)
	require.Equal(t, "Physics Notes", created.Name)
	require.Equal(t, testUserClaims.UserID, created.OwnerID)
	require.NotNil(t, created.Slug)
	require.Equal(t, "physics-notes", *created.Slug)
}

func TestAPI_CreateFolder_EmptyName(t *testing.T) {
	payload := CreateFolderRequest{Name: "  "}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/folders", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	req = withClaims(req, testUserClaims)
	http.HandlerFunc(testServer.CreateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_CreateFolder_ForeignParent(t *testing.T) {
	other := createOtherUser(t)
	foreign := createTestFolderAPI(t, other.UserID, "Foreign", nil, true, nil)

	payload := CreateFolderRequest{Name: "Intruder", ParentID: &foreign.ID}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/v1/folders", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	req = withClaims(req, testUserClaims)
	http.HandlerFunc(testServer.CreateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAPI_GetFolder_PrivateIsHidden(t *testing.T) {
	private := createTestFolderAPI(t, testUserClaims.UserID, "Private Stash", nil, false, nil)
	other := createOtherUser(t)

	t.Run("owner sees it", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/folders/%d", private.ID), nil)
		req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", private.ID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var view FolderViewResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		require.True(t, view.IsOwner)
		require.Equal(t, private.ID, view.Folder.ID)
	})

	t.Run("other user gets 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/folders/%d", private.ID), nil)
		req = withURLParam(withClaims(req, other), "folderId", fmt.Sprintf("%d", private.ID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("anonymous gets 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/folders/%d", private.ID), nil)
		req = withURLParam(req, "folderId", fmt.Sprintf("%d", private.ID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAPI_FolderPasswordFlow(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	locked := createTestFolderAPI(t, testUserClaims.UserID, "Locked Notes", nil, true, &hash)
	folderParam := fmt.Sprintf("%d", locked.ID)
	visitor := createOtherUser(t)

	req := httptest.NewRequest("GET", "/api/v1/folders/"+folderParam, nil)
	req = withURLParam(withClaims(req, visitor), "folderId", folderParam)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	var prompt map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &prompt))
	require.Equal(t, true, prompt["password_required"])
	require.Equal(t, "Locked Notes", prompt["name"])

	// Wrong password is rejected.
	body, _ := json.Marshal(UnlockFolderRequest{Password: "guess"})
	req = httptest.NewRequest("POST", "/api/v1/folders/"+folderParam+"/unlock", bytes.NewReader(body))
	req = withURLParam(withClaims(req, visitor), "folderId", folderParam)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.UnlockFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Right password stores the unlock in the cookie session.
	body, _ = json.Marshal(UnlockFolderRequest{Password: "letmein"})
	req = httptest.NewRequest("POST", "/api/v1/folders/"+folderParam+"/unlock", bytes.NewReader(body))
	req = withURLParam(withClaims(req, visitor), "folderId", folderParam)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.UnlockFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	unlockCookies := rr.Result().Cookies()
	require.NotEmpty(t, unlockCookies)

	req = httptest.NewRequest("GET", "/api/v1/folders/"+folderParam, nil)
	for _, c := range unlockCookies {
		req.AddCookie(c)
	}
	req = withURLParam(withClaims(req, visitor), "folderId", folderParam)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// The unlock is scoped to that one folder.
	sibling := createTestFolderAPI(t, testUserClaims.UserID, "Sibling Lock", nil, true, &hash)
	siblingParam := fmt.Sprintf("%d", sibling.ID)
	req = httptest.NewRequest("GET", "/api/v1/folders/"+siblingParam, nil)
	for _, c := range unlockCookies {
		req.AddCookie(c)
	}
	req = withURLParam(withClaims(req, visitor), "folderId", siblingParam)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAPI_GetFolder_OwnerSkipsPrompt(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	locked := createTestFolderAPI(t, testUserClaims.UserID, "Own Locked", nil, true, &hash)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/folders/%d", locked.ID), nil)
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", locked.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAPI_GetFolder_HidesPrivateChildren(t *testing.T) {
	parent := createTestFolderAPI(t, testUserClaims.UserID, "Mixed Parent", nil, true, nil)
	createTestFolderAPI(t, testUserClaims.UserID, "Visible Child", &parent.ID, true, nil)
	createTestFolderAPI(t, testUserClaims.UserID, "Hidden Child", &parent.ID, false, nil)
	visitor := createOtherUser(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/folders/%d", parent.ID), nil)
	req = withURLParam(withClaims(req, visitor), "folderId", fmt.Sprintf("%d", parent.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var view FolderViewResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Len(t, view.Children, 1)
	require.Equal(t, "Visible Child", view.Children[0].Name)
}

func TestAPI_UpdateFolder_CycleGuard(t *testing.T) {
	a := createTestFolderAPI(t, testUserClaims.UserID, "Cycle A", nil, true, nil)
	b := createTestFolderAPI(t, testUserClaims.UserID, "Cycle B", &a.ID, true, nil)

	payload := UpdateFolderRequest{Name: "Cycle A", IsPublic: true, ParentID: &b.ID}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/folders/%d", a.ID), bytes.NewReader(body))
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", a.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UpdateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)

	// Moving onto itself is the degenerate cycle.
	payload = UpdateFolderRequest{Name: "Cycle A", IsPublic: true, ParentID: &a.ID}
	body, _ = json.Marshal(payload)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/folders/%d", a.ID), bytes.NewReader(body))
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", a.ID))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.UpdateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestAPI_UpdateFolder_KeepPassword(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	locked := createTestFolderAPI(t, testUserClaims.UserID, "Keep Lock", nil, true, &hash)

	payload := UpdateFolderRequest{Name: "Keep Lock Renamed", IsPublic: true, KeepPassword: true}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/folders/%d", locked.ID), bytes.NewReader(body))
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", locked.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UpdateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	updated, err := testServer.store.GetFolderByID(context.Background(), locked.ID)
	require.NoError(t, err)
	require.Equal(t, "Keep Lock Renamed", updated.Name)
	require.True(t, updated.HasPassword())

	// Without KeepPassword the gate is cleared.
	payload = UpdateFolderRequest{Name: "Keep Lock Renamed", IsPublic: true}
	body, _ = json.Marshal(payload)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/folders/%d", locked.ID), bytes.NewReader(body))
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", locked.ID))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.UpdateFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	updated, err = testServer.store.GetFolderByID(context.Background(), locked.ID)
	require.NoError(t, err)
	require.False(t, updated.HasPassword())
}

func TestAPI_DeleteFolder_Cascade(t *testing.T) {
	root := createTestFolderAPI(t, testUserClaims.UserID, "Doomed Root", nil, true, nil)
	child := createTestFolderAPI(t, testUserClaims.UserID, "Doomed Child", &root.ID, true, nil)
	file := createTestFileAPI(t, child.ID, testUserClaims.UserID, "doomed.pdf", []byte("doomed content"))

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/folders/%d", root.ID), nil)
	req = withURLParam(withClaims(req, testUserClaims), "folderId", fmt.Sprintf("%d", root.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.DeleteFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	ctx := context.Background()
	gone, err := testServer.store.GetFolderByID(ctx, root.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	gone, err = testServer.store.GetFolderByID(ctx, child.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	goneFile, err := testServer.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	require.Nil(t, goneFile)

	_, err = testServer.uploads.Get(file.StoredFilename)
	require.Error(t, err, "artifact should be gone from storage")
}

func TestAPI_DeleteFolder_NotOwner(t *testing.T) {
	other := createOtherUser(t)

	t.Run("visible folder is forbidden", func(t *testing.T) {
		public := createTestFolderAPI(t, testUserClaims.UserID, "Protected", nil, true, nil)

		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/folders/%d", public.ID), nil)
		req = withURLParam(withClaims(req, other), "folderId", fmt.Sprintf("%d", public.ID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.DeleteFolderHandler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)

		still, err := testServer.store.GetFolderByID(context.Background(), public.ID)
		require.NoError(t, err)
		require.NotNil(t, still)
	})

	t.Run("hidden folder stays a 404", func(t *testing.T) {
		private := createTestFolderAPI(t, testUserClaims.UserID, "Protected Hidden", nil, false, nil)

		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/folders/%d", private.ID), nil)
		req = withURLParam(withClaims(req, other), "folderId", fmt.Sprintf("%d", private.ID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.DeleteFolderHandler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)

		still, err := testServer.store.GetFolderByID(context.Background(), private.ID)
		require.NoError(t, err)
		require.NotNil(t, still)
	})
}

func TestAPI_UpdateFolder_NotOwner(t *testing.T) {
	other := createOtherUser(t)
	public := createTestFolderAPI(t, testUserClaims.UserID, "Readonly Public", nil, true, nil)
	private := createTestFolderAPI(t, testUserClaims.UserID, "Readonly Private", nil, false, nil)

	attempt := func(folderID int64) int {
		payload := UpdateFolderRequest{Name: "Hijacked", IsPublic: true}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/folders/%d", folderID), bytes.NewReader(body))
		req = withURLParam(withClaims(req, other), "folderId", fmt.Sprintf("%d", folderID))
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.UpdateFolderHandler).ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusForbidden, attempt(public.ID))
	require.Equal(t, http.StatusNotFound, attempt(private.ID))

	still, err := testServer.store.GetFolderByID(context.Background(), public.ID)
	require.NoError(t, err)
	require.Equal(t, "Readonly Public", still.Name)
}

func TestAPI_UploadAndDownloadFile(t *testing.T) {
	folder := createTestFolderAPI(t, testUserClaims.UserID, "Upload Target", nil, true, nil)
	content := []byte("chapter one of the study notes")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("folder_id", fmt.Sprintf("%d", folder.ID)))
	require.NoError(t, writer.WriteField("description", "Chapter one"))
	require.NoError(t, writer.WriteField("tags", "physics, mechanics"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withClaims(req, testUserClaims)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UploadFileHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var uploaded models.File
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &uploaded))
	require.Equal(t, "notes.pdf", uploaded.Filename)
	require.Equal(t, "pdf", uploaded.FileType)
	require.Equal(t, int64(len(content)), uploaded.SizeBytes)

	tags, err := testServer.store.ListTagsForFile(context.Background(), uploaded.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/v1/files/%d/download", uploaded.ID), nil)
	req = withURLParam(withClaims(req, testUserClaims), "fileId", fmt.Sprintf("%d", uploaded.ID))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.DownloadFileHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	downloaded, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Equal(t, content, downloaded)

	refreshed, err := testServer.store.GetFileByID(context.Background(), uploaded.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), refreshed.DownloadCount)
}

func TestAPI_UploadFile_DisallowedExtension(t *testing.T) {
	folder := createTestFolderAPI(t, testUserClaims.UserID, "Exe Target", nil, true, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "malware.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("folder_id", fmt.Sprintf("%d", folder.ID)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withClaims(req, testUserClaims)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UploadFileHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_UploadFile_ForeignFolder(t *testing.T) {
	other := createOtherUser(t)
	foreign := createTestFolderAPI(t, other.UserID, "Foreign Upload", nil, true, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "sneaky.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("folder_id", fmt.Sprintf("%d", foreign.ID)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withClaims(req, testUserClaims)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UploadFileHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAPI_GetFile_PrivateFolderHidesFile(t *testing.T) {
	private := createTestFolderAPI(t, testUserClaims.UserID, "Private Files", nil, false, nil)
	file := createTestFileAPI(t, private.ID, testUserClaims.UserID, "secret.pdf", []byte("secret"))
	other := createOtherUser(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/files/%d", file.ID), nil)
	req = withURLParam(withClaims(req, other), "fileId", fmt.Sprintf("%d", file.ID))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetFileHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_SharedFolder_Resolves(t *testing.T) {
	private := createTestFolderAPI(t, testUserClaims.UserID, "Shared Private", nil, false, nil)
	createTestFileAPI(t, private.ID, testUserClaims.UserID, "shared.pdf", []byte("shared"))
	require.NoError(t, testServer.store.SetFolderShareToken(context.Background(), private.ID, "tok_api_shared_plain"))

	// Reachable anonymously through the token even though the folder is
	// private; never by id.
	req := httptest.NewRequest("GET", "/api/v1/shared/folders/tok_api_shared_plain", nil)
	req = withURLParam(req, "token", "tok_api_shared_plain")
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetSharedFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var view FolderViewResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Equal(t, private.ID, view.Folder.ID)
	require.Len(t, view.Files, 1)

	req = httptest.NewRequest("GET", "/api/v1/shared/folders/no_such_token", nil)
	req = withURLParam(req, "token", "no_such_token")
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.GetSharedFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_SharedFolder_HonoursPassword(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	locked := createTestFolderAPI(t, testUserClaims.UserID, "Shared Locked", nil, true, &hash)
	require.NoError(t, testServer.store.SetFolderShareToken(context.Background(), locked.ID, "tok_api_shared_locked"))

	// The link skips visibility, not the password gate.
	req := httptest.NewRequest("GET", "/api/v1/shared/folders/tok_api_shared_locked", nil)
	req = withURLParam(req, "token", "tok_api_shared_locked")
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.GetSharedFolderHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	var prompt map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &prompt))
	require.Equal(t, true, prompt["password_required"])

	// Unlocking opens the link for that visitor.
	folderParam := fmt.Sprintf("%d", locked.ID)
	body, _ := json.Marshal(UnlockFolderRequest{Password: "letmein"})
	req = httptest.NewRequest("POST", "/api/v1/folders/"+folderParam+"/unlock", bytes.NewReader(body))
	req = withURLParam(req, "folderId", folderParam)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.UnlockFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	unlockCookies := rr.Result().Cookies()

	req = httptest.NewRequest("GET", "/api/v1/shared/folders/tok_api_shared_locked", nil)
	for _, c := range unlockCookies {
		req.AddCookie(c)
	}
	req = withURLParam(req, "token", "tok_api_shared_locked")
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.GetSharedFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// The owner never sees the prompt on their own link.
	req = httptest.NewRequest("GET", "/api/v1/shared/folders/tok_api_shared_locked", nil)
	req = withURLParam(withClaims(req, testUserClaims), "token", "tok_api_shared_locked")
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.GetSharedFolderHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAPI_UnlockFolder_PrivateSharedIsUnlockable(t *testing.T) {
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	private := createTestFolderAPI(t, testUserClaims.UserID, "Private Locked", nil, false, &hash)
	folderParam := fmt.Sprintf("%d", private.ID)

	unlock := func() int {
		body, _ := json.Marshal(UnlockFolderRequest{Password: "letmein"})
		req := httptest.NewRequest("POST", "/api/v1/folders/"+folderParam+"/unlock", bytes.NewReader(body))
		req = withURLParam(req, "folderId", folderParam)
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.UnlockFolderHandler).ServeHTTP(rr, req)
		return rr.Code
	}

	// Not shared: the folder is unreachable, so there is nothing to unlock.
	require.Equal(t, http.StatusNotFound, unlock())

	require.NoError(t, testServer.store.SetFolderShareToken(context.Background(), private.ID, "tok_api_private_unlock"))
	require.Equal(t, http.StatusNoContent, unlock())
}

func TestAPI_ToggleFavourite(t *testing.T) {
	folder := createTestFolderAPI(t, testUserClaims.UserID, "Fav Folder", nil, true, nil)

	toggle := func() ToggleFavouriteResponse {
		body, _ := json.Marshal(ToggleFavouriteRequest{ItemType: models.ItemTypeFolder, ItemID: folder.ID})
		req := httptest.NewRequest("POST", "/api/v1/favourites/toggle", bytes.NewReader(body))
		req = withClaims(req, testUserClaims)
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.ToggleFavouriteHandler).ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp ToggleFavouriteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	require.True(t, toggle().Favourited)
	require.False(t, toggle().Favourited)
	require.True(t, toggle().Favourited)
}

func TestAPI_ToggleFavourite_MissingItem(t *testing.T) {
	body, _ := json.Marshal(ToggleFavouriteRequest{ItemType: models.ItemTypeFile, ItemID: 999999999})
	req := httptest.NewRequest("POST", "/api/v1/favourites/toggle", bytes.NewReader(body))
	req = withClaims(req, testUserClaims)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.ToggleFavouriteHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_RateFile(t *testing.T) {
	folder := createTestFolderAPI(t, testUserClaims.UserID, "Rated Folder", nil, true, nil)
	file := createTestFileAPI(t, folder.ID, testUserClaims.UserID, "rated.pdf", []byte("rated"))
	rater := createOtherUser(t)
	fileParam := fmt.Sprintf("%d", file.ID)

	rate := func(stars int) (*httptest.ResponseRecorder, database.RatingSummary) {
		body, _ := json.Marshal(RateFileRequest{Rating: stars})
		req := httptest.NewRequest("PUT", "/api/v1/files/"+fileParam+"/rating", bytes.NewReader(body))
		req = withURLParam(withClaims(req, rater), "fileId", fileParam)
		rr := httptest.NewRecorder()
		http.HandlerFunc(testServer.RateFileHandler).ServeHTTP(rr, req)

		var summary database.RatingSummary
		if rr.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		}
		return rr, summary
	}

	rr, summary := rate(4)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(1), summary.Count)
	require.InDelta(t, 4.0, summary.Average, 0.001)

	rr, summary = rate(2)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(1), summary.Count, "re-rating must not add a second vote")
	require.InDelta(t, 2.0, summary.Average, 0.001)

	rr, _ = rate(9)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
