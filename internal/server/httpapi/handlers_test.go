package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/accountd/internal/logging"
	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
	"github.com/dkovalev/accountd/internal/server/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		BcryptCost:     bcrypt.MinCost,
		S3Bucket:       "avatars",
		S3Region:       "us-east-1",
		S3RootUser:     "admin",
		S3RootPassword: "secretpassword",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
	repos := repomanager.NewInMemoryRepositoryManager()
	accounts := services.NewAccountService(repos, cfg)
	avatars := services.NewAvatarService(repos, cfg)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	r := gin.New()
	NewServer(accounts, avatars, logger).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, r *gin.Engine, email, password, name string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/user/create/", "", gin.H{
		"email": email, "password": password, "name": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
}

func obtainToken(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestCreateUser_Success(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/user/create/", "", gin.H{
		"email":    "test@example.com",
		"password": "testpass123",
		"name":     "Test Name",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "test@example.com", body["email"])
	assert.Equal(t, "Test Name", body["name"])
	assert.NotContains(t, w.Body.String(), "testpass123")
	assert.NotContains(t, body, "password")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass123", "Test Name")

	w := doJSON(t, r, http.MethodPost, "/user/create/", "", gin.H{
		"email": "test@example.com", "password": "testpass123", "name": "Test Name",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "email")
}

func TestCreateUser_ShortPassword(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/user/create/", "", gin.H{
		"email": "test@example.com", "password": "123", "name": "Test Name",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "password")

	// no record was created: token request with those credentials fails
	w = doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateToken_Success(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "pass123", "Test Name")

	w := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "pass123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w), "token")
}

func TestCreateToken_NormalizedDomain(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@EXAMPLE.com", "testpass123", "Test Name")

	token := obtainToken(t, r, "test@example.com", "testpass123")
	assert.NotEmpty(t, token)

	// the stored record carries the lower-cased domain
	w := doJSON(t, r, http.MethodGet, "/user/myprofile/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test@example.com", decodeBody(t, w)["email"])
}

func TestCreateToken_WrongPassword(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "pass123", "Test Name")

	w := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "wrongpass123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.NotContains(t, body, "token")
	assert.Contains(t, body, "non_field_errors")
}

func TestCreateToken_UnknownUserSameBody(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "pass123", "Test Name")

	wrongPass := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "wrongpass123",
	})
	unknownUser := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "ghost@example.com", "password": "pass123",
	})

	// no account-existence leak: identical status and body
	assert.Equal(t, wrongPass.Code, unknownUser.Code)
	assert.Equal(t, wrongPass.Body.String(), unknownUser.Body.String())
}

func TestCreateToken_EmptyPassword(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "pass123", "Test Name")

	w := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, decodeBody(t, w), "token")
}

func TestCreateToken_SameTokenTwice(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "pass123", "Test Name")

	token1 := obtainToken(t, r, "test@example.com", "pass123")
	token2 := obtainToken(t, r, "test@example.com", "pass123")

	assert.Equal(t, token1, token2)
}

func TestMyProfile_Unauthenticated(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/user/myprofile/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMyProfile_InvalidToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/user/myprofile/", "deadbeef", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMyProfile_Success(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass", "Test Name")
	token := obtainToken(t, r, "test@example.com", "testpass")

	w := doJSON(t, r, http.MethodGet, "/user/myprofile/", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	// exactly {name, email}
	assert.Equal(t, map[string]any{
		"name":  "Test Name",
		"email": "test@example.com",
	}, body)
}

func TestMyProfile_PostNotAllowed(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass", "Test Name")
	token := obtainToken(t, r, "test@example.com", "testpass")

	w := doJSON(t, r, http.MethodPost, "/user/myprofile/", token, gin.H{})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUpdateMyProfile(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass", "Test Name")
	token := obtainToken(t, r, "test@example.com", "testpass")

	w := doJSON(t, r, http.MethodPatch, "/user/myprofile/", token, gin.H{
		"name":     "new name",
		"password": "newpassword123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "new name", body["name"])
	assert.Equal(t, "test@example.com", body["email"])

	// new password authenticates, old one does not
	_ = obtainToken(t, r, "test@example.com", "newpassword123")
	old := doJSON(t, r, http.MethodPost, "/user/token/", "", gin.H{
		"email": "test@example.com", "password": "testpass",
	})
	assert.Equal(t, http.StatusBadRequest, old.Code)
}

func TestUpdateMyProfile_Unauthenticated(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/user/myprofile/", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMyProfile_ShortPassword(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass", "Test Name")
	token := obtainToken(t, r, "test@example.com", "testpass")

	w := doJSON(t, r, http.MethodPatch, "/user/myprofile/", token, gin.H{
		"password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "password")
}

func TestAvatar_UploadAndDownload(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "test@example.com", "testpass", "Test Name")
	token := obtainToken(t, r, "test@example.com", "testpass")

	// nothing uploaded yet
	w := doJSON(t, r, http.MethodGet, "/user/myprofile/avatar/", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/user/myprofile/avatar/", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	body := decodeBody(t, w)
	key, ok := body["key"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, key)
	assert.Contains(t, body["upload_url"], key)

	w = doJSON(t, r, http.MethodGet, "/user/myprofile/avatar/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["download_url"], key)
}
