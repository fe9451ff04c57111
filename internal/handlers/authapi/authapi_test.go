package authapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlog "gorm.io/gorm/logger"

	"github.com/mpetrov/tasknest/internal/auth"
	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/token"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	database, err := gormw.Open(&gormw.Config{
		LogLevel: gormlog.Silent,
	})
	require.NoError(t, err)

	err = database.Migrate()
	require.NoError(t, err)

	codec, err := token.New("test-signing-secret")
	require.NoError(t, err)

	service := auth.NewService(&auth.Config{}, database, codec)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterHandlers(router.Group("/auth"), service)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerBody() gin.H {
	return gin.H{
		"firstName":       "Ada",
		"surname":         "Lovelace",
		"email":           "a@x.com",
		"password":        "p1",
		"confirmPassword": "p1",
	}
}

func TestRegisterSuccess(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID        uint   `json:"id"`
		FirstName string `json:"firstName"`
		Surname   string `json:"surname"`
		Email     string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.Equal(t, "a@x.com", resp.Email)

	// The password hash must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterMissingFields(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/register", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "firstName")
	assert.Contains(t, resp.Errors, "password")
	assert.NotContains(t, resp.Errors, "email")
}

func TestRegisterInvalidEmail(t *testing.T) {
	router := setupTestRouter(t)

	body := registerBody()
	body["email"] = "not-an-email"
	rec := doJSON(t, router, "/auth/register", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "email")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	router := setupTestRouter(t)

	body := registerBody()
	body["confirmPassword"] = "p2"
	rec := doJSON(t, router, "/auth/register", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterConflict(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "/auth/register", registerBody())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "/auth/login", gin.H{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "/auth/login", gin.H{"email": "nobody@x.com", "password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenMissingBody(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/refresh-token", gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// TestTokenLifecycle walks the full protocol: register, login, refresh twice,
// logout, then refresh and logout again expecting 401s.
func TestTokenLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	rec := doJSON(t, router, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, "/auth/login", gin.H{"email": "a@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Refresh twice in a row: both succeed with distinct access tokens.
	var accessTokens []string
	for i := 0; i < 2; i++ {
		rec = doJSON(t, router, "/auth/refresh-token", gin.H{"refreshToken": pair.RefreshToken})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)
		accessTokens = append(accessTokens, resp.AccessToken)
	}
	assert.NotEqual(t, accessTokens[0], accessTokens[1])

	// Logout succeeds with no content.
	rec = doJSON(t, router, "/auth/logout", gin.H{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// The refresh token is now dead for both operations.
	rec = doJSON(t, router, "/auth/refresh-token", gin.H{"refreshToken": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "/auth/logout", gin.H{"refreshToken": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
