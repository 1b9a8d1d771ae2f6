package auth

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mandar-Sonkusare/esg/internal/database"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.Open(context.Background(), t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewService(store, Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		BcryptCost:    bcrypt.MinCost,
	})
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, status, appErr.HTTPStatus)
	assert.Equal(t, message, appErr.Message())
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Analyst@Example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "analyst@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
	}{
		{name: "missing email", email: "", password: "x", status: http.StatusBadRequest, message: "Email or password missing"},
		{name: "blank email", email: "  ", password: "x", status: http.StatusBadRequest, message: "Email or password missing"},
		{name: "missing password", email: "a@b.c", password: "", status: http.StatusBadRequest, message: "Email or password missing"},
		{name: "duplicate", email: "analyst@example.com", password: "other", status: http.StatusBadRequest, message: "User already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			requireAppError(t, err, tt.status, tt.message)
		})
	}
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "login@example.com", "pw")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "LOGIN@example.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	userID, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// a refresh token is not an access token
	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	requireAppError(t, err, http.StatusUnauthorized, "Token is not valid")

	_, err = svc.Login(ctx, "login@example.com", "wrong")
	requireAppError(t, err, http.StatusBadRequest, "Invalid credentials")

	_, err = svc.Login(ctx, "nobody@example.com", "pw")
	requireAppError(t, err, http.StatusBadRequest, "Invalid credentials")

	_, err = svc.Login(ctx, "", "pw")
	requireAppError(t, err, http.StatusBadRequest, "Email or password missing")
}

func TestAccessTokenClaims(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "claims@example.com", "pw")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "claims@example.com", "pw")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	refreshClaims := &Claims{}
	_, err = jwt.ParseWithClaims(pair.RefreshToken, refreshClaims, func(*jwt.Token) (interface{}, error) {
		return []byte("refresh-secret"), nil
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshClaims.ExpiresAt.Time, 5*time.Second)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "refresh@example.com", "pw")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "refresh@example.com", "pw")
	require.NoError(t, err)

	access, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	userID, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = svc.Refresh("")
	requireAppError(t, err, http.StatusUnauthorized, "No refresh token provided")

	_, err = svc.Refresh("garbage")
	requireAppError(t, err, http.StatusForbidden, "Invalid refresh token")

	// an access token is signed with the other secret
	_, err = svc.Refresh(pair.AccessToken)
	requireAppError(t, err, http.StatusForbidden, "Invalid refresh token")
}

func TestExpiredAccessToken(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.issue("user-1", tokenTypeAccess, svc.accessSecret, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	requireAppError(t, err, http.StatusUnauthorized, "Token is not valid")
}

func TestRejectsOtherSigningMethods(t *testing.T) {
	svc := newTestService(t)
	claims := &Claims{UserID: "user-1", TokenType: tokenTypeAccess}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(unsigned)
	requireAppError(t, err, http.StatusUnauthorized, "Token is not valid")
}

func newAuthRouter(svc *Service) *gin.Engine {
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/auth"))
	r.GET("/me", svc.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})
	return r
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandlers_Flow(t *testing.T) {
	svc := newTestService(t)
	r := newAuthRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/auth/register", `{"email":"flow@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, w)["message"])

	w = doJSON(r, http.MethodPost, "/api/auth/register", `{"email":"flow@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decodeBody(t, w)["message"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"flow@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decodeBody(t, w)
	access, _ := tokens["accessToken"].(string)
	refresh, _ := tokens["refreshToken"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	w = doJSON(r, http.MethodGet, "/me", "", access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["user"])

	w = doJSON(r, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+refresh+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["accessToken"])
}

func TestHandlers_Errors(t *testing.T) {
	svc := newTestService(t)
	r := newAuthRouter(svc)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		token   string
		status  int
		message string
	}{
		{name: "register missing password", method: http.MethodPost, path: "/api/auth/register", body: `{"email":"a@b.c"}`, status: http.StatusBadRequest, message: "Email or password missing"},
		{name: "register malformed body", method: http.MethodPost, path: "/api/auth/register", body: `{`, status: http.StatusBadRequest, message: "Email or password missing"},
		{name: "login unknown user", method: http.MethodPost, path: "/api/auth/login", body: `{"email":"x@y.z","password":"pw"}`, status: http.StatusBadRequest, message: "Invalid credentials"},
		{name: "refresh missing", method: http.MethodPost, path: "/api/auth/refresh", body: `{}`, status: http.StatusUnauthorized, message: "No refresh token provided"},
		{name: "refresh invalid", method: http.MethodPost, path: "/api/auth/refresh", body: `{"refreshToken":"nope"}`, status: http.StatusForbidden, message: "Invalid refresh token"},
		{name: "protected without token", method: http.MethodGet, path: "/me", status: http.StatusUnauthorized, message: "No token, authorization denied"},
		{name: "protected with bad token", method: http.MethodGet, path: "/me", token: "nope", status: http.StatusUnauthorized, message: "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeBody(t, w)["message"])
		})
	}
}
