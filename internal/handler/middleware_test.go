package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpad/backend/internal/service"
	"github.com/inkpad/backend/internal/token"
)

func newProtectedRouter(codec *token.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	// ParseAccessToken never touches the store, so none is needed here.
	authSvc := service.NewAuthService(nil, codec)

	router := gin.New()
	router.GET("/protected", Authenticate(authSvc), RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": GetAuthUser(c).ID.String()})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router := newProtectedRouter(token.NewCodec([]byte("test-secret")))

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Bearer garbage").Code)
}

func TestRequireAuthAcceptsValidAccessToken(t *testing.T) {
	codec := token.NewCodec([]byte("test-secret"))
	router := newProtectedRouter(codec)

	raw, err := codec.Issue("3b8e7c0a-4f2d-4c11-9f6e-0d8b3f1a2c45", token.KindAccess, token.AccessTTL)
	require.NoError(t, err)

	rec := doGet(router, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3b8e7c0a-4f2d-4c11-9f6e-0d8b3f1a2c45")
}

func TestRequireAuthRejectsExpiredAccessToken(t *testing.T) {
	codec := token.NewCodec([]byte("test-secret"))
	router := newProtectedRouter(codec)

	raw, err := codec.Issue("3b8e7c0a-4f2d-4c11-9f6e-0d8b3f1a2c45", token.KindAccess, -time.Second)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Bearer "+raw).Code)
}

func TestRequireAuthRejectsRefreshTokenAsBearer(t *testing.T) {
	codec := token.NewCodec([]byte("test-secret"))
	router := newProtectedRouter(codec)

	raw, err := codec.Issue("3b8e7c0a-4f2d-4c11-9f6e-0d8b3f1a2c45", token.KindRefresh, token.RefreshTTL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Bearer "+raw).Code)
}

func TestRequireAuthRejectsTokenSignedWithOtherKey(t *testing.T) {
	router := newProtectedRouter(token.NewCodec([]byte("test-secret")))
	other := token.NewCodec([]byte("other-secret"))

	raw, err := other.Issue("3b8e7c0a-4f2d-4c11-9f6e-0d8b3f1a2c45", token.KindAccess, token.AccessTTL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "Bearer "+raw).Code)
}
