package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func jwtTestRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": citizenID(c), "admin": c.GetBool("admin")})
	})
	r.GET("/admin", JWTMiddleware(secret), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRoundTrip(t *testing.T) {
	r := jwtTestRouter(testSecret)

	token, err := issueJWT(42, false, testSecret)
	require.NoError(t, err)

	w := doGet(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"admin":false}`, w.Body.String())
}

func TestJWTRejectsMissingAndMalformed(t *testing.T) {
	r := jwtTestRouter(testSecret)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", "not-a-token").Code)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	r := jwtTestRouter(testSecret)

	token, err := issueJWT(42, false, []byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", token).Code)
}

func TestAdminOnly(t *testing.T) {
	r := jwtTestRouter(testSecret)

	citizen, err := issueJWT(7, false, testSecret)
	require.NoError(t, err)
	admin, err := issueJWT(8, true, testSecret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", citizen).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", admin).Code)
}
