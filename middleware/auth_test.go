package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eclinic/models"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-secret")

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTSessionMiddleware(secret), RequireRole(models.RoleDoctor, models.RoleAdmin), func(c *gin.Context) {
		session, _ := SessionFromContext(c)
		c.JSON(http.StatusOK, session)
	})
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTSessionMiddleware(t *testing.T) {
	r := newRouter()

	doctorToken, err := utils.GenerateToken(models.Session{UserID: "doc1", Name: "Dr. Otieno", Role: models.RoleDoctor}, secret, time.Hour)
	require.NoError(t, err)
	w := doRequest(r, "Bearer "+doctorToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"doc1"`)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Token "+doctorToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer garbage").Code)

	patientToken, err := utils.GenerateToken(models.Session{UserID: "pat1", Role: models.RolePatient}, secret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+patientToken).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
