package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-tasktracker/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthz(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))
		defer db.Close()
		rdb, redisMock := redismock.NewClientMock()

		sqlMock.ExpectPing()
		redisMock.ExpectPing().SetVal("PONG")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

		healthz(&Infra{DB: db, Redis: rdb})(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"database":"ok","redis":"ok"}}`, w.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))
		defer db.Close()

		sqlMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

		healthz(&Infra{DB: db})(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestCorsConfig(t *testing.T) {
	c := corsConfig(&config.Config{ClientURL: "https://app.example.com"})

	assert.Equal(t, []string{"https://app.example.com"}, c.AllowOrigins)
	assert.True(t, c.AllowCredentials)
	assert.NoError(t, c.Validate())
	assert.Contains(t, c.AllowHeaders, "Idempotency-Key")
}
