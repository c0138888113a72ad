package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trialops/config"
	"trialops/internal/auth"
	"trialops/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:       "test-secret",
			AccessExpiry: time.Minute,
			Issuer:       "trialops",
		},
		Redis: config.RedisConfig{CountTTL: time.Second},
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqldb, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		_ = sqldb.Close()
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock, sqldb
}

func TestEndpointsRejectUnauthenticatedCallers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	engine := Setup(testConfig(), db, nil, nil)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/notifications/count"},
		{http.MethodPost, "/api/v1/notifications/mark-read"},
		{http.MethodPost, "/api/v1/notifications/mark-all-read"},
		{http.MethodGet, "/api/v1/notification-settings"},
		{http.MethodPatch, "/api/v1/notification-settings"},
		{http.MethodPost, "/api/v1/internal/events"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(p.method, p.path, nil)
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestCountEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	cfg := testConfig()
	engine := Setup(cfg, db, nil, nil)

	token, err := auth.GenerateToken(&cfg.JWT, 1, "alma@trialops.local", domain.RoleDataManager)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notifications`").
		WithArgs(uint(1), false).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`\\.`id` = \\?").
		WithArgs(uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(1, "Alma", "alma@trialops.local", domain.RoleDataManager))
	mock.ExpectQuery("SELECT .* FROM `notifications` LEFT JOIN notification_read_statuses").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("count = %d, want 1", body.Count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, sqldb := newMockDB(t)
	defer func() { _ = sqldb.Close() }()

	engine := Setup(testConfig(), db, nil, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d, want 200", w.Code)
	}
}
