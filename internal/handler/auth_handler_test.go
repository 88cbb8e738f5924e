package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planboard/internal/handler"
	"planboard/internal/repository"
	"planboard/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func setupAuthTest(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, "test-secret", time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	r := gin.Default()
	r.POST("/login", authHandler.Login)
	return r, mock
}

func loginBody(t *testing.T, email, password string) *bytes.Buffer {
	body, err := json.Marshal(handler.LoginRequest{Email: email, Password: password})
	assert.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mock := setupAuthTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role", "disabled"}).
			AddRow(userID.String(), "admin@example.com", string(hash), "Admin", "super_admin", false))

	req, _ := http.NewRequest("POST", "/login", loginBody(t, "admin@example.com", "password123"))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, userID, response.User.ID)
	assert.Equal(t, "admin@example.com", response.User.Email)
	// Credential material never leaves the server
	assert.NotContains(t, resp.Body.String(), string(hash))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mock := setupAuthTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role", "disabled"}).
			AddRow(uuid.New().String(), "admin@example.com", string(hash), "Admin", "super_admin", false))

	req, _ := http.NewRequest("POST", "/login", loginBody(t, "admin@example.com", "wrong"))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	router, mock := setupAuthTest(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WithArgs("nobody@example.com").
		WillReturnError(gorm.ErrRecordNotFound)

	req, _ := http.NewRequest("POST", "/login", loginBody(t, "nobody@example.com", "password123"))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: indistinguishable from a wrong password
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_DisabledAccount(t *testing.T) {
	// Arrange
	router, mock := setupAuthTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WithArgs("former@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role", "disabled"}).
			AddRow(uuid.New().String(), "former@example.com", string(hash), "Former", "employee", true))

	req, _ := http.NewRequest("POST", "/login", loginBody(t, "former@example.com", "password123"))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: right password, still refused, same error as bad credentials
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_MalformedBody(t *testing.T) {
	// Arrange
	router, _ := setupAuthTest(t)

	req, _ := http.NewRequest("POST", "/login", bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
