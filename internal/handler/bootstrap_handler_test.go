package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"planboard/internal/handler"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/notify"
	"planboard/internal/repository"
	"planboard/internal/view"
)

// setupBootstrapTest wires the snapshot on one database and the sweeper
// on a second so the background sweep's queries stay separable.
func setupBootstrapTest(t *testing.T, caller identity.Caller) (*gin.Engine, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)
	sweepDB, sweepMock := setupMockDB(t)
	log := logrus.New()

	assembler := view.NewAssembler(
		repository.NewUserRepository(gormDB),
		repository.NewTeamRepository(gormDB),
		repository.NewProjectRepository(gormDB),
		repository.NewTaskRepository(gormDB),
		repository.NewCommentRepository(gormDB),
		repository.NewFinancialRepository(gormDB),
	)

	fanout := notify.NewFanout(
		repository.NewNotificationRepository(sweepDB),
		repository.NewUserRepository(sweepDB),
		repository.NewTeamRepository(sweepDB),
		repository.NewProjectRepository(sweepDB),
		nil, log)
	sweeper := notify.NewSweeper(
		repository.NewTaskRepository(sweepDB),
		repository.NewNotificationRepository(sweepDB),
		fanout, time.Minute, log)

	bootstrapHandler := handler.NewBootstrapHandler(assembler, sweeper)

	r := gin.Default()
	authorized := r.Group("/", asCaller(caller))
	authorized.GET("/bootstrap", bootstrapHandler.Bootstrap)
	return r, mock, sweepMock
}

func TestBootstrap_ReturnsSnapshotAndTriggersSweep(t *testing.T) {
	// Arrange: an admin with an empty store; a request must still kick
	// off the overdue sweep in the background
	caller := identity.Caller{ID: uuid.New(), Role: model.RoleSuperAdmin}
	router, mock, sweepMock := setupBootstrapTest(t, caller)

	mock.ExpectQuery(`SELECT .* FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "team_id"}))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(caller.ID.String(), "Root", "root@example.com", string(model.RoleSuperAdmin)))
	mock.ExpectQuery(`SELECT .* FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	sweepMock.ExpectQuery(`SELECT .* FROM "tasks" WHERE end_date <`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "title"}))

	req, _ := http.NewRequest("GET", "/bootstrap", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), caller.ID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Eventually(t, func() bool {
		return sweepMock.ExpectationsWereMet() == nil
	}, 2*time.Second, 10*time.Millisecond)
}
