package repository_test

import (
	"context"
	"testing"
	"time"

	"planboard/internal/model"
	"planboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

func userRow(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role", "team_id", "disabled", "created_at"}).
		AddRow(u.ID.String(), u.Email, u.HashedPassword, u.Name, string(u.Role), u.TeamID, u.Disabled, time.Now())
}

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	user := &model.User{
		ID:             userID,
		Email:          "lead@example.com",
		HashedPassword: "hashed_password",
		Name:           "Team Leader",
		Role:           model.RoleTeamLeader,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectCommit()

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	want := &model.User{
		ID:             uuid.New(),
		Email:          "dev@example.com",
		HashedPassword: "hashed_password",
		Name:           "Dev",
		Role:           model.RoleEmployee,
	}

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs(want.Email).
		WillReturnRows(userRow(want))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), want.Email)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, want.ID, user.ID)
	assert.Equal(t, model.RoleEmployee, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("absent@example.com").
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := userRepo.FindByEmail(context.Background(), "absent@example.com")

	// Assert
	assert.NoError(t, err) // absence is not an error here
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .* LIMIT .*`).
		WithArgs(id).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := userRepo.GetByID(context.Background(), id)

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDs_Empty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	// Act: no query should be issued for an empty ID set
	users, err := userRepo.GetByIDs(context.Background(), nil)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetTeam(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	teamID := uuid.New()
	memberID := uuid.New()
	member := &model.User{
		ID:     memberID,
		Email:  "dev@example.com",
		Name:   "Dev",
		Role:   model.RoleEmployee,
		TeamID: &teamID,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "team_id"=.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id IN .*`).
		WillReturnRows(userRow(member))
	mock.ExpectCommit()

	// Act
	users, err := userRepo.SetTeam(context.Background(), []uuid.UUID{memberID}, &teamID)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, memberID, users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Disable(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := userRepo.Disable(context.Background(), id)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Disable_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := userRepo.Disable(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_HardDelete(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := userRepo.HardDelete(context.Background(), id)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
