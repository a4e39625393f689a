package resolver

import (
	"context"
	"testing"

	"learner-portal/internal/auth"
	"learner-portal/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockResolver(t *testing.T) (*DBResolver, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewDBResolver(&db.DB{DB: sqlDB}), mock
}

func identity(verified bool) *auth.Identity {
	return &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-1",
		Email:          "ada@example.com",
		EmailVerified:  verified,
	}
}

func TestResolveExistingIdentity(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery("SELECT user_id").
		WithArgs("google", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1"))

	user, err := r.Resolve(context.Background(), identity(true))
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveLinksVerifiedEmail(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery("SELECT user_id").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-7"))
	mock.ExpectExec("INSERT INTO identities").
		WithArgs("user-7", "google", "sub-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := r.Resolve(context.Background(), identity(true))
	require.NoError(t, err)
	assert.Equal(t, "user-7", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUnverifiedEmailCreatesUser(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery("SELECT user_id").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("ada@example.com", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-9"))
	mock.ExpectExec("INSERT INTO identities").
		WithArgs("user-9", "google", "sub-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := r.Resolve(context.Background(), identity(false))
	require.NoError(t, err)
	assert.Equal(t, "user-9", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveNilIdentity(t *testing.T) {
	r, _ := newMockResolver(t)

	_, err := r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilIdentity)
}
