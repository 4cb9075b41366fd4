package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

const claimGuard = `UPDATE meal_posts
        SET is_available = FALSE, claimant_id = $2, claimed_at = NOW()
        WHERE id = $1 AND is_available = TRUE AND removed = FALSE
          AND status = $3 AND expires_on >= CURRENT_DATE AND owner_id <> $2`

func TestClaimWinnerMatchesGuard(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(claimGuard)).
		WithArgs(5, 1, "APPROVED").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_available", "claimant_id"}).
			AddRow(5, 2, false, 1))

	post, err := repo.Claim(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, post.ID)
	require.NotNil(t, post.ClaimantID)
	assert.Equal(t, 1, *post.ClaimantID)
	assert.False(t, post.IsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Of two racing claimants only one matches the guarded UPDATE. The loser
// sees zero rows and is classified against the row the winner left behind.
func TestClaimLoserClassifiedAsAlreadyClaimed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(claimGuard)).
		WithArgs(5, 3, "APPROVED").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM meal_posts WHERE id=$1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_available", "claimant_id"}).
			AddRow(5, 2, false, 1))

	_, err := repo.Claim(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimOwnPostClassifiedAsSelfClaim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(claimGuard)).
		WithArgs(5, 2, "APPROVED").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM meal_posts WHERE id=$1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_available"}).
			AddRow(5, 2, true))

	_, err := repo.Claim(context.Background(), 5, 2)
	assert.ErrorIs(t, err, ErrSelfClaim)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimUnmatchedAvailablePostClassifiedAsNotClaimable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	// Still marked available but the guard did not match, so the post is
	// pending, removed or expired.
	mock.ExpectQuery(regexp.QuoteMeta(claimGuard)).
		WithArgs(5, 3, "APPROVED").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM meal_posts WHERE id=$1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_available", "status"}).
			AddRow(5, 2, true, "PENDING"))

	_, err := repo.Claim(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrNotClaimable)
	require.NoError(t, mock.ExpectationsWereMet())
}
