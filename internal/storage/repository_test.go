package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs every test against a fresh migrated database.
type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "fintrack.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) mustCreateUser(email string) core.User {
	u, err := s.repo.CreateUser(s.ctx, "Test User", email, "hash", "")
	require.NoError(s.T(), err)
	return u
}

func (s *RepositoryTestSuite) mustCreateTransaction(userID int64, kind core.Kind, label string, cents int64, date core.Date) core.Transaction {
	tx, err := s.repo.CreateTransaction(s.ctx, core.Transaction{
		UserID: userID,
		Kind:   kind,
		Label:  label,
		Amount: core.Money{Cents: cents},
		Date:   date,
	})
	require.NoError(s.T(), err)
	return tx
}

func (s *RepositoryTestSuite) TestCreateUser() {
	u := s.mustCreateUser("A@X.com")

	assert.NotZero(s.T(), u.ID)
	assert.Equal(s.T(), "a@x.com", u.Email, "email stored lowercase")
	assert.False(s.T(), u.CreatedAt.IsZero(), "created_at assigned by store")
}

func (s *RepositoryTestSuite) TestCreateUser_DuplicateEmail() {
	s.mustCreateUser("a@x.com")

	_, err := s.repo.CreateUser(s.ctx, "Other", "A@X.COM", "hash2", "")
	assert.ErrorIs(s.T(), err, ErrDuplicateEmail, "duplicate check is case-insensitive")
}

func (s *RepositoryTestSuite) TestGetUserByEmail_CaseInsensitive() {
	created := s.mustCreateUser("a@x.com")

	found, err := s.repo.GetUserByEmail(s.ctx, "A@X.Com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, found.ID)
}

func (s *RepositoryTestSuite) TestGetUser_NotFound() {
	_, err := s.repo.GetUserByID(s.ctx, 12345)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.repo.GetUserByEmail(s.ctx, "nobody@x.com")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateTransaction() {
	u := s.mustCreateUser("a@x.com")

	tx := s.mustCreateTransaction(u.ID, core.KindExpense, "Food", 5000, core.NewDate(2024, 1, 1))

	assert.NotZero(s.T(), tx.ID)
	assert.Equal(s.T(), u.ID, tx.UserID)
	assert.Equal(s.T(), int64(5000), tx.Amount.Cents)
	assert.False(s.T(), tx.CreatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestListTransactions_SortedAndFiltered() {
	u := s.mustCreateUser("a@x.com")
	other := s.mustCreateUser("b@x.com")

	older := s.mustCreateTransaction(u.ID, core.KindExpense, "Rent", 90000, core.NewDate(2024, 1, 1))
	newer := s.mustCreateTransaction(u.ID, core.KindExpense, "Food", 5000, core.NewDate(2024, 2, 1))
	s.mustCreateTransaction(u.ID, core.KindIncome, "Salary", 300000, core.NewDate(2024, 1, 15))
	s.mustCreateTransaction(other.ID, core.KindExpense, "Travel", 7000, core.NewDate(2024, 3, 1))

	got, err := s.repo.ListTransactions(s.ctx, u.ID, core.KindExpense)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2, "only the user's expenses")
	assert.Equal(s.T(), newer.ID, got[0].ID, "sorted by date descending")
	assert.Equal(s.T(), older.ID, got[1].ID)
}

func (s *RepositoryTestSuite) TestListTransactions_TieBreakByInsertionOrder() {
	u := s.mustCreateUser("a@x.com")
	date := core.NewDate(2024, 1, 1)

	first := s.mustCreateTransaction(u.ID, core.KindIncome, "First", 100, date)
	second := s.mustCreateTransaction(u.ID, core.KindIncome, "Second", 200, date)

	got, err := s.repo.ListTransactions(s.ctx, u.ID, core.KindIncome)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), second.ID, got[0].ID, "latest insertion wins ties")
	assert.Equal(s.T(), first.ID, got[1].ID)
}

func (s *RepositoryTestSuite) TestListTransactions_EmptyIsNotNil() {
	u := s.mustCreateUser("a@x.com")

	got, err := s.repo.ListTransactions(s.ctx, u.ID, core.KindIncome)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), got)
	assert.Empty(s.T(), got)
}

func (s *RepositoryTestSuite) TestDeleteTransaction() {
	u := s.mustCreateUser("a@x.com")
	tx := s.mustCreateTransaction(u.ID, core.KindExpense, "Food", 5000, core.NewDate(2024, 1, 1))

	require.NoError(s.T(), s.repo.DeleteTransaction(s.ctx, tx.ID, u.ID))

	_, err := s.repo.GetTransaction(s.ctx, tx.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteTransaction_ExistenceBeforeOwnership() {
	owner := s.mustCreateUser("a@x.com")
	intruder := s.mustCreateUser("b@x.com")
	tx := s.mustCreateTransaction(owner.ID, core.KindExpense, "Food", 5000, core.NewDate(2024, 1, 1))

	// Nonexistent id: NotFound regardless of requester
	err := s.repo.DeleteTransaction(s.ctx, 99999, intruder.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	// Existing but foreign id: Forbidden, and the row survives
	err = s.repo.DeleteTransaction(s.ctx, tx.ID, intruder.ID)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	kept, err := s.repo.GetTransaction(s.ctx, tx.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), owner.ID, kept.UserID)
}

func (s *RepositoryTestSuite) TestTransactionDateRoundTrip() {
	u := s.mustCreateUser("a@x.com")
	date := core.Date{Time: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}
	tx := s.mustCreateTransaction(u.ID, core.KindIncome, "Salary", 100, date)

	got, err := s.repo.GetTransaction(s.ctx, tx.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.Date.Equal(date.Time), "got %v want %v", got.Date, date)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
