package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/database/dbtest"
	"github.com/arnold/taskboard-api/internal/logging"
	"github.com/arnold/taskboard-api/internal/models"
)

func TestInTxCommits(t *testing.T) {
	store := dbtest.Store(t)
	ctx := context.Background()

	err := store.InTx(ctx, "create user", func(tx *gorm.DB) error {
		return tx.Create(&models.User{Email: "a@example.com"}).Error
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, store.DB(ctx).Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestInTxRollsBackTypedError(t *testing.T) {
	store := dbtest.Store(t)
	ctx := context.Background()

	err := store.InTx(ctx, "create user", func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Email: "a@example.com"}).Error; err != nil {
			return err
		}
		return apperr.Conflict("nope")
	})
	require.ErrorIs(t, err, apperr.ErrConflict)

	var n int64
	require.NoError(t, store.DB(ctx).Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestInTxWrapsUntypedErrorAsInternal(t *testing.T) {
	store := dbtest.Store(t)

	cause := errors.New("disk full")
	err := store.InTx(context.Background(), "create user", func(tx *gorm.DB) error {
		return cause
	})

	require.ErrorIs(t, err, apperr.ErrInternal)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create user")
}

func TestInTxHonoursCancelledContext(t *testing.T) {
	store := dbtest.Store(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	err := store.InTx(ctx, "create user", func(tx *gorm.DB) error {
		return tx.Create(&models.User{Email: "late@example.com"}).Error
	})
	require.ErrorIs(t, err, apperr.ErrInternal)

	var n int64
	require.NoError(t, store.DB(context.Background()).Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLockRow(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.User(t, db, "ada")

	err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.User
		if err := database.LockRow(tx, &locked, u.ID); err != nil {
			return err
		}
		assert.Equal(t, u.Email, locked.Email)
		return nil
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return database.LockRow(tx, &models.User{}, uuid.New())
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLockRowsOrdersByID(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.User(t, db, "a")
	b := dbtest.User(t, db, "b")

	var users []models.User
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return database.LockRows(tx, &users, []uuid.UUID{b.ID, a.ID})
	}))
	require.Len(t, users, 2)
	assert.Less(t, users[0].ID.String(), users[1].ID.String())
}

func TestNewStoreUsesGivenLogger(t *testing.T) {
	store := database.NewStore(dbtest.Open(t), logging.Discard())
	require.NotNil(t, store.DB(context.Background()))
}
