package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/metrics"
)

// Store is the handle every core component is constructed with. It holds no state besides the
// connection pool.
type Store struct {
	db      *gorm.DB
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewStore(db *gorm.DB, log *logrus.Logger) *Store {
	return &Store{db: db, log: log, metrics: metrics.Use()}
}

// DB returns a session bound to ctx for single-statement reads.
func (s *Store) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// InTx runs fn in a new transaction. Any error returned by fn, a panic or a cancelled ctx
// rolls the transaction back before the error is returned.
func (s *Store) InTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	started := time.Now()
	err := s.db.WithContext(ctx).Transaction(fn)
	s.metrics.ObserveTx(op, started, err)
	return s.Fail(op, err)
}

// Fail classifies err for the request layer. Typed errors pass through; anything else is
// logged with its operation and returned as an internal error.
func (s *Store) Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsTyped(err) {
		s.metrics.CountError(string(apperr.KindOf(err)))
		return err
	}
	s.metrics.CountError(string(apperr.KindInternal))
	s.log.WithFields(logrus.Fields{
		"op":    op,
		"error": err.Error(),
	}).Error("core operation failed")
	return apperr.Internal(op, err)
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// Locked adds FOR UPDATE to the next query on tx.
func Locked(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(forUpdate)
}

// LockRow loads the row with the given id into dest and holds a row lock on it until the
// transaction ends. SQLite drops the locking clause; there the single connection serializes
// transactions instead.
func LockRow(tx *gorm.DB, dest any, id uuid.UUID) error {
	return Locked(tx).Take(dest, "id = ?", id).Error
}

// LockRows locks several rows of one table in ascending id order, so that two transactions
// locking overlapping sets cannot deadlock.
func LockRows(tx *gorm.DB, dest any, ids []uuid.UUID) error {
	return Locked(tx).Where("id IN ?", ids).Order("id").Find(dest).Error
}
