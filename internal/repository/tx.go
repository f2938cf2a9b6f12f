package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const txMaxRetries = 3

// runTx executes fn inside a transaction. Transient Postgres failures
// (deadlock, serialization, dropped connection) are retried a bounded number
// of times with exponential backoff; business-rule errors are permanent and
// surface unchanged after rollback.
func runTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	op := func() error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return classify(err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return classify(err)
		}
		if err := tx.Commit(); err != nil {
			return classify(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, txMaxRetries), ctx))
}

func classify(err error) error {
	if isTransient(err) {
		return err
	}
	return backoff.Permanent(err)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
