package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// Constraint names from scripts/schema.sql.
const (
	constraintRefundNoUnique    = "refund_records_refund_no_key"
	constraintOneActivePerOrder = "refund_records_one_active_per_order"
)

var (
	// ErrRefundNoTaken means the generated refund number collided; the caller
	// may regenerate and retry.
	ErrRefundNoTaken = errors.New("refund number already taken")

	// ErrActiveRefundExists means a concurrent writer created an active refund
	// for the same order first.
	ErrActiveRefundExists = errors.New("active refund already exists for order")

	// ErrRefundNotPending means a review update matched no row because the
	// record left the expected status.
	ErrRefundNotPending = errors.New("refund record is not pending")
)

// translateUniqueViolation maps a 23505 on a known constraint to a typed
// error, so callers can tell a retryable identifier collision apart from a
// lost race on the active-refund invariant.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}

	switch pgErr.ConstraintName {
	case constraintRefundNoUnique:
		return ErrRefundNoTaken
	case constraintOneActivePerOrder:
		return ErrActiveRefundExists
	}
	return err
}
