package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"gorm.io/gorm"
)

// Error taxonomy for durable-store failures. Only connectivity errors are
// ever retried: a dropped TCP connection to a pooled database is routinely
// transient, while retrying a constraint violation would waste time and mask
// a real bug.
var (
	// ErrConnectivity marks transient network or connection failures.
	ErrConnectivity = errors.New("store connectivity error")

	// ErrConstraint marks uniqueness or foreign-key violations.
	ErrConstraint = errors.New("store constraint violation")

	// ErrQuery marks any other store-side failure.
	ErrQuery = errors.New("store query error")
)

// Classify wraps a raw GORM/driver error with the matching taxonomy
// sentinel. A nil error stays nil; an already-classified error is returned
// unchanged. gorm.ErrRecordNotFound is deliberately not classified — stores
// translate it to their domain's not-found error themselves.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConnectivity) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrQuery) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	switch {
	case isConstraint(err):
		return errors.Join(ErrConstraint, err)
	case isConnectivity(err):
		return errors.Join(ErrConnectivity, err)
	default:
		return errors.Join(ErrQuery, err)
	}
}

// IsRetryable reports whether the error is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

func isConstraint(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Driver errors that arrive as strings only (pgx wraps some dial
	// failures this way).
	msg := err.Error()
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"unexpected EOF",
		"conn closed",
		"failed to connect",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
