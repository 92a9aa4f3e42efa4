package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

// SQLState returns the Postgres SQLSTATE carried by err, if any.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code)
	}
	return ""
}

// Transient reports whether err looks like a connectivity or contention
// failure rather than a broken query.
func Transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch code := SQLState(err); {
	case strings.HasPrefix(code, "08"), // connection_exception
		code == "40001", code == "40P01", code == "55P03", code == "57P01":
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

func classify(log *logger.Logger, op string, err error) error {
	if log != nil {
		fields := []interface{}{"op", op, "error", err, "transient", Transient(err)}
		if code := SQLState(err); code != "" {
			fields = append(fields, "sqlstate", code)
		}
		log.Warn("query failed", fields...)
	}
	return fmt.Errorf("%s: %w", op, err)
}
