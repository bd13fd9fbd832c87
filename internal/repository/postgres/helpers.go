package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
)

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether the error is a postgres duplicate-key error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

// withReadRetry retries an idempotent read at most once on failure. Writes
// never go through this path.
func withReadRetry(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	attempt := 0
	retryable := func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if err == sql.ErrNoRows || ierr.IsNotFound(err) {
			// not transient, do not retry
			return backoff.Permanent(err)
		}
		if attempt == 1 {
			log.Warnw("read failed, retrying once", "op", op, "error", err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 1),
		ctx,
	)
	return backoff.Retry(retryable, policy)
}

// marshalJSONB serializes a value for a jsonb column, mapping nil to SQL NULL
func marshalJSONB(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// unmarshalJSONB deserializes a nullable jsonb column into target
func unmarshalJSONB(data []byte, target interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
