package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/retry"
)

// retrying runs fn under the configured job retry policy, retrying only
// transient store errors.
func retrying[T any](ctx context.Context, e *env, op string, fn func(context.Context) (T, error)) (T, error) {
	logger := e.runtime.Logger.With("command", op)

	return retry.Do(
		ctx,
		e.runtime.Jobs.Retry,
		faults.Retryable,
		func(int) (T, error) {
			return fn(ctx)
		},
		func(attempt int, delay time.Duration, err error) {
			logger.Warn(
				"retrying",
				"attempt", attempt,
				"delay", delay,
				"error_kind", faults.KindOf(err).String(),
				"error", err,
			)
		},
	)
}

func projectID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid project id %q", arg)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func failed(logger *slog.Logger, op string, err error) error {
	logger.Error(op+" failed", "error_kind", faults.KindOf(err).String(), "error", err)
	return err
}
