package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/erpcall/builder"
	"github.com/Konsultn-Engineering/erpcall/database"
	"github.com/Konsultn-Engineering/erpcall/utils"
)

// ExecError reports a compiled call the database rejected.
type ExecError struct {
	CallID    string
	Procedure string
	Err       error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("engine: call %s to %s failed: %v", e.CallID, e.Procedure, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// IsExecError reports whether err is an ExecError.
func IsExecError(err error) bool {
	var e *ExecError
	return errors.As(err, &e)
}

// Exec runs a compiled call. Statements are prepared once and reused
// through the statement cache when the backend supports it.
func (e *Engine) Exec(ctx context.Context, call *builder.CallResult) (database.Result, error) {
	if call == nil {
		return nil, errors.New("engine: nil call")
	}
	if e.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := e.exec(ctx, call)
	elapsed := time.Since(start)
	slow := e.isSlow(elapsed)
	e.stats.record(elapsed, err, slow)

	if err != nil {
		e.logger.Error("call failed",
			"call_id", call.ID,
			"procedure", call.Procedure,
			"duration", elapsed,
			"error", err,
		)
		return nil, &ExecError{CallID: call.ID, Procedure: call.Procedure, Err: err}
	}
	if slow {
		e.logger.Warn("slow call detected", "call_id", call.ID, "procedure", call.Procedure, "duration", elapsed)
	}
	e.logger.Debug("call executed", "call_id", call.ID, "call", call, "duration", elapsed)
	return res, nil
}

func (e *Engine) exec(ctx context.Context, call *builder.CallResult) (database.Result, error) {
	db := e.conn.Database()
	args := call.Args()

	if e.stmts != nil && !e.noPrepare.Load() {
		key := utils.StatementKey(e.dialect.Name(), call.CallText)
		stmt, release, err := e.stmts.GetOrPrepare(ctx, key, db, call.CallText)
		switch {
		case err == nil:
			defer release()
			res, err := stmt.ExecContext(ctx, args...)
			if err != nil {
				e.stmts.Remove(key)
			}
			return res, err
		case errors.Is(err, database.ErrPrepareUnsupported):
			e.noPrepare.Store(true)
		default:
			return nil, fmt.Errorf("prepare: %w", err)
		}
	}
	return db.ExecContext(ctx, call.CallText, args...)
}

// isSlow reports whether d crossed the slow threshold. A threshold of zero
// or less disables slow-call detection.
func (e *Engine) isSlow(d time.Duration) bool {
	return e.slowThreshold > 0 && d > e.slowThreshold
}
