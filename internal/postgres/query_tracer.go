package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/invoicebuild/invoicebuild/internal/logger"
	"github.com/jmoiron/sqlx"
)

// slowQuery is the duration above which a completed query is logged at warn
const slowQuery = 250 * time.Millisecond

type queryTrace struct {
	logger *logger.Logger
	query  string
	txID   string
	start  time.Time
}

func startTrace(logger *logger.Logger, query string, txID string) *queryTrace {
	return &queryTrace{logger: logger, query: query, txID: txID, start: time.Now()}
}

// done logs the outcome. Parameters are left out, they carry addresses and
// amounts.
func (t *queryTrace) done(err error) {
	elapsed := time.Since(t.start)
	fields := []interface{}{
		"duration_ms", elapsed.Milliseconds(),
		"query", t.query,
	}
	if t.txID != "" {
		fields = append(fields, "tx_id", t.txID)
	}

	switch {
	case err != nil && err != sql.ErrNoRows:
		t.logger.Errorw("database query failed", append(fields, "error", err.Error())...)
	case elapsed > slowQuery:
		t.logger.Warnw("slow database query", fields...)
	default:
		t.logger.Debugw("database query completed", fields...)
	}
}

// TracedQuerier logs every statement run through the wrapped Querier
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace := startTrace(tq.logger, query, tq.txID)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startTrace(tq.logger, query, tq.txID)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startTrace(tq.logger, query, tq.txID)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}

func (tq *TracedQuerier) NamedExec(query string, arg interface{}) (sql.Result, error) {
	trace := startTrace(tq.logger, query, tq.txID)
	result, err := tq.Querier.NamedExec(query, arg)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) NamedQuery(query string, arg interface{}) (*sqlx.Rows, error) {
	trace := startTrace(tq.logger, query, tq.txID)
	rows, err := tq.Querier.NamedQuery(query, arg)
	trace.done(err)
	return rows, err
}
