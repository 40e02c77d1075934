package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo writes and reads normalized metric rows. Rows are only ever upserted.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes all records in a single transaction, keyed by (user_id, date)
// per table. Columns not present on a record keep their stored value.
func (r *Repo) Upsert(ctx context.Context, recs []wearable.MetricRecord, syncedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("records", len(recs)))

	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		query, args, err := UpsertStatement(rec, syncedAt)
		if err != nil {
			return err
		}
		batch.Queue(query, args...)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	br := tx.SendBatch(ctx, batch)
	for i := range recs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert %s/%s for %s: %w", recs[i].Provider, recs[i].Kind, recs[i].Day(), err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpsertStatement builds the INSERT ... ON CONFLICT statement for one record.
// Table names come from the wearable whitelist, column names are quoted.
func UpsertStatement(rec wearable.MetricRecord, syncedAt time.Time) (string, []any, error) {
	table, ok := rec.Table()
	if !ok {
		return "", nil, fmt.Errorf("%w: %s/%s", wearable.ErrUnknownMetric, rec.Provider, rec.Kind)
	}
	if rec.UserID == "" || rec.Date.IsZero() {
		return "", nil, fmt.Errorf("record %s without user or date", table)
	}

	columns := []string{"user_id", "date"}
	args := []any{rec.UserID, rec.Date}
	updates := make([]string, 0, len(rec.Fields)+1)
	for _, f := range rec.Fields {
		col := pgx.Identifier{f.Column}.Sanitize()
		columns = append(columns, col)
		args = append(args, f.Value)
		updates = append(updates, col+" = EXCLUDED."+col)
	}
	columns = append(columns, "synced_at")
	args = append(args, syncedAt)
	updates = append(updates, "synced_at = EXCLUDED.synced_at")

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (user_id, date) DO UPDATE SET %s",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
	return query, args, nil
}

// Recent returns the rows of one metric table for the user since the given
// date, newest first, each row as a JSON object.
func (r *Repo) Recent(ctx context.Context, provider wearable.Provider, kind wearable.MetricKind, userID string, since time.Time) (_ []json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	table, ok := wearable.TableFor(provider, kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", wearable.ErrUnknownMetric, provider, kind)
	}
	span.SetAttributes(attribute.String("table", table))

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT row_to_json(t)
		FROM %s t
		WHERE t.user_id = $1 AND t.date >= $2
		ORDER BY t.date DESC`, pgx.Identifier{table}.Sanitize()),
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (json.RawMessage, error) {
		var raw []byte
		if err := row.Scan(&raw); err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s rows: %w", table, err)
	}
	return result, nil
}
