package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/wearsync/internal/crypto"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// TokenUpdate is the result of a refresh. An empty RefreshToken keeps the
// stored one.
type TokenUpdate struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Repo persists wearable connections, one row per (user, provider).
type Repo struct {
	db     *pgxpool.Pool
	sealer crypto.Sealer
}

func NewRepo(db *pgxpool.Pool, sealer crypto.Sealer) *Repo {
	if sealer == nil {
		sealer = crypto.NoopSealer{}
	}
	return &Repo{
		db:     db,
		sealer: sealer,
	}
}

// Save registers a connection after a completed OAuth flow, replacing and
// reactivating any previous one for the same (user, provider).
func (r *Repo) Save(ctx context.Context, conn *wearable.Connection) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("provider", conn.Provider.String()))

	if conn.UserID == "" || conn.AccessToken == "" {
		return errors.New("user id or access token empty")
	}

	accessToken, err := r.sealer.Seal(conn.AccessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refreshToken, err := r.sealer.Seal(conn.RefreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	var timezone *string
	if conn.Timezone != "" {
		timezone = &conn.Timezone
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO wearable_connection (
			user_id, provider, provider_account_id, display_name, access_token, refresh_token,
			scope, expires_at, is_active, timezone, connected_at, last_error, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, now(), NULL, now())
		ON CONFLICT (user_id, provider) DO UPDATE SET
			provider_account_id = EXCLUDED.provider_account_id,
			display_name = EXCLUDED.display_name,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			scope = EXCLUDED.scope,
			expires_at = EXCLUDED.expires_at,
			is_active = TRUE,
			timezone = COALESCE(EXCLUDED.timezone, wearable_connection.timezone),
			connected_at = now(),
			last_error = NULL,
			updated_at = now()`,
		conn.UserID, conn.Provider.String(), conn.ProviderAccountID, conn.DisplayName, accessToken, refreshToken,
		conn.Scope, conn.ExpiresAt, timezone,
	)
	if err != nil {
		return fmt.Errorf("upsert connection: %w", err)
	}
	return nil
}

// GetActive returns the active connection, or wearable.ErrNoActiveConnection.
func (r *Repo) GetActive(ctx context.Context, userID string, provider wearable.Provider) (_ *wearable.Connection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("provider", provider.String()))

	var (
		conn         wearable.Connection
		providerName string
		timezone     *string
	)
	err = r.db.QueryRow(ctx, `
		SELECT
			user_id, provider, provider_account_id, display_name, access_token, refresh_token,
			scope, expires_at, is_active, timezone, connected_at, last_sync_at, last_error, updated_at
		FROM wearable_connection
		WHERE user_id = $1 AND provider = $2 AND is_active`,
		userID, provider.String(),
	).Scan(
		&conn.UserID, &providerName, &conn.ProviderAccountID, &conn.DisplayName, &conn.AccessToken, &conn.RefreshToken,
		&conn.Scope, &conn.ExpiresAt, &conn.IsActive, &timezone, &conn.ConnectedAt, &conn.LastSyncAt, &conn.LastError, &conn.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, wearable.ErrNoActiveConnection
	}
	if err != nil {
		return nil, fmt.Errorf("query connection: %w", err)
	}

	conn.Provider = wearable.Provider(providerName)
	if timezone != nil {
		conn.Timezone = *timezone
	}
	if conn.AccessToken, err = r.sealer.Open(conn.AccessToken); err != nil {
		return nil, fmt.Errorf("open access token: %w", err)
	}
	if conn.RefreshToken, err = r.sealer.Open(conn.RefreshToken); err != nil {
		return nil, fmt.Errorf("open refresh token: %w", err)
	}

	return &conn, nil
}

// ListActiveUserIDs lists users with an active connection to the provider.
func (r *Repo) ListActiveUserIDs(ctx context.Context, provider wearable.Provider) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.listActiveUserIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM wearable_connection
		WHERE provider = $1 AND is_active
		ORDER BY user_id`,
		provider.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query active connections: %w", err)
	}

	userIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect user ids: %w", err)
	}
	return userIDs, nil
}

// UpdateTokens stores refreshed tokens. The refresh token is only replaced
// when the provider rotated it (last write wins otherwise).
func (r *Repo) UpdateTokens(ctx context.Context, userID string, provider wearable.Provider, update TokenUpdate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.updateTokens")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	accessToken, err := r.sealer.Seal(update.AccessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refreshToken, err := r.sealer.Seal(update.RefreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE wearable_connection SET
			access_token = $3,
			refresh_token = COALESCE(NULLIF($4, ''), refresh_token),
			expires_at = $5,
			updated_at = now()
		WHERE user_id = $1 AND provider = $2`,
		userID, provider.String(), accessToken, refreshToken, update.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wearable.ErrNoActiveConnection
	}
	return nil
}

// Deactivate marks the connection inactive, e.g. after the provider revoked
// authorization or the user disconnected.
func (r *Repo) Deactivate(ctx context.Context, userID string, provider wearable.Provider, reason string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.deactivate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		UPDATE wearable_connection SET
			is_active = FALSE,
			last_error = $3,
			updated_at = now()
		WHERE user_id = $1 AND provider = $2`,
		userID, provider.String(), reason,
	)
	if err != nil {
		return fmt.Errorf("deactivate connection: %w", err)
	}
	return nil
}

// MarkSynced records a sync in which at least one metric was fetched.
func (r *Repo) MarkSynced(ctx context.Context, userID string, provider wearable.Provider, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.markSynced")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		UPDATE wearable_connection SET
			last_sync_at = $3,
			last_error = NULL,
			updated_at = $3
		WHERE user_id = $1 AND provider = $2`,
		userID, provider.String(), at,
	)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkFailed records a failed sync, last_sync_at is left untouched.
func (r *Repo) MarkFailed(ctx context.Context, userID string, provider wearable.Provider, message string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tokens.markFailed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		UPDATE wearable_connection SET
			last_error = $3,
			updated_at = now()
		WHERE user_id = $1 AND provider = $2`,
		userID, provider.String(), message,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}
