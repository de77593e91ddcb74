package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/db"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/dberrors"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

const sessionsTable = "portal_sessions"

var sessionColumns = []string{"id", "username", "role", "token", "data", "created_at", "expires_at"}

// PostgresSessionStore keeps sessions in the portal_sessions table. Session
// data is stored as one JSONB document.
type PostgresSessionStore struct {
	db  *db.PostgresDB
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewPostgresSessionStore creates a store backed by database.
func NewPostgresSessionStore(database *db.PostgresDB) *PostgresSessionStore {
	return &PostgresSessionStore{
		db:  database,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now: time.Now,
	}
}

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresSessionStore) Create(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session.Data)
	if err != nil {
		return fmt.Errorf("encoding session data: %w", err)
	}

	sql, args, err := r.sb.Insert(sessionsTable).
		Columns("id", "username", "role", "token", "data", "created_at", "updated_at", "expires_at").
		Values(session.ID, session.Username, session.Role, session.Token, string(data), session.CreatedAt, session.CreatedAt, session.ExpiresAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, sessionsTable+"_pkey") {
			return apperrors.NewBadRequestError("session already exists")
		}
		logger.Error().Err(err).Str("username", session.Username).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

func (r *PostgresSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	return r.get(ctx, r.db.Pool, id, false)
}

func (r *PostgresSessionStore) get(ctx context.Context, q rowQuerier, id string, forUpdate bool) (*models.Session, error) {
	builder := r.sb.Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var (
		session models.Session
		data    []byte
	)
	err = q.QueryRow(ctx, sql, args...).Scan(
		&session.ID, &session.Username, &session.Role, &session.Token,
		&data, &session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	if session.Expired(r.now()) {
		return nil, apperrors.ErrSessionExpired
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &session.Data); err != nil {
			return nil, fmt.Errorf("decoding session data: %w", err)
		}
	}
	return &session, nil
}

func (r *PostgresSessionStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	var updated *models.Session

	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}

		data, err := json.Marshal(session.Data)
		if err != nil {
			return fmt.Errorf("encoding session data: %w", err)
		}

		sql, args, err := r.sb.Update(sessionsTable).
			Set("data", string(data)).
			Set("expires_at", session.ExpiresAt).
			Set("updated_at", r.now()).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update session query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("sessionID", id).Msg("Error executing update session query")
			return fmt.Errorf("error updating session: %w", err)
		}

		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(sessionsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error executing delete session query")
		return fmt.Errorf("error deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

func (r *PostgresSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete(sessionsTable).Where(squirrel.LtOrEq{"expires_at": now}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired sessions query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUndefinedTable(err) {
			logger.Warn().Msg("Session table missing, run migrations")
		}
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
