package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetSessionValue returns the value stored under key, or nil if there is none.
func (db *DB) GetSessionValue(ctx context.Context, namespace uuid.UUID, key string) (*SessionValue, error) {
	v := SessionValue{Namespace: namespace, Key: key}
	err := db.pool.QueryRow(ctx,
		`SELECT value, updated_at FROM session_values WHERE namespace = $1 AND key = $2`,
		namespace, key,
	).Scan(&v.Value, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session value: %w", err)
	}
	return &v, nil
}

// PutSessionValue inserts or replaces the value stored under key.
func (db *DB) PutSessionValue(ctx context.Context, namespace uuid.UUID, key, value string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO session_values (namespace, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put session value: %w", err)
	}
	return nil
}

// DeleteSessionValue removes key from the namespace.
func (db *DB) DeleteSessionValue(ctx context.Context, namespace uuid.UUID, key string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM session_values WHERE namespace = $1 AND key = $2`,
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// DeleteSessionValuesExcept removes every key in the namespace not listed in keep,
// in a single statement.
func (db *DB) DeleteSessionValuesExcept(ctx context.Context, namespace uuid.UUID, keep []string) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM session_values WHERE namespace = $1 AND NOT (key = ANY($2))`,
		namespace, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset session values: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListSessionValues returns all values in the namespace ordered by key.
func (db *DB) ListSessionValues(ctx context.Context, namespace uuid.UUID) ([]SessionValue, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT key, value, updated_at FROM session_values WHERE namespace = $1 ORDER BY key`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list session values: %w", err)
	}
	defer rows.Close()

	var values []SessionValue
	for rows.Next() {
		v := SessionValue{Namespace: namespace}
		if err := rows.Scan(&v.Key, &v.Value, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session values: %w", err)
	}
	return values, nil
}
