package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/db"
)

// DefaultQueryTimeout bounds each Postgres round trip.
const DefaultQueryTimeout = 5 * time.Second

// sessionValues is the subset of *db.DB the Postgres store needs.
type sessionValues interface {
	GetSessionValue(ctx context.Context, namespace uuid.UUID, key string) (*db.SessionValue, error)
	PutSessionValue(ctx context.Context, namespace uuid.UUID, key, value string) error
	DeleteSessionValue(ctx context.Context, namespace uuid.UUID, key string) error
	DeleteSessionValuesExcept(ctx context.Context, namespace uuid.UUID, keep []string) (int64, error)
}

// Postgres stores one session namespace in the session_values table.
type Postgres struct {
	db        sessionValues
	namespace uuid.UUID
	timeout   time.Duration
	log       *zap.Logger
}

// NewPostgres returns a store scoped to namespace.
func NewPostgres(database *db.DB, namespace uuid.UUID, log *zap.Logger) *Postgres {
	return newPostgres(database, namespace, log)
}

func newPostgres(values sessionValues, namespace uuid.UUID, log *zap.Logger) *Postgres {
	if log == nil {
		log = zap.NewNop()
	}
	return &Postgres{
		db:        values,
		namespace: namespace,
		timeout:   DefaultQueryTimeout,
		log:       log.With(zap.String("namespace", namespace.String())),
	}
}

// Namespace returns the session namespace this store reads and writes.
func (p *Postgres) Namespace() uuid.UUID {
	return p.namespace
}

func (p *Postgres) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	v, err := p.db.GetSessionValue(ctx, p.namespace, key)
	if err != nil {
		p.log.Warn("session read failed, treating as absent", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if v == nil {
		return "", false
	}
	return v.Value, true
}

func (p *Postgres) Put(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.db.PutSessionValue(ctx, p.namespace, key, value)
}

func (p *Postgres) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.db.DeleteSessionValue(ctx, p.namespace, key)
}

func (p *Postgres) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	removed, err := p.db.DeleteSessionValuesExcept(ctx, p.namespace, PreservedKeys())
	if err != nil {
		return err
	}
	p.log.Debug("session reset", zap.Int64("removed", removed))
	return nil
}
