package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a cross-process Store backed by a pgx connection pool. Each
// plan is stored as a single JSON blob keyed by its script-content hash,
// since the value's shape (transform map, transform plan, throttling
// array, throttling plan) has no relational structure worth normalizing.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against connStr and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("planstore: unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("planstore: ping failed: %w", err)
	}
	log.Println("[planstore] connected to PostgreSQL plan cache")
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// InitSchema creates the plan_cache table if it does not already exist.
func (p *Postgres) InitSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS plan_cache (
			script_hash TEXT PRIMARY KEY,
			plan_json   JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("planstore: failed to initialize schema: %w", err)
	}
	log.Println("[planstore] schema initialized")
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (Plan, bool, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT plan_json FROM plan_cache WHERE script_hash = $1`, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, false, nil
		}
		return Plan{}, false, fmt.Errorf("planstore: query failed: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return Plan{}, false, fmt.Errorf("planstore: malformed cached plan: %w", err)
	}
	return plan, true, nil
}

func (p *Postgres) Put(ctx context.Context, key string, plan Plan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("planstore: failed to marshal plan: %w", err)
	}

	const upsert = `
		INSERT INTO plan_cache (script_hash, plan_json)
		VALUES ($1, $2)
		ON CONFLICT (script_hash) DO UPDATE
		SET plan_json = EXCLUDED.plan_json;
	`
	if _, err := p.pool.Exec(ctx, upsert, key, raw); err != nil {
		return fmt.Errorf("planstore: failed to persist plan: %w", err)
	}
	return nil
}
