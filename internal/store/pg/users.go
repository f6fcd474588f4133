// Package pg implementa store.UserRepository sobre PostgreSQL (pgxpool).
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore es el repositorio de usuarios sobre un pool pgx.
type UserStore struct {
	pool *pgxpool.Pool
}

// Config para abrir el pool.
type Config struct {
	DSN             string
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, cfg Config) (*UserStore, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &UserStore{pool: pool}, nil
}

// Close cierra el pool.
func (s *UserStore) Close() { s.pool.Close() }

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*store.UserRecord, error) {
	const q = `SELECT id, email, password_hash, email_verified FROM users WHERE lower(email) = lower($1)`
	return s.findOne(ctx, q, email)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*store.UserRecord, error) {
	const q = `SELECT id, email, password_hash, email_verified FROM users WHERE id = $1`
	return s.findOne(ctx, q, id)
}

func (s *UserStore) findOne(ctx context.Context, q string, arg any) (*store.UserRecord, error) {
	var rec store.UserRecord
	err := s.pool.QueryRow(ctx, q, arg).Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.EmailVerified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find user: %w", err)
	}
	return &rec, nil
}
