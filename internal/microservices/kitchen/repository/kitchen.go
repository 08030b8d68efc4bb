package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrWorkerOnline - воркер с таким именем уже работает.
var ErrWorkerOnline = errors.New("worker already online")

type KitchenRepositoryInterface interface {
	RegisterOrFail(ctx context.Context, name string) error
	SetOffline(ctx context.Context, name string) error
	Heartbeat(ctx context.Context, name string) error
	MarkProcessed(ctx context.Context, name string) error
}

type KitchenRepository struct {
	db *sql.DB
}

func NewKitchenRepository(db *sql.DB) KitchenRepositoryInterface {
	return &KitchenRepository{db: db}
}

func (r *KitchenRepository) Heartbeat(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE kitchen_workers SET last_seen=now() WHERE name=$1`, name)
	return err
}

// RegisterOrFail помечает воркера online; если он уже online, возвращает ErrWorkerOnline.
func (r *KitchenRepository) RegisterOrFail(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM kitchen_workers WHERE name=$1 FOR UPDATE`, name).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kitchen_workers(name, status, last_seen) VALUES ($1, 'online', now())
		`, name); err != nil {
			return fmt.Errorf("insert worker: %w", err)
		}
	case err != nil:
		return err
	case status == "online":
		return fmt.Errorf("%w: %s", ErrWorkerOnline, name)
	default:
		if _, err := tx.ExecContext(ctx, `
			UPDATE kitchen_workers SET status='online', last_seen=now() WHERE name=$1
		`, name); err != nil {
			return fmt.Errorf("update worker: %w", err)
		}
	}
	return tx.Commit()
}

func (r *KitchenRepository) SetOffline(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE kitchen_workers SET status='offline', last_seen=now() WHERE name=$1`, name)
	return err
}

func (r *KitchenRepository) MarkProcessed(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE kitchen_workers SET orders_processed = orders_processed + 1, last_seen=now()
		WHERE name=$1
	`, name)
	return err
}
