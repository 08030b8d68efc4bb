package repository

import "database/sql"

// Repository - реестр воркеров кухни (kitchen_workers).
type Repository struct {
	WorkerRepo KitchenRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		WorkerRepo: NewKitchenRepository(db),
	}
}
