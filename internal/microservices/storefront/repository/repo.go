package repository

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict - статус заказа изменился между чтением и записью.
	ErrConflict = errors.New("concurrent update")
)

type Repository struct {
	MenuRepo  MenuRepositoryInterface
	OrderRepo OrderRepositoryInterface
}

// New - репозитории поверх Postgres.
func New(db *sql.DB) *Repository {
	return &Repository{
		MenuRepo:  NewMenuRepository(db),
		OrderRepo: NewOrderRepository(db),
	}
}

// NewMemory - репозитории в памяти процесса с демо-рестораном; используются,
// когда база не настроена.
func NewMemory() *Repository {
	return &Repository{
		MenuRepo:  NewMemoryMenuRepository(SeedMenu()),
		OrderRepo: NewMemoryOrderRepository(),
	}
}
