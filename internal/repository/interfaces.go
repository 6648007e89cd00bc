package repository

import (
	"context"
	"errors"

	"github.com/codexlib/libraryd/internal/db"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BookRepository is the persistence contract for catalog records.
type BookRepository interface {
	List(ctx context.Context) ([]db.Book, error)
	GetByID(ctx context.Context, id int64) (*db.Book, error)
	Create(ctx context.Context, book *db.Book) error
	Update(ctx context.Context, book *db.Book) error
	Delete(ctx context.Context, id int64) error
}
