package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/codexlib/libraryd/internal/db"
	"github.com/codexlib/libraryd/internal/repository"
)

// Repository is an in-memory BookRepository for tests and dev mode.
type Repository struct {
	books  map[int64]db.Book
	nextID int64
	mu     sync.RWMutex
}

// New constructs an empty Repository.
func New() *Repository {
	return &Repository{
		books:  make(map[int64]db.Book),
		nextID: 1,
	}
}

func (r *Repository) List(ctx context.Context) ([]db.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	books := make([]db.Book, 0, len(r.books))
	for _, b := range r.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*db.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, book *db.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = *book
	return nil
}

func (r *Repository) Update(ctx context.Context, book *db.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[book.ID]; !ok {
		return repository.ErrNotFound
	}
	r.books[book.ID] = *book
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

var _ repository.BookRepository = (*Repository)(nil)
