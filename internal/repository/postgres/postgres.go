package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexlib/libraryd/internal/db"
	"github.com/codexlib/libraryd/internal/repository"
)

// Repository implements BookRepository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository on the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]db.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT book_id, title, author, isbn, category, borrowed FROM book ORDER BY book_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []db.Book
	for rows.Next() {
		var b db.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Borrowed); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*db.Book, error) {
	var b db.Book
	err := r.pool.QueryRow(ctx,
		`SELECT book_id, title, author, isbn, category, borrowed FROM book WHERE book_id = $1`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Borrowed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, book *db.Book) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO book (title, author, isbn, category, borrowed)
		 VALUES ($1, $2, $3, $4, $5) RETURNING book_id`,
		book.Title, book.Author, book.ISBN, book.Category, book.Borrowed).
		Scan(&book.ID)
}

func (r *Repository) Update(ctx context.Context, book *db.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE book SET title = $2, author = $3, isbn = $4, category = $5, borrowed = $6
		 WHERE book_id = $1`,
		book.ID, book.Title, book.Author, book.ISBN, book.Category, book.Borrowed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM book WHERE book_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BookRepository = (*Repository)(nil)
