package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/codexlib/libraryd/internal/cache"
	"github.com/codexlib/libraryd/internal/db"
	"github.com/codexlib/libraryd/internal/repository"
)

// Lending errors surfaced to the HTTP layer.
var (
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrNotBorrowed     = errors.New("book is not borrowed")
)

// ValidationError wraps field-level validation failures.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string { return e.err.Error() }
func (e *ValidationError) Unwrap() error { return e.err }

// BookInput is the writable part of a book record. ID and the borrowed
// flag are server-controlled and not accepted from clients.
type BookInput struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	ISBN     string `json:"isbn" validate:"required"`
	Category string `json:"category" validate:"required"`
}

const bookCacheTTL = 30 * time.Second

// BookService implements catalog operations over a repository, with a
// small read-through cache on by-id lookups.
type BookService struct {
	repo     repository.BookRepository
	cache    *cache.MemoryCache
	validate *validator.Validate
}

// NewBookService constructs a BookService.
func NewBookService(repo repository.BookRepository, c *cache.MemoryCache) *BookService {
	return &BookService{
		repo:     repo,
		cache:    c,
		validate: validator.New(),
	}
}

// List returns all catalog records.
func (s *BookService) List(ctx context.Context) ([]db.Book, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single record, consulting the cache first.
func (s *BookService) GetByID(ctx context.Context, id int64) (*db.Book, error) {
	if s.cache != nil {
		if val, found := s.cache.Get(bookCacheKey(id)); found {
			if book, ok := val.(db.Book); ok {
				return &book, nil
			}
		}
	}
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(bookCacheKey(book.ID), *book, bookCacheTTL)
	}
	return book, nil
}

// Create validates and stores a new record. New books always start
// un-borrowed regardless of client input.
func (s *BookService) Create(ctx context.Context, input BookInput) (*db.Book, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &ValidationError{err: err}
	}
	book := &db.Book{
		Title:    input.Title,
		Author:   input.Author,
		ISBN:     input.ISBN,
		Category: input.Category,
		Borrowed: false,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// Update replaces the writable fields of an existing record. The
// borrowed flag is preserved; lending state changes only through
// Borrow and Return.
func (s *BookService) Update(ctx context.Context, id int64, input BookInput) (*db.Book, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &ValidationError{err: err}
	}
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Title = input.Title
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.Category = input.Category
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return book, nil
}

// Delete removes a record.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// Borrow flips the lending flag on, failing if already set.
func (s *BookService) Borrow(ctx context.Context, id int64) (*db.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.Borrowed {
		return nil, ErrAlreadyBorrowed
	}
	book.Borrowed = true
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return book, nil
}

// Return flips the lending flag off, failing if not set.
func (s *BookService) Return(ctx context.Context, id int64) (*db.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.Borrowed {
		return nil, ErrNotBorrowed
	}
	book.Borrowed = false
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return book, nil
}

func (s *BookService) invalidate(id int64) {
	if s.cache != nil {
		s.cache.Delete(bookCacheKey(id))
	}
}

func bookCacheKey(id int64) string {
	return "book:" + strconv.FormatInt(id, 10)
}
