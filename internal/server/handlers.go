package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codexlib/libraryd/internal/db"
	"github.com/codexlib/libraryd/internal/httpx"
	"github.com/codexlib/libraryd/internal/repository"
	"github.com/codexlib/libraryd/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin verifies credentials and issues a token. Failures return
// a bare 401 with an empty body: unknown user and wrong password are
// indistinguishable by design.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	token, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.List(r.Context())
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	if books == nil {
		books = []db.Book{}
	}
	httpx.JSON(w, http.StatusOK, books)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := s.bookService.GetByID(r.Context(), id)
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var input service.BookInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	book, err := s.bookService.Create(r.Context(), input)
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var input service.BookInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	book, err := s.bookService.Update(r.Context(), id, input)
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	if err := s.bookService.Delete(r.Context(), id); err != nil {
		s.respondBookError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleBorrowBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := s.bookService.Borrow(r.Context(), id)
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (s *Server) handleReturnBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := s.bookService.Return(r.Context(), id)
	if err != nil {
		s.respondBookError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, s.collector.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks the dependencies that serve live traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", "redis unavailable")
		return
	}
	if s.pool != nil {
		if err := s.pool.Ping(ctx); err != nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", "postgres unavailable")
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid book id")
		return 0, false
	}
	return id, true
}

func (s *Server) respondBookError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "book not found")
	case errors.Is(err, service.ErrAlreadyBorrowed):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, service.ErrNotBorrowed):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	default:
		s.logger.Error("book operation failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
