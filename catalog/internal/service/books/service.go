package books

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/service/httpx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger
	api *httpx.Client
}

func NewService(log *zap.Logger, api *httpx.Client) *Service {
	return &Service{
		log: log.Named("books"),
		api: api,
	}
}

func (s *Service) ListBooks(ctx context.Context, params url.Values) (model.BookPage, int, error) {
	var page model.BookPage
	code, err := s.api.Do(ctx, http.MethodGet, s.api.URL("/api/livros?"+params.Encode()), nil, &page, http.StatusOK)
	if err != nil {
		s.log.Error("ListBooks", zap.Int("code", code), zap.Error(err))
		return model.BookPage{}, code, err
	}
	return page, code, nil
}

func (s *Service) CreateBook(ctx context.Context, in model.BookInput) (model.Book, int, error) {
	var book model.Book
	code, err := s.api.Do(ctx, http.MethodPost, s.api.URL("/api/livros"), in, &book, http.StatusCreated)
	if err != nil {
		s.log.Error("CreateBook", zap.Int("code", code), zap.Error(err))
		return model.Book{}, code, err
	}
	return book, code, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int64, in model.BookInput) (model.Book, int, error) {
	var book model.Book
	code, err := s.api.Do(ctx, http.MethodPut, s.api.URL(fmt.Sprintf("/api/livros/%d", id)), in, &book)
	if err != nil {
		s.log.Error("UpdateBook", zap.Int64("id", id), zap.Int("code", code), zap.Error(err))
		return model.Book{}, code, err
	}
	return book, code, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) (int, error) {
	code, err := s.api.Do(ctx, http.MethodDelete, s.api.URL(fmt.Sprintf("/api/livros/%d", id)), nil, nil, http.StatusNoContent)
	if err != nil {
		s.log.Error("DeleteBook", zap.Int64("id", id), zap.Int("code", code), zap.Error(err))
		return code, err
	}
	return code, nil
}
