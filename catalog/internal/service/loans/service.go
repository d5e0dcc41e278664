package loans

import (
	"context"
	"fmt"
	"net/http"

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
		log: log.Named("loans"),
		api: api,
	}
}

func (s *Service) CreateLoan(ctx context.Context, in model.LoanInput) (model.Loan, int, error) {
	var loan model.Loan
	code, err := s.api.Do(ctx, http.MethodPost, s.api.URL("/api/emprestimos"), in, &loan, http.StatusCreated)
	if err != nil {
		s.log.Error("CreateLoan", zap.Int64("livro_id", in.BookID), zap.Int("code", code), zap.Error(err))
		return model.Loan{}, code, err
	}
	return loan, code, nil
}

func (s *Service) History(ctx context.Context, bookID int64) ([]model.Loan, int, error) {
	var loans []model.Loan
	code, err := s.api.Do(ctx, http.MethodGet, s.api.URL(fmt.Sprintf("/api/livros/%d/historico", bookID)), nil, &loans, http.StatusOK)
	if err != nil {
		s.log.Error("History", zap.Int64("livro_id", bookID), zap.Int("code", code), zap.Error(err))
		return nil, code, err
	}
	return loans, code, nil
}

func (s *Service) ReturnLoan(ctx context.Context, loanID int64) (model.Loan, int, error) {
	var loan model.Loan
	code, err := s.api.Do(ctx, http.MethodPatch, s.api.URL(fmt.Sprintf("/api/emprestimos/%d/devolver", loanID)), nil, &loan)
	if err != nil {
		s.log.Error("ReturnLoan", zap.Int64("emprestimo_id", loanID), zap.Int("code", code), zap.Error(err))
		return model.Loan{}, code, err
	}
	return loan, code, nil
}
