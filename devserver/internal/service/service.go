package service

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/livraria/devserver/internal/errs"
	"github.com/Astemirdum/livraria/devserver/internal/model"
	"github.com/Astemirdum/livraria/devserver/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultLimit  = 10
	defaultSortBy = "titulo"
	defaultOrder  = "asc"
	minYear       = 1000
)

var sortFields = map[string]struct{}{"titulo": {}, "autor": {}, "ano": {}, "id": {}}

var seedBooks = []model.BookFields{
	{Title: "Estruturas de Dados", Author: "N. Wirth", Year: 1976},
	{Title: "Clean Code", Author: "R. Martin", Year: 2008},
	{Title: "Python para Iniciantes", Author: "Jesiel Pedroza", Year: 2025},
}

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	now  func() time.Time
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
		now:  time.Now,
	}
}

// Seed inserts the starter books into an empty catalog.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.repo.CountBooks(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, f := range seedBooks {
		if _, err := s.repo.CreateBook(ctx, f); err != nil {
			return errors.Wrap(err, "seed")
		}
	}
	s.log.Info("seeded catalog", zap.Int("books", len(seedBooks)))
	return nil
}

// NormalizeList applies the listing defaults and rejects unknown sorting.
func NormalizeList(p model.ListParams) (model.ListParams, error) {
	p.Query = strings.TrimSpace(p.Query)
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	p.Order = strings.ToLower(p.Order)
	if p.Order == "" {
		p.Order = defaultOrder
	}
	if _, ok := sortFields[p.SortBy]; !ok || (p.Order != "asc" && p.Order != "desc") {
		return p, errs.ErrInvalidSort
	}
	return p, nil
}

// ListBooks pages through the catalog. A page outside 1..total_pages
// falls back to the first page, or to 0 when nothing matches.
func (s *Service) ListBooks(ctx context.Context, p model.ListParams) (model.ListBooks, error) {
	p, err := NormalizeList(p)
	if err != nil {
		return model.ListBooks{}, err
	}

	books, total, err := s.repo.ListBooks(ctx, p)
	if err != nil {
		return model.ListBooks{}, err
	}
	totalPages := 1
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	if p.Page < 1 || p.Page > totalPages {
		p.Page = 1
		if total == 0 {
			p.Page = 0
		}
		if total > 0 {
			if books, _, err = s.repo.ListBooks(ctx, p); err != nil {
				return model.ListBooks{}, err
			}
		}
	}
	return model.ListBooks{
		Books:       books,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		Limit:       p.Limit,
	}, nil
}

// BookFields checks a create or update body.
func (s *Service) BookFields(req model.BookRequest) (model.BookFields, error) {
	if req.Title == nil || req.Author == nil || req.Year == nil {
		return model.BookFields{}, errs.ErrBookFields
	}
	f := model.BookFields{
		Title:  strings.TrimSpace(*req.Title),
		Author: strings.TrimSpace(*req.Author),
	}
	if f.Title == "" || f.Author == "" {
		return model.BookFields{}, errs.ErrBlankBook
	}
	year, err := req.Year.Int64()
	if err != nil {
		return model.BookFields{}, errs.ErrYearNotInt
	}
	if year < minYear || year > int64(s.now().Year()+1) {
		return model.BookFields{}, errs.ErrInvalidYear
	}
	f.Year = int(year)
	return f, nil
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	f, err := s.BookFields(req)
	if err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, f)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	if req.Title == nil || req.Author == nil || req.Year == nil {
		return model.Book{}, errs.ErrBookFields
	}
	if _, err := s.repo.GetBook(ctx, id); err != nil {
		return model.Book{}, err
	}
	f, err := s.BookFields(req)
	if err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, f)
}

// DeleteBook refuses while the book is on loan.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if _, err := s.repo.GetBook(ctx, id); err != nil {
		return err
	}
	open, err := s.repo.HasOpenLoan(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return errs.ErrDeleteBorrowed
	}
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) CreateLoan(ctx context.Context, req model.LoanRequest) (model.Loan, error) {
	if req.BookID == nil || req.Borrower == nil {
		return model.Loan{}, errs.ErrLoanFields
	}
	borrower := strings.TrimSpace(*req.Borrower)
	if borrower == "" {
		return model.Loan{}, errs.ErrBlankBorrower
	}
	if _, err := s.repo.GetBook(ctx, *req.BookID); err != nil {
		return model.Loan{}, err
	}
	return s.repo.CreateLoan(ctx, *req.BookID, borrower, model.NewTimestamp(s.now()))
}

func (s *Service) ReturnLoan(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.ReturnLoan(ctx, id, model.NewTimestamp(s.now()))
}

func (s *Service) History(ctx context.Context, bookID int64) ([]model.Loan, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, bookID)
}
