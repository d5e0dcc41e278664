package controller

import (
	"context"
	"net/url"

	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/notify"
	"github.com/Astemirdum/livraria/catalog/internal/service/books"
	"github.com/Astemirdum/livraria/catalog/internal/service/loans"
	"github.com/Astemirdum/livraria/catalog/internal/view"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ BookService = (*books.Service)(nil)
	_ LoanService = (*loans.Service)(nil)
	_ Notifier    = (*notify.Notifier)(nil)
)

type BookService interface {
	ListBooks(ctx context.Context, params url.Values) (model.BookPage, int, error)
	CreateBook(ctx context.Context, in model.BookInput) (model.Book, int, error)
	UpdateBook(ctx context.Context, id int64, in model.BookInput) (model.Book, int, error)
	DeleteBook(ctx context.Context, id int64) (int, error)
}

type LoanService interface {
	CreateLoan(ctx context.Context, in model.LoanInput) (model.Loan, int, error)
	History(ctx context.Context, bookID int64) ([]model.Loan, int, error)
	ReturnLoan(ctx context.Context, loanID int64) (model.Loan, int, error)
}

type Notifier interface {
	Success(text string)
	Error(text string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type Renderer interface {
	RenderList(lv view.ListView)
	RenderHistory(hv view.HistoryView)
}
