package handler

import (
	"context"

	"github.com/Astemirdum/livraria/devserver/internal/model"
	"github.com/Astemirdum/livraria/devserver/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	ListBooks(ctx context.Context, p model.ListParams) (model.ListBooks, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	CreateLoan(ctx context.Context, req model.LoanRequest) (model.Loan, error)
	ReturnLoan(ctx context.Context, id int64) (model.Loan, error)
	History(ctx context.Context, bookID int64) ([]model.Loan, error)
}

var _ CatalogService = (*service.Service)(nil)
