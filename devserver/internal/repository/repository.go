package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Astemirdum/livraria/devserver/internal/errs"
	"github.com/Astemirdum/livraria/devserver/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"
)

type Repository interface {
	ListBooks(ctx context.Context, p model.ListParams) ([]model.Book, int, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, f model.BookFields) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, f model.BookFields) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	CountBooks(ctx context.Context) (int, error)

	CreateLoan(ctx context.Context, bookID int64, borrower string, at model.Timestamp) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	ReturnLoan(ctx context.Context, id int64, at model.Timestamp) (model.Loan, error)
	History(ctx context.Context, bookID int64) ([]model.Loan, error)
	HasOpenLoan(ctx context.Context, bookID int64) (bool, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `livros`
	loansTableName = `emprestimos`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var sortColumns = map[string]string{
	"titulo": "b.titulo",
	"autor":  "b.autor",
	"ano":    "b.ano",
	"id":     "b.id",
}

// selectBooks derives availability from the open loan, if any.
func selectBooks() sq.SelectBuilder {
	return qb.Select("b.id", "b.titulo", "b.autor", "b.ano", "e.nome_usuario as emprestado_para").
		From(booksTableName + " b").
		LeftJoin(loansTableName + " e on e.livro_id = b.id and e.data_devolucao is null")
}

func withAvailability(books []model.Book) []model.Book {
	for i := range books {
		books[i].Available = books[i].BorrowedBy == nil
	}
	return books
}

func filterBooks(q sq.SelectBuilder, search string) sq.SelectBuilder {
	if search == "" {
		return q
	}
	pattern := "%" + search + "%"
	return q.Where(sq.Or{sq.Like{"b.titulo": pattern}, sq.Like{"b.autor": pattern}})
}

// ListBooks returns one page and the total number of matching books.
func (r *repository) ListBooks(ctx context.Context, p model.ListParams) ([]model.Book, int, error) {
	countQuery, args, err := filterBooks(qb.Select("count(*)").From(booksTableName+" b"), p.Query).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count books")
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		return nil, 0, errs.ErrInvalidSort
	}
	order := column + " " + strings.ToUpper(p.Order)
	q := filterBooks(selectBooks(), p.Query).OrderBy(order, "b.id")
	if p.Page > 0 && p.Limit > 0 {
		q = q.Limit(uint64(p.Limit)).Offset(uint64((p.Page - 1) * p.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "select books")
	}
	return withAvailability(books), total, nil
}

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "select count(*) from "+booksTableName)
	return n, err
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := selectBooks().Where(sq.Eq{"b.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	book.Available = book.BorrowedBy == nil
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, f model.BookFields) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("titulo", "autor", "ano").
		Values(f.Title, f.Author, f.Year).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "insert book")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Book{}, err
	}
	return model.Book{ID: id, Title: f.Title, Author: f.Author, Year: f.Year, Available: true}, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, f model.BookFields) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("titulo", f.Title).
		Set("autor", f.Author).
		Set("ano", f.Year).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "update book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Book{}, errs.ErrBookNotFound
	}
	return r.GetBook(ctx, id)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *repository) HasOpenLoan(ctx context.Context, bookID int64) (bool, error) {
	query, args, err := qb.Select("count(*)").
		From(loansTableName).
		Where(sq.Eq{"livro_id": bookID, "data_devolucao": nil}).
		ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateLoan relies on the partial unique index for the one-open-loan rule.
func (r *repository) CreateLoan(ctx context.Context, bookID int64, borrower string, at model.Timestamp) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns("livro_id", "nome_usuario", "data_emprestimo").
		Values(bookID, borrower, at).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
				return model.Loan{}, errs.ErrBookNotFound
			}
			return model.Loan{}, errs.ErrBookBorrowed
		}
		return model.Loan{}, errors.Wrap(err, "insert loan")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Loan{}, err
	}
	return model.Loan{ID: id, BookID: bookID, Borrower: borrower, LoanedAt: at, Open: true}, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	query, args, err := qb.Select("id", "livro_id", "nome_usuario", "data_emprestimo", "data_devolucao").
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	loan.Open = loan.ReturnedAt == nil
	return loan, nil
}

func (r *repository) ReturnLoan(ctx context.Context, id int64, at model.Timestamp) (model.Loan, error) {
	query, args, err := qb.Update(loansTableName).
		Set("data_devolucao", at).
		Where(sq.Eq{"id": id, "data_devolucao": nil}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "return loan")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetLoan(ctx, id); err != nil {
			return model.Loan{}, err
		}
		return model.Loan{}, errs.ErrAlreadyReturned
	}
	return r.GetLoan(ctx, id)
}

// History lists the loans of a book, newest first.
func (r *repository) History(ctx context.Context, bookID int64) ([]model.Loan, error) {
	query, args, err := qb.Select("id", "livro_id", "nome_usuario", "data_emprestimo", "data_devolucao").
		From(loansTableName).
		Where(sq.Eq{"livro_id": bookID}).
		OrderBy("data_emprestimo desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, errors.Wrap(err, "select history")
	}
	for i := range loans {
		loans[i].Open = loans[i].ReturnedAt == nil
	}
	return loans, nil
}
