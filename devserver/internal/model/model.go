package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Book struct {
	ID         int64   `db:"id" json:"id"`
	Title      string  `db:"titulo" json:"titulo"`
	Author     string  `db:"autor" json:"autor"`
	Year       int     `db:"ano" json:"ano"`
	Available  bool    `db:"-" json:"disponivel"`
	BorrowedBy *string `db:"emprestado_para" json:"emprestado_para"`
}

// BookFields is a validated create or update of a book.
type BookFields struct {
	Title  string
	Author string
	Year   int
}

// BookRequest is the raw body of POST and PUT /api/livros. Text fields
// are checked for presence by the service, so that an empty value gets
// its own message.
type BookRequest struct {
	Title  *string      `json:"titulo"`
	Author *string      `json:"autor"`
	Year   *json.Number `json:"ano" validate:"required"`
}

type ListParams struct {
	Query  string
	Page   int
	Limit  int
	SortBy string
	Order  string
}

type ListBooks struct {
	Books       []Book `json:"livros"`
	Total       int    `json:"total_livros"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Limit       int    `json:"limit"`
}

type Loan struct {
	ID         int64      `db:"id" json:"id"`
	BookID     int64      `db:"livro_id" json:"livro_id"`
	Borrower   string     `db:"nome_usuario" json:"nome_usuario"`
	LoanedAt   Timestamp  `db:"data_emprestimo" json:"data_emprestimo"`
	ReturnedAt *Timestamp `db:"data_devolucao" json:"data_devolucao"`
	Open       bool       `db:"-" json:"aberto"`
}

type LoanRequest struct {
	BookID   *int64  `json:"livro_id" validate:"required"`
	Borrower *string `json:"nome_usuario"`
}

// LoanEvent is published on every loan state change.
type LoanEvent struct {
	Type     string    `json:"type"`
	LoanID   int64     `json:"emprestimo_id"`
	BookID   int64     `json:"livro_id"`
	Borrower string    `json:"nome_usuario"`
	At       time.Time `json:"at"`
}

const (
	EventLoanCreated  = "loan.created"
	EventLoanReturned = "loan.returned"
)

const (
	// storeLayout sorts lexically in time order.
	storeLayout = "2006-01-02 15:04:05.000000"
	wireLayout  = "2006-01-02T15:04:05.000000"
)

// Timestamp is a zone-less local time, stored as fixed-width text and
// written to JSON in ISO-8601 without offset.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Microsecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Local().Format(wireLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := time.ParseInLocation(wireLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Local().Format(storeLayout), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("timestamp: cannot scan %T", src)
	}
}

func (t *Timestamp) parse(s string) error {
	v, err := time.ParseInLocation(storeLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}
