package model

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Book struct {
	ID         int64   `json:"id"`
	Title      string  `json:"titulo"`
	Author     string  `json:"autor"`
	Year       int     `json:"ano"`
	Available  bool    `json:"disponivel"`
	BorrowedBy *string `json:"emprestado_para"`
}

const (
	StatusAvailable = "Disponível"
	StatusBorrowed  = "Emprestado"
	StatusReturned  = "Devolvido"
)

func (b Book) Borrower() string {
	if b.BorrowedBy == nil {
		return ""
	}
	return *b.BorrowedBy
}

func (b Book) Status() string {
	if b.Available {
		return StatusAvailable
	}
	return StatusBorrowed + " (" + b.Borrower() + ")"
}

type BookInput struct {
	Title  string `json:"titulo" validate:"notblank"`
	Author string `json:"autor" validate:"notblank"`
	Year   int    `json:"ano" validate:"required,gte=1000"`
}

type BookPage struct {
	Books       []Book `json:"livros"`
	Total       int    `json:"total_livros"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Limit       int    `json:"limit"`
}

type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"livro_id,omitempty"`
	Borrower   string     `json:"nome_usuario"`
	LoanedAt   Timestamp  `json:"data_emprestimo"`
	ReturnedAt *Timestamp `json:"data_devolucao"`
	Open       bool       `json:"aberto"`
}

type LoanInput struct {
	BookID   int64  `json:"livro_id" validate:"required"`
	Borrower string `json:"nome_usuario" validate:"notblank"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// Timestamp decodes ISO-8601 with or without zone offset.
// Zone-less values are read in Location.
type Timestamp struct {
	time.Time `json:",inline"`
}

// Location is used for timestamps the server sends without an offset.
var Location = time.Local

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, errors.Errorf("invalid timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
