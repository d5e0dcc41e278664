// Package modal holds the edit, borrow and history dialogs. Each one is a
// closed → open → closed machine; closing always drops the dialog's data.
package modal

import (
	"strconv"
	"strings"

	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/view"
	"github.com/Astemirdum/livraria/pkg/validate"
)

type Kind string

const (
	KindNone    Kind = ""
	KindEdit    Kind = "edit"
	KindBorrow  Kind = "borrow"
	KindHistory Kind = "history"
)

type EditForm struct {
	ID     int64
	Title  string
	Author string
	Year   string
}

type Edit struct {
	open bool
	form EditForm
}

func (m *Edit) Open(b model.Book) {
	m.open = true
	m.form = EditForm{ID: b.ID, Title: b.Title, Author: b.Author, Year: strconv.Itoa(b.Year)}
}

func (m *Edit) IsOpen() bool { return m.open }

func (m *Edit) Form() EditForm { return m.form }

// Set changes one field of the open form.
func (m *Edit) Set(field, value string) error {
	if !m.open {
		return errs.ErrNoModal
	}
	switch strings.ToLower(field) {
	case "titulo", "title":
		m.form.Title = value
	case "autor", "author":
		m.form.Author = value
	case "ano", "year":
		m.form.Year = value
	default:
		return errs.NewValidation(field, "Campo desconhecido: "+field)
	}
	return nil
}

// Submit returns the validated request of the open form.
func (m *Edit) Submit() (int64, model.BookInput, error) {
	if !m.open {
		return 0, model.BookInput{}, errs.ErrNoModal
	}
	in, err := BookInput(m.form.Title, m.form.Author, m.form.Year)
	return m.form.ID, in, err
}

func (m *Edit) Close() {
	m.open = false
	m.form = EditForm{}
}

type Borrow struct {
	open   bool
	bookID int64
	title  string
}

func (m *Borrow) Open(bookID int64, title string) {
	m.open = true
	m.bookID = bookID
	m.title = title
}

func (m *Borrow) IsOpen() bool { return m.open }

func (m *Borrow) Target() (int64, string) { return m.bookID, m.title }

// Submit blocks an empty borrower name before any request is built.
func (m *Borrow) Submit(borrower string) (model.LoanInput, error) {
	if !m.open {
		return model.LoanInput{}, errs.ErrNoModal
	}
	in := model.LoanInput{BookID: m.bookID, Borrower: strings.TrimSpace(borrower)}
	if err := validate.Default().Struct(in); err != nil {
		return model.LoanInput{}, errs.NewValidation("nome_usuario", "O nome do usuário é obrigatório.")
	}
	return in, nil
}

func (m *Borrow) Close() {
	*m = Borrow{}
}

type HistoryStatus int

const (
	HistoryLoading HistoryStatus = iota + 1
	HistoryLoaded
	HistoryFailed
)

// History keeps the book id and title so it can be refreshed in place.
type History struct {
	open   bool
	bookID int64
	title  string
	status HistoryStatus
	view   view.HistoryView
}

func (m *History) Open(bookID int64, title string) {
	m.open = true
	m.bookID = bookID
	m.title = title
	m.status = HistoryLoading
	m.view = view.HistoryLoading(title)
}

func (m *History) IsOpen() bool { return m.open }

func (m *History) Target() (int64, string) { return m.bookID, m.title }

func (m *History) Status() HistoryStatus { return m.status }

func (m *History) View() view.HistoryView { return m.view }

// Loaded installs hv if the modal is still open on bookID.
func (m *History) Loaded(bookID int64, hv view.HistoryView) bool {
	if !m.open || m.bookID != bookID {
		return false
	}
	m.status = HistoryLoaded
	m.view = hv
	return true
}

func (m *History) Failed(bookID int64, msg string) bool {
	if !m.open || m.bookID != bookID {
		return false
	}
	m.status = HistoryFailed
	m.view = view.HistoryFailed(m.title, msg)
	return true
}

func (m *History) Close() {
	*m = History{}
}

// Set is the three dialogs of the page.
type Set struct {
	Edit    Edit
	Borrow  Borrow
	History History
}

// Active names the open modal, preferring the most specific one.
func (s *Set) Active() Kind {
	switch {
	case s.History.IsOpen():
		return KindHistory
	case s.Borrow.IsOpen():
		return KindBorrow
	case s.Edit.IsOpen():
		return KindEdit
	default:
		return KindNone
	}
}

// Dismiss closes the open modal, as a click outside its content would.
func (s *Set) Dismiss() Kind {
	k := s.Active()
	switch k {
	case KindHistory:
		s.History.Close()
	case KindBorrow:
		s.Borrow.Close()
	case KindEdit:
		s.Edit.Close()
	}
	return k
}

// BookInput parses the year as an integer and validates the form.
func BookInput(title, author, year string) (model.BookInput, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return model.BookInput{}, errs.NewValidation("ano", "O campo 'ano' deve ser um número inteiro.")
	}
	in := model.BookInput{Title: strings.TrimSpace(title), Author: strings.TrimSpace(author), Year: y}
	if err := validate.Default().Struct(in); err != nil {
		fe, _ := validate.First(err)
		switch fe.Field {
		case "Year":
			return model.BookInput{}, errs.NewValidation("ano", "O ano do livro é inválido.")
		default:
			return model.BookInput{}, errs.NewValidation(strings.ToLower(fe.Field), "Título e Autor não podem ser vazios.")
		}
	}
	return in, nil
}
