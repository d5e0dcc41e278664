package errs

import (
	"net/http"
)

// Error is a rule violation with the status and message the API answers with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

var (
	ErrBookNotFound    = New(http.StatusNotFound, "Livro não encontrado.")
	ErrLoanNotFound    = New(http.StatusNotFound, "Empréstimo não encontrado.")
	ErrInvalidSort     = New(http.StatusBadRequest, "Parâmetros de ordenação inválidos.")
	ErrBookFields      = New(http.StatusBadRequest, "Campos obrigatórios: titulo, autor, ano.")
	ErrBlankBook       = New(http.StatusBadRequest, "Título e Autor não podem ser vazios.")
	ErrYearNotInt      = New(http.StatusBadRequest, "O campo 'ano' deve ser um número inteiro.")
	ErrInvalidYear     = New(http.StatusBadRequest, "O ano do livro é inválido.")
	ErrBookBorrowed    = New(http.StatusBadRequest, "O livro já está emprestado.")
	ErrDeleteBorrowed  = New(http.StatusBadRequest, "Não é possível remover o livro, pois ele está emprestado.")
	ErrLoanFields      = New(http.StatusBadRequest, "Campos obrigatórios: livro_id, nome_usuario.")
	ErrBlankBorrower   = New(http.StatusBadRequest, "Nome do usuário não pode ser vazio.")
	ErrAlreadyReturned = New(http.StatusBadRequest, "Este empréstimo já foi devolvido.")
)
