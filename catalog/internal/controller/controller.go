// Package controller keeps the book list, its query state and the three
// modals in sync with the catalog API. It is the only surface the shell uses.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/modal"
	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/query"
	"github.com/Astemirdum/livraria/catalog/internal/view"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	msgLoadFailed    = "Não foi possível carregar a lista de livros. Verifique o servidor."
	msgHistoryFailed = "Erro ao carregar o histórico de empréstimos."
	msgUnavailable   = "servidor indisponível"
)

type Options struct {
	PageSize   int
	Debounce   time.Duration
	DateLayout string
	Location   *time.Location
}

type Controller struct {
	log      *zap.Logger
	books    BookService
	loans    LoanService
	notifier Notifier
	confirm  Confirmer
	render   Renderer
	opts     Options
	filter   *debouncer

	mu     sync.Mutex
	state  query.State
	page   model.BookPage
	list   view.ListView
	modals modal.Set
	// seq is the number of the most recently issued list request.
	seq      uint64
	creating bool
	saving   bool
}

func New(
	log *zap.Logger,
	books BookService,
	loans LoanService,
	notifier Notifier,
	confirm Confirmer,
	render Renderer,
	opts Options,
) *Controller {
	if opts.DateLayout == "" {
		opts.DateLayout = "02/01/2006"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Controller{
		log:      log.Named("controller"),
		books:    books,
		loans:    loans,
		notifier: notifier,
		confirm:  confirm,
		render:   render,
		opts:     opts,
		filter:   newDebouncer(opts.Debounce),
		state:    query.New(opts.PageSize),
	}
}

func (c *Controller) State() query.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) List() view.ListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

func (c *Controller) ActiveModal() modal.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals.Active()
}

func (c *Controller) EditForm() (modal.EditForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals.Edit.Form(), c.modals.Edit.IsOpen()
}

func (c *Controller) BorrowTarget() (int64, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, title := c.modals.Borrow.Target()
	return id, title, c.modals.Borrow.IsOpen()
}

func (c *Controller) History() (view.HistoryView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals.History.View(), c.modals.History.IsOpen()
}

// Close stops a pending debounced filter reload.
func (c *Controller) Close() {
	c.filter.Stop()
}

// ---------- list synchronisation ----------

// Load fetches the list for the current query state. A response that is
// older than the latest issued request is dropped with errs.ErrStale.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	st := c.state
	c.mu.Unlock()

	page, code, err := c.books.ListBooks(ctx, st.Values())

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("drop stale list response", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return errs.ErrStale
	}
	if err != nil {
		c.log.Error("Load", zap.Int("code", code), zap.Error(err))
		c.notifier.Error(msgLoadFailed)
		return err
	}
	// the server resets a page out of range; follow it unless the
	// query changed meanwhile
	if page.CurrentPage > 0 && page.CurrentPage != st.Page && c.state == st {
		st.Page = page.CurrentPage
		c.state = st
	}
	c.page = page
	c.list = view.BuildList(page, st)
	c.render.RenderList(c.list)
	return nil
}

// reload is Load for follow-ups of a successful mutation; failures were
// already surfaced by Load.
func (c *Controller) reload(ctx context.Context) {
	if err := c.Load(ctx); err != nil && !errors.Is(err, errs.ErrStale) {
		c.log.Warn("reload", zap.Error(err))
	}
}

// SetFilter coalesces keystrokes: the reload fires once, Debounce after
// the last call.
func (c *Controller) SetFilter(ctx context.Context, text string) {
	c.filter.Trigger(func() {
		c.mu.Lock()
		c.state = c.state.SetFilter(text)
		c.mu.Unlock()
		c.reload(ctx)
	})
}

func (c *Controller) ToggleSort(ctx context.Context, key query.SortKey) error {
	c.mu.Lock()
	c.state = c.state.ToggleSort(key)
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *Controller) ChangePage(ctx context.Context, delta int) error {
	c.mu.Lock()
	c.state = c.state.ChangePage(delta)
	c.mu.Unlock()
	return c.Load(ctx)
}

// ---------- CRUD ----------

// Create submits a new book; the year is parsed as an integer. While the
// request is in flight a second submit fails with errs.ErrBusy.
func (c *Controller) Create(ctx context.Context, title, author, year string) error {
	in, err := modal.BookInput(title, author, year)
	if err != nil {
		return err
	}
	if !c.acquire(&c.creating) {
		return errs.ErrBusy
	}
	defer c.release(&c.creating)

	if _, _, err := c.books.CreateBook(ctx, in); err != nil {
		c.log.Error("Create", zap.Error(err))
		c.notifier.Error("Não foi possível adicionar o livro: " + reason(err, "Erro desconhecido ao criar livro."))
		return err
	}
	c.notifier.Success(fmt.Sprintf("Livro \"%s\" adicionado com sucesso!", in.Title))

	c.mu.Lock()
	c.state = c.state.FirstPage()
	c.mu.Unlock()
	c.reload(ctx)
	return nil
}

// OpenEdit pre-fills the edit modal from the book's row on the current page.
func (c *Controller) OpenEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bookOnPage(id)
	if !ok {
		return notOnPage(id)
	}
	c.modals.Edit.Open(b)
	return nil
}

func (c *Controller) SetEditField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals.Edit.Set(field, value)
}

// CloseEdit discards unsaved edits.
func (c *Controller) CloseEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.Edit.Close()
}

// SaveEdit submits the edit modal. On failure the modal stays open.
func (c *Controller) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	id, in, err := c.modals.Edit.Submit()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if !c.acquire(&c.saving) {
		return errs.ErrBusy
	}
	defer c.release(&c.saving)

	if _, _, err := c.books.UpdateBook(ctx, id, in); err != nil {
		c.log.Error("SaveEdit", zap.Int64("id", id), zap.Error(err))
		c.notifier.Error("Não foi possível salvar a edição: " + reason(err, "Erro desconhecido ao atualizar."))
		return err
	}
	c.notifier.Success(fmt.Sprintf("Livro com ID %d atualizado com sucesso!", id))

	c.mu.Lock()
	c.modals.Edit.Close()
	c.mu.Unlock()
	c.reload(ctx)
	return nil
}

// Delete asks for confirmation before any request is sent.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if !c.confirm.Confirm(fmt.Sprintf("Tem certeza que deseja remover o livro com ID %d? (Ação irreversível)", id)) {
		return errs.ErrCancelled
	}
	if _, err := c.books.DeleteBook(ctx, id); err != nil {
		c.log.Error("Delete", zap.Int64("id", id), zap.Error(err))
		c.notifier.Error("Não foi possível remover o livro: " + reason(err, "Erro ao remover livro."))
		return err
	}
	c.notifier.Success("Livro removido com sucesso.")
	c.reload(ctx)
	return nil
}

// ---------- loan lifecycle ----------

func (c *Controller) OpenBorrow(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bookOnPage(id)
	if !ok {
		return notOnPage(id)
	}
	if !b.Available {
		return errs.NewValidation("livro_id", "O livro já está emprestado.")
	}
	c.modals.Borrow.Open(b.ID, b.Title)
	return nil
}

func (c *Controller) CloseBorrow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.Borrow.Close()
}

// Borrow submits the borrow modal. An empty name is rejected without a
// request; an API failure leaves the modal open.
func (c *Controller) Borrow(ctx context.Context, borrower string) error {
	c.mu.Lock()
	in, err := c.modals.Borrow.Submit(borrower)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if _, _, err := c.loans.CreateLoan(ctx, in); err != nil {
		c.log.Error("Borrow", zap.Int64("livro_id", in.BookID), zap.Error(err))
		c.notifier.Error("Não foi possível emprestar o livro: " + reason(err, "Erro desconhecido ao emprestar."))
		return err
	}
	c.notifier.Success(fmt.Sprintf("Livro emprestado com sucesso a %s!", in.Borrower))

	c.mu.Lock()
	c.modals.Borrow.Close()
	c.mu.Unlock()
	c.reload(ctx)
	return nil
}

// ShowHistory opens the history modal in its loading state and fills it.
// The list's return action for a borrowed book routes here.
func (c *Controller) ShowHistory(ctx context.Context, bookID int64) error {
	c.mu.Lock()
	title := fmt.Sprintf("Livro %d", bookID)
	if b, ok := c.bookOnPage(bookID); ok {
		title = b.Title
	}
	c.modals.History.Open(bookID, title)
	c.render.RenderHistory(c.modals.History.View())
	c.mu.Unlock()

	return c.loadHistory(ctx, bookID)
}

func (c *Controller) CloseHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals.History.Close()
}

func (c *Controller) loadHistory(ctx context.Context, bookID int64) error {
	loans, code, err := c.loans.History(ctx, bookID)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, title := c.modals.History.Target()
	if err != nil {
		c.log.Error("History", zap.Int64("livro_id", bookID), zap.Int("code", code), zap.Error(err))
		// a closed or retargeted modal gets no late error
		if c.modals.History.Failed(bookID, reason(err, err.Error())) {
			c.render.RenderHistory(c.modals.History.View())
			c.notifier.Error(msgHistoryFailed)
		}
		return err
	}

	hv, open := view.BuildHistory(title, loans, c.opts.DateLayout, c.opts.Location)
	if open > 1 {
		c.log.Warn("more than one open loan", zap.Int64("livro_id", bookID), zap.Int("open", open))
	}
	if c.modals.History.Loaded(bookID, hv) {
		c.render.RenderHistory(hv)
	}
	return nil
}

// ReturnLoan closes the open loan listed in the history modal, then
// refreshes that modal in place and reloads the list.
func (c *Controller) ReturnLoan(ctx context.Context, loanID int64) error {
	c.mu.Lock()
	bookID, _ := c.modals.History.Target()
	ok := c.modals.History.IsOpen() && hasReturnAction(c.modals.History.View(), loanID)
	c.mu.Unlock()
	if !ok {
		return errs.NewValidation("emprestimo_id", fmt.Sprintf("O empréstimo %d não está aberto no histórico.", loanID))
	}

	if !c.confirm.Confirm(fmt.Sprintf("Tem certeza que deseja registrar a devolução do Empréstimo ID %d?", loanID)) {
		return errs.ErrCancelled
	}
	if _, _, err := c.loans.ReturnLoan(ctx, loanID); err != nil {
		c.log.Error("ReturnLoan", zap.Int64("emprestimo_id", loanID), zap.Error(err))
		c.notifier.Error("Não foi possível registrar a devolução: " + reason(err, "Erro desconhecido ao devolver."))
		return err
	}
	c.notifier.Success("Devolução registrada com sucesso!")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// failures are rendered into the modal
		_ = c.loadHistory(gctx, bookID) //nolint:errcheck
		return nil
	})
	g.Go(func() error {
		c.reload(gctx)
		return nil
	})
	return g.Wait()
}

// Dismiss closes the open modal, like clicking outside of it.
func (c *Controller) Dismiss() modal.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals.Dismiss()
}

// ---------- helpers ----------

func (c *Controller) acquire(flag *bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (c *Controller) release(flag *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*flag = false
}

func (c *Controller) bookOnPage(id int64) (model.Book, bool) {
	for _, b := range c.page.Books {
		if b.ID == id {
			return b, true
		}
	}
	return model.Book{}, false
}

func notOnPage(id int64) error {
	return errs.NewValidation("id", fmt.Sprintf("Livro %d não está na página atual.", id))
}

func hasReturnAction(hv view.HistoryView, loanID int64) bool {
	for _, r := range hv.Rows {
		if r.Action != nil && r.LoanID == loanID {
			return true
		}
	}
	return false
}

func reason(err error, fallback string) string {
	if errors.Is(err, errs.ErrTransport) {
		return msgUnavailable
	}
	return errs.UserMessage(err, fallback)
}
