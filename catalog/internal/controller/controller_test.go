package controller_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Astemirdum/livraria/catalog/internal/controller"
	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/modal"
	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/query"
	"github.com/Astemirdum/livraria/catalog/internal/view"
	"github.com/Astemirdum/livraria/pkg/circuit_breaker"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_controller "github.com/Astemirdum/livraria/catalog/internal/controller/mocks"
)

type fixture struct {
	books    *mock_controller.MockBookService
	loans    *mock_controller.MockLoanService
	notifier *mock_controller.MockNotifier
	confirm  *mock_controller.MockConfirmer
	render   *mock_controller.MockRenderer
	ctrl     *controller.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDebounce(t, 0)
}

func newFixtureWithDebounce(t *testing.T, debounce time.Duration) *fixture {
	t.Helper()
	c := gomock.NewController(t)
	f := &fixture{
		books:    mock_controller.NewMockBookService(c),
		loans:    mock_controller.NewMockLoanService(c),
		notifier: mock_controller.NewMockNotifier(c),
		confirm:  mock_controller.NewMockConfirmer(c),
		render:   mock_controller.NewMockRenderer(c),
	}
	f.ctrl = controller.New(zap.NewNop(), f.books, f.loans, f.notifier, f.confirm, f.render, controller.Options{
		PageSize:   10,
		Debounce:   debounce,
		DateLayout: "02/01/2006",
		Location:   time.UTC,
	})
	t.Cleanup(f.ctrl.Close)
	return f
}

func strPtr(s string) *string { return &s }

var (
	dune      = model.Book{ID: 1, Title: "Dune", Author: "Herbert", Year: 1965, Available: true}
	cleanCode = model.Book{ID: 2, Title: "Clean Code", Author: "R. Martin", Year: 2008, BorrowedBy: strPtr("Bob")}
	onePage   = model.BookPage{Books: []model.Book{dune, cleanCode}, Total: 2, TotalPages: 1, CurrentPage: 1, Limit: 10}
)

// load primes the controller with onePage.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any())
	require.NoError(t, f.ctrl.Load(context.Background()))
}

func TestController_Load(t *testing.T) {
	t.Parallel()
	type mockBehavior func(f *fixture)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		wantErr      bool
		wantRows     int
		wantInfo     string
	}{
		{
			name: "ok",
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					ListBooks(gomock.Any(), query.New(10).Values()).
					Return(onePage, http.StatusOK, nil)
				f.render.EXPECT().RenderList(gomock.Any())
			},
			wantRows: 2,
			wantInfo: "Página 1 de 1",
		},
		{
			name: "ok. empty",
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					ListBooks(gomock.Any(), gomock.Any()).
					Return(model.BookPage{TotalPages: 1, Limit: 10}, http.StatusOK, nil)
				f.render.EXPECT().RenderList(gomock.Any())
			},
			wantInfo: "Página 0 de 0",
		},
		{
			name: "err. transport",
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					ListBooks(gomock.Any(), gomock.Any()).
					Return(model.BookPage{}, http.StatusServiceUnavailable, errs.Transport(circuit_breaker.ErrOpenCB, "GET"))
				f.notifier.EXPECT().Error("Não foi possível carregar a lista de livros. Verifique o servidor.")
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f)

			err := f.ctrl.Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			lv := f.ctrl.List()
			require.Len(t, lv.Rows, tt.wantRows)
			require.Equal(t, tt.wantInfo, lv.Pagination.Info)
		})
	}
}

func TestController_Load_DropsStaleResponse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	newer := model.BookPage{Books: []model.Book{cleanCode}, Total: 1, TotalPages: 1, CurrentPage: 1, Limit: 10}
	gomock.InOrder(
		// a second request is issued while the first is still in flight
		f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ url.Values) (model.BookPage, int, error) {
				require.NoError(t, f.ctrl.Load(ctx))
				return onePage, http.StatusOK, nil
			}),
		f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(newer, http.StatusOK, nil),
	)
	f.render.EXPECT().RenderList(gomock.Any()).Times(1)

	err := f.ctrl.Load(ctx)
	require.ErrorIs(t, err, errs.ErrStale)
	lv := f.ctrl.List()
	require.Len(t, lv.Rows, 1)
	require.Equal(t, int64(2), lv.Rows[0].BookID)
}

func TestController_ToggleSortAndPage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	want := query.New(10).ToggleSort(query.SortYear)
	f.books.EXPECT().ListBooks(gomock.Any(), want.Values()).Return(onePage, http.StatusOK, nil)
	want = want.ToggleSort(query.SortYear)
	f.books.EXPECT().ListBooks(gomock.Any(), want.Values()).Return(onePage, http.StatusOK, nil)
	want = want.ChangePage(1)
	f.books.EXPECT().ListBooks(gomock.Any(), want.Values()).Return(model.BookPage{TotalPages: 1}, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any()).Times(3)

	require.NoError(t, f.ctrl.ToggleSort(ctx, query.SortYear))
	require.NoError(t, f.ctrl.ToggleSort(ctx, query.SortYear))
	require.Equal(t, query.Desc, f.ctrl.State().Direction)
	require.NoError(t, f.ctrl.ChangePage(ctx, 1))
	require.Equal(t, 2, f.ctrl.State().Page)
	require.Equal(t, view.EmptyList, f.ctrl.List().Placeholder)
}

func TestController_SetFilter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.books.EXPECT().
		ListBooks(gomock.Any(), query.New(10).SetFilter("dun").Values()).
		Return(onePage, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any())

	// zero debounce reloads synchronously
	f.ctrl.SetFilter(context.Background(), "dun")
	require.Equal(t, "dun", f.ctrl.State().Filter)
	require.Equal(t, 1, f.ctrl.State().Page)
}

func TestController_SetFilter_Debounced(t *testing.T) {
	t.Parallel()
	f := newFixtureWithDebounce(t, 50*time.Millisecond)

	rendered := make(chan struct{})
	f.books.EXPECT().
		ListBooks(gomock.Any(), query.New(10).SetFilter("dune").Values()).
		Return(onePage, http.StatusOK, nil).
		Times(1)
	f.render.EXPECT().RenderList(gomock.Any()).Do(func(view.ListView) { close(rendered) })

	ctx := context.Background()
	for _, text := range []string{"d", "du", "dun", "dune"} {
		f.ctrl.SetFilter(ctx, text)
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, "", f.ctrl.State().Filter)

	select {
	case <-rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced reload did not run")
	}
	require.Equal(t, "dune", f.ctrl.State().Filter)
	// a second reload would fail the Times(1) expectation
	time.Sleep(100 * time.Millisecond)
}

func TestController_ServerPageReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.load(t)

	f.books.EXPECT().
		ListBooks(gomock.Any(), query.New(10).ChangePage(1).Values()).
		Return(onePage, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any())

	require.NoError(t, f.ctrl.ChangePage(context.Background(), 1))
	require.Equal(t, 1, f.ctrl.State().Page)
	lv := f.ctrl.List()
	require.Equal(t, "Página 1 de 1", lv.Pagination.Info)
	require.False(t, lv.Pagination.PrevEnabled)
}

func TestController_Create(t *testing.T) {
	t.Parallel()
	type input struct {
		title, author, year string
	}
	type mockBehavior func(f *fixture)

	tests := []struct {
		name         string
		input        input
		mockBehavior mockBehavior
		wantErr      bool
		validation   bool
	}{
		{
			name:  "ok",
			input: input{title: " Dune ", author: "Herbert", year: "1965"},
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					CreateBook(gomock.Any(), model.BookInput{Title: "Dune", Author: "Herbert", Year: 1965}).
					Return(dune, http.StatusCreated, nil)
				f.notifier.EXPECT().Success(`Livro "Dune" adicionado com sucesso!`)
				f.books.EXPECT().
					ListBooks(gomock.Any(), query.New(10).Values()).
					Return(onePage, http.StatusOK, nil)
				f.render.EXPECT().RenderList(gomock.Any())
			},
		},
		{
			name:         "err. year not a number",
			input:        input{title: "Dune", author: "Herbert", year: "abc"},
			mockBehavior: func(f *fixture) {},
			wantErr:      true,
			validation:   true,
		},
		{
			name:         "err. blank title",
			input:        input{title: "  ", author: "Herbert", year: "1965"},
			mockBehavior: func(f *fixture) {},
			wantErr:      true,
			validation:   true,
		},
		{
			name:  "err. api message",
			input: input{title: "Dune", author: "Herbert", year: "3000"},
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, http.StatusBadRequest, &errs.APIError{Status: http.StatusBadRequest, Message: "Ano inválido."})
				f.notifier.EXPECT().Error("Não foi possível adicionar o livro: Ano inválido.")
			},
			wantErr: true,
		},
		{
			name:  "err. api without message",
			input: input{title: "Dune", author: "Herbert", year: "1965"},
			mockBehavior: func(f *fixture) {
				f.books.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, http.StatusInternalServerError, &errs.APIError{Status: http.StatusInternalServerError})
				f.notifier.EXPECT().Error("Não foi possível adicionar o livro: Erro desconhecido ao criar livro.")
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f)

			err := f.ctrl.Create(context.Background(), tt.input.title, tt.input.author, tt.input.year)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, tt.validation, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestController_Create_Busy(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.books.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, in model.BookInput) (model.Book, int, error) {
			require.ErrorIs(t, f.ctrl.Create(ctx, "Dune", "Herbert", "1965"), errs.ErrBusy)
			return dune, http.StatusCreated, nil
		})
	f.notifier.EXPECT().Success(gomock.Any())
	f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any())

	require.NoError(t, f.ctrl.Create(ctx, "Dune", "Herbert", "1965"))
}

func TestController_SaveEdit_Busy(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.OpenEdit(1))
	f.books.EXPECT().UpdateBook(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id int64, in model.BookInput) (model.Book, int, error) {
			require.ErrorIs(t, f.ctrl.SaveEdit(ctx), errs.ErrBusy)
			return dune, http.StatusOK, nil
		})
	f.notifier.EXPECT().Success("Livro com ID 1 atualizado com sucesso!")
	f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
	f.render.EXPECT().RenderList(gomock.Any())

	require.NoError(t, f.ctrl.SaveEdit(ctx))
}

func TestController_Edit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		require.NoError(t, f.ctrl.OpenEdit(1))
		form, open := f.ctrl.EditForm()
		require.True(t, open)
		require.Equal(t, modal.EditForm{ID: 1, Title: "Dune", Author: "Herbert", Year: "1965"}, form)
		require.NoError(t, f.ctrl.SetEditField("titulo", "Dune Messiah"))

		f.books.EXPECT().
			UpdateBook(gomock.Any(), int64(1), model.BookInput{Title: "Dune Messiah", Author: "Herbert", Year: 1965}).
			Return(dune, http.StatusOK, nil)
		f.notifier.EXPECT().Success("Livro com ID 1 atualizado com sucesso!")
		f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
		f.render.EXPECT().RenderList(gomock.Any())

		require.NoError(t, f.ctrl.SaveEdit(ctx))
		_, open = f.ctrl.EditForm()
		require.False(t, open)
	})

	t.Run("err. stays open", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		require.NoError(t, f.ctrl.OpenEdit(1))
		f.books.EXPECT().
			UpdateBook(gomock.Any(), int64(1), gomock.Any()).
			Return(model.Book{}, http.StatusNotFound, &errs.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado."})
		f.notifier.EXPECT().Error("Não foi possível salvar a edição: Livro não encontrado.")

		require.Error(t, f.ctrl.SaveEdit(ctx))
		require.Equal(t, modal.KindEdit, f.ctrl.ActiveModal())
	})

	t.Run("err. not on page", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)
		require.True(t, errs.IsValidation(f.ctrl.OpenEdit(42)))
	})

	t.Run("err. closed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.ErrorIs(t, f.ctrl.SaveEdit(ctx), errs.ErrNoModal)
	})
}

func TestController_Delete(t *testing.T) {
	t.Parallel()
	const prompt = "Tem certeza que deseja remover o livro com ID 1? (Ação irreversível)"
	type mockBehavior func(f *fixture)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		wantErr      error
	}{
		{
			name: "ok",
			mockBehavior: func(f *fixture) {
				f.confirm.EXPECT().Confirm(prompt).Return(true)
				f.books.EXPECT().DeleteBook(gomock.Any(), int64(1)).Return(http.StatusNoContent, nil)
				f.notifier.EXPECT().Success("Livro removido com sucesso.")
				f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
				f.render.EXPECT().RenderList(gomock.Any())
			},
		},
		{
			name: "cancelled",
			mockBehavior: func(f *fixture) {
				f.confirm.EXPECT().Confirm(prompt).Return(false)
			},
			wantErr: errs.ErrCancelled,
		},
		{
			name: "err. transport",
			mockBehavior: func(f *fixture) {
				f.confirm.EXPECT().Confirm(prompt).Return(true)
				f.books.EXPECT().DeleteBook(gomock.Any(), int64(1)).
					Return(http.StatusServiceUnavailable, errs.Transport(circuit_breaker.ErrOpenCB, "DELETE"))
				f.notifier.EXPECT().Error("Não foi possível remover o livro: servidor indisponível")
			},
			wantErr: errs.ErrTransport,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f)

			err := f.ctrl.Delete(context.Background(), 1)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestController_Borrow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		require.NoError(t, f.ctrl.OpenBorrow(1))
		id, title, open := f.ctrl.BorrowTarget()
		require.True(t, open)
		require.Equal(t, int64(1), id)
		require.Equal(t, "Dune", title)

		f.loans.EXPECT().
			CreateLoan(gomock.Any(), model.LoanInput{BookID: 1, Borrower: "Alice"}).
			Return(model.Loan{ID: 7, BookID: 1, Borrower: "Alice", Open: true}, http.StatusCreated, nil)
		f.notifier.EXPECT().Success("Livro emprestado com sucesso a Alice!")
		f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
		f.render.EXPECT().RenderList(gomock.Any())

		require.NoError(t, f.ctrl.Borrow(ctx, " Alice "))
		require.Equal(t, modal.KindNone, f.ctrl.ActiveModal())
	})

	t.Run("err. empty name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		require.NoError(t, f.ctrl.OpenBorrow(1))
		err := f.ctrl.Borrow(ctx, "   ")
		require.True(t, errs.IsValidation(err))
		require.Equal(t, "O nome do usuário é obrigatório.", err.Error())
		require.Equal(t, modal.KindBorrow, f.ctrl.ActiveModal())
	})

	t.Run("err. already borrowed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)
		require.True(t, errs.IsValidation(f.ctrl.OpenBorrow(2)))
	})

	t.Run("err. api", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		require.NoError(t, f.ctrl.OpenBorrow(1))
		f.loans.EXPECT().
			CreateLoan(gomock.Any(), gomock.Any()).
			Return(model.Loan{}, http.StatusBadRequest, &errs.APIError{Status: http.StatusBadRequest, Message: "Livro já está emprestado."})
		f.notifier.EXPECT().Error("Não foi possível emprestar o livro: Livro já está emprestado.")

		require.Error(t, f.ctrl.Borrow(ctx, "Alice"))
		require.Equal(t, modal.KindBorrow, f.ctrl.ActiveModal())
	})
}

func TestController_History(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	at := model.Timestamp{Time: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)}
	history := []model.Loan{
		{ID: 9, Borrower: "Bob", LoanedAt: at, Open: true},
		{ID: 3, Borrower: "Carol", LoanedAt: at, ReturnedAt: &at},
	}

	t.Run("ok. return refreshes in place", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(view.HistoryLoading("Clean Code"))
		f.loans.EXPECT().History(gomock.Any(), int64(2)).Return(history, http.StatusOK, nil)
		f.render.EXPECT().RenderHistory(gomock.Any())
		require.NoError(t, f.ctrl.ShowHistory(ctx, 2))

		hv, open := f.ctrl.History()
		require.True(t, open)
		require.Equal(t, "Clean Code", hv.Title)
		require.Len(t, hv.Rows, 2)
		require.NotNil(t, hv.Rows[0].Action)
		require.Equal(t, "04/03/2025", hv.Rows[0].LoanedAt)
		require.Equal(t, view.NotApplicable, hv.Rows[0].ReturnedAt)
		require.Nil(t, hv.Rows[1].Action)

		returned := []model.Loan{
			{ID: 9, Borrower: "Bob", LoanedAt: at, ReturnedAt: &at},
			history[1],
		}
		f.confirm.EXPECT().Confirm("Tem certeza que deseja registrar a devolução do Empréstimo ID 9?").Return(true)
		f.loans.EXPECT().ReturnLoan(gomock.Any(), int64(9)).Return(returned[0], http.StatusOK, nil)
		f.notifier.EXPECT().Success("Devolução registrada com sucesso!")
		f.loans.EXPECT().History(gomock.Any(), int64(2)).Return(returned, http.StatusOK, nil)
		f.render.EXPECT().RenderHistory(gomock.Any())
		f.books.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(onePage, http.StatusOK, nil)
		f.render.EXPECT().RenderList(gomock.Any())

		require.NoError(t, f.ctrl.ReturnLoan(ctx, 9))
		hv, open = f.ctrl.History()
		require.True(t, open)
		require.Equal(t, "Clean Code", hv.Title)
		require.Nil(t, hv.Rows[0].Action)
		require.Equal(t, model.StatusReturned, hv.Rows[0].Status)
	})

	t.Run("ok. empty", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(gomock.Any()).Times(2)
		f.loans.EXPECT().History(gomock.Any(), int64(1)).Return([]model.Loan{}, http.StatusOK, nil)
		require.NoError(t, f.ctrl.ShowHistory(ctx, 1))

		hv, _ := f.ctrl.History()
		require.Equal(t, view.HistoryEmptyText, hv.Placeholder)
	})

	t.Run("err. load", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(gomock.Any()).Times(2)
		f.loans.EXPECT().History(gomock.Any(), int64(1)).
			Return(nil, http.StatusNotFound, &errs.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado."})
		f.notifier.EXPECT().Error("Erro ao carregar o histórico de empréstimos.")
		require.Error(t, f.ctrl.ShowHistory(ctx, 1))

		hv, open := f.ctrl.History()
		require.True(t, open)
		require.Equal(t, "Erro ao carregar histórico: Livro não encontrado.", hv.Placeholder)
	})

	t.Run("err. load after close", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(gomock.Any())
		f.loans.EXPECT().History(gomock.Any(), int64(1)).
			DoAndReturn(func(context.Context, int64) ([]model.Loan, int, error) {
				f.ctrl.CloseHistory()
				return nil, http.StatusInternalServerError, &errs.APIError{Status: http.StatusInternalServerError}
			})
		// no notifier call expected
		require.Error(t, f.ctrl.ShowHistory(ctx, 1))

		_, open := f.ctrl.History()
		require.False(t, open)
	})

	t.Run("err. loan not listed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.True(t, errs.IsValidation(f.ctrl.ReturnLoan(ctx, 9)))
	})

	t.Run("return cancelled", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(gomock.Any()).Times(2)
		f.loans.EXPECT().History(gomock.Any(), int64(2)).Return(history, http.StatusOK, nil)
		require.NoError(t, f.ctrl.ShowHistory(ctx, 2))

		f.confirm.EXPECT().Confirm(gomock.Any()).Return(false)
		require.ErrorIs(t, f.ctrl.ReturnLoan(ctx, 9), errs.ErrCancelled)
	})

	t.Run("dismiss", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.load(t)

		f.render.EXPECT().RenderHistory(gomock.Any()).Times(2)
		f.loans.EXPECT().History(gomock.Any(), int64(2)).Return(history, http.StatusOK, nil)
		require.NoError(t, f.ctrl.ShowHistory(ctx, 2))

		require.Equal(t, modal.KindHistory, f.ctrl.Dismiss())
		require.Equal(t, modal.KindNone, f.ctrl.ActiveModal())
		_, open := f.ctrl.History()
		require.False(t, open)
	})
}
