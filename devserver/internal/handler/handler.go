package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/livraria/devserver/internal/errs"
	"github.com/Astemirdum/livraria/devserver/internal/model"
	md "github.com/Astemirdum/livraria/pkg/middleware"
	"github.com/Astemirdum/livraria/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	msgBadBody  = "Corpo da requisição inválido."
	msgNotFound = "Recurso não encontrado."
)

type Handler struct {
	catalogSvc CatalogService
	enqueuer   Enqueuer
	log        *zap.Logger
}

func New(catalogSvc CatalogService, enqueuer Enqueuer, log *zap.Logger) *Handler {
	if enqueuer == nil {
		enqueuer = NopEnqueuer{}
	}
	return &Handler{
		catalogSvc: catalogSvc,
		enqueuer:   enqueuer,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestID(),
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/livros", h.ListBooks)
	api.POST("/livros", h.CreateBook)
	api.PUT("/livros/:id", h.UpdateBook)
	api.DELETE("/livros/:id", h.DeleteBook)
	api.GET("/livros/:id/historico", h.History)

	api.POST("/emprestimos", h.CreateLoan)
	api.PATCH("/emprestimos/:id/devolver", h.ReturnLoan)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListBooks(c echo.Context) error {
	p := model.ListParams{
		Query:  c.QueryParam("q"),
		Page:   intParam(c.QueryParam("page")),
		Limit:  intParam(c.QueryParam("limit")),
		SortBy: c.QueryParam("sort_by"),
		Order:  c.QueryParam("order"),
	}
	books, err := h.catalogSvc.ListBooks(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := h.bind(c, &req, errs.ErrBookFields); err != nil {
		return err
	}
	book, err := h.catalogSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	var req model.BookRequest
	if err := h.bind(c, &req, errs.ErrBookFields); err != nil {
		return err
	}
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) History(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	loans, err := h.catalogSvc.History(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.LoanRequest
	if err := h.bind(c, &req, errs.ErrLoanFields); err != nil {
		return err
	}
	loan, err := h.catalogSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.publish(model.EventLoanCreated, loan)
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	loan, err := h.catalogSvc.ReturnLoan(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	h.publish(model.EventLoanReturned, loan)
	return c.JSON(http.StatusOK, loan)
}

// publish never fails the request; the loan is already stored.
func (h *Handler) publish(typ string, loan model.Loan) {
	ev := model.LoanEvent{
		Type:     typ,
		LoanID:   loan.ID,
		BookID:   loan.BookID,
		Borrower: loan.Borrower,
		At:       loan.LoanedAt.Time,
	}
	if loan.ReturnedAt != nil {
		ev.At = loan.ReturnedAt.Time
	}
	if err := h.enqueuer.Enqueue(ev); err != nil {
		h.log.Warn("enqueue loan event", zap.String("type", typ), zap.Int64("emprestimo_id", loan.ID), zap.Error(err))
	}
}

func (h *Handler) bind(c echo.Context, req any, missing *errs.Error) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadBody)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(missing.Status, missing.Message)
	}
	return nil
}

func (h *Handler) fail(c echo.Context, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return echo.NewHTTPError(e.Status, e.Message)
	}
	h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// intParam reads an optional integer; anything unparsable counts as absent.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
