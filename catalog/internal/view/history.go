package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Astemirdum/livraria/catalog/internal/model"
)

const (
	HistoryLoadingText = "Carregando histórico..."
	HistoryEmptyText   = "Nenhum histórico encontrado para este livro."
	NotApplicable      = "N/A"
)

type HistoryRow struct {
	LoanID     int64
	Borrower   string
	LoanedAt   string
	ReturnedAt string
	Status     string
	Open       bool
	Action     *Action
}

type HistoryView struct {
	Title       string
	Rows        []HistoryRow
	Placeholder string
}

func HistoryLoading(title string) HistoryView {
	return HistoryView{Title: title, Placeholder: HistoryLoadingText}
}

func HistoryFailed(title, msg string) HistoryView {
	return HistoryView{Title: title, Placeholder: "Erro ao carregar histórico: " + msg}
}

// BuildHistory keeps the server order. Only the first open loan gets a
// return action; openCount lets the caller notice a broken invariant.
func BuildHistory(title string, loans []model.Loan, layout string, loc *time.Location) (hv HistoryView, openCount int) {
	hv = HistoryView{Title: title, Rows: make([]HistoryRow, 0, len(loans))}
	if len(loans) == 0 {
		hv.Placeholder = HistoryEmptyText
		return hv, 0
	}
	for _, l := range loans {
		row := HistoryRow{
			LoanID:     l.ID,
			Borrower:   l.Borrower,
			LoanedAt:   formatDate(l.LoanedAt.Time, layout, loc),
			ReturnedAt: NotApplicable,
			Status:     model.StatusReturned,
			Open:       l.Open,
		}
		if l.ReturnedAt != nil && !l.ReturnedAt.IsZero() {
			row.ReturnedAt = formatDate(l.ReturnedAt.Time, layout, loc)
		}
		if l.Open {
			row.Status = model.StatusBorrowed
			if openCount == 0 {
				row.Action = &Action{Kind: ActionReturn, LoanID: l.ID}
			}
			openCount++
		}
		hv.Rows = append(hv.Rows, row)
	}
	return hv, openCount
}

func formatDate(t time.Time, layout string, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}

func RenderHistory(w io.Writer, hv HistoryView) error {
	if _, err := fmt.Fprintf(w, "Histórico: %s\n", hv.Title); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Usuário\tEmpréstimo\tDevolução\tStatus\tAção")
	if hv.Placeholder != "" {
		fmt.Fprintln(tw, hv.Placeholder)
	}
	for _, r := range hv.Rows {
		action := NotApplicable
		if r.Action != nil {
			action = fmt.Sprintf("%s #%d", r.Action, r.LoanID)
		}
		fmt.Fprintln(tw, strings.Join([]string{r.Borrower, r.LoanedAt, r.ReturnedAt, r.Status, action}, "\t"))
	}
	return tw.Flush()
}
