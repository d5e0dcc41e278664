package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/catalog/internal/query"
)

const (
	EmptyList = "Nenhum livro encontrado."

	indicatorAsc  = "▲"
	indicatorDesc = "▼"
)

type Column struct {
	Key       query.SortKey
	Title     string
	Indicator string
}

type Row struct {
	BookID    int64
	Title     string
	Author    string
	Year      int
	Status    string
	Available bool
	Actions   []Action
}

type Pagination struct {
	PrevEnabled bool
	NextEnabled bool
	Info        string
}

type ListView struct {
	Columns     []Column
	Rows        []Row
	Placeholder string
	Pagination  Pagination
}

func (lv ListView) Row(bookID int64) (Row, bool) {
	for _, r := range lv.Rows {
		if r.BookID == bookID {
			return r, true
		}
	}
	return Row{}, false
}

var columnTitles = map[query.SortKey]string{
	query.SortTitle:  "Título",
	query.SortAuthor: "Autor",
	query.SortYear:   "Ano",
}

// BuildList maps one listing response under st to the table to display.
func BuildList(page model.BookPage, st query.State) ListView {
	lv := ListView{Rows: make([]Row, 0, len(page.Books))}
	for _, key := range query.Columns {
		col := Column{Key: key, Title: columnTitles[key]}
		if key == st.SortKey {
			col.Indicator = indicatorAsc
			if st.Direction == query.Desc {
				col.Indicator = indicatorDesc
			}
		}
		lv.Columns = append(lv.Columns, col)
	}

	for _, b := range page.Books {
		lv.Rows = append(lv.Rows, Row{
			BookID:    b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Year:      b.Year,
			Status:    b.Status(),
			Available: b.Available,
			Actions:   rowActions(b),
		})
	}
	if len(lv.Rows) == 0 {
		lv.Placeholder = EmptyList
	}

	lv.Pagination = Pagination{
		PrevEnabled: st.Page > 1,
		NextEnabled: !(st.Page >= page.TotalPages || page.TotalPages == 0),
	}
	if page.Total == 0 {
		lv.Pagination.Info = "Página 0 de 0"
	} else {
		lv.Pagination.Info = fmt.Sprintf("Página %d de %d", st.Page, page.TotalPages)
	}
	return lv
}

func rowActions(b model.Book) []Action {
	first := Action{Kind: ActionBorrow, BookID: b.ID}
	if !b.Available {
		// the open loan id is unknown here, so return goes through history
		first = Action{Kind: ActionReturn, BookID: b.ID}
	}
	return []Action{
		first,
		{Kind: ActionEdit, BookID: b.ID},
		{Kind: ActionRemove, BookID: b.ID},
		{Kind: ActionHistory, BookID: b.ID},
	}
}

// RenderList writes the whole table; nothing of a previous render is kept.
func RenderList(w io.Writer, lv ListView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"ID"}
	for _, c := range lv.Columns {
		header = append(header, strings.TrimSpace(c.Title+" "+c.Indicator))
	}
	header = append(header, "Status", "Ações")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	if lv.Placeholder != "" {
		fmt.Fprintln(tw, lv.Placeholder)
	}
	for _, r := range lv.Rows {
		actions := make([]string, 0, len(r.Actions))
		for _, a := range r.Actions {
			actions = append(actions, a.String())
		}
		fmt.Fprintln(tw, strings.Join([]string{
			strconv.FormatInt(r.BookID, 10),
			r.Title,
			r.Author,
			strconv.Itoa(r.Year),
			r.Status,
			strings.Join(actions, " "),
		}, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s %s %s\n",
		control("< anterior", lv.Pagination.PrevEnabled),
		lv.Pagination.Info,
		control("próxima >", lv.Pagination.NextEnabled))
	return err
}

func control(label string, enabled bool) string {
	if enabled {
		return "[" + label + "]"
	}
	return "(" + label + ")"
}
