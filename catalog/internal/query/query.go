// Package query holds the pagination, sort and filter parameters of the book list.
// State is a value: every transition returns a new State.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Astemirdum/livraria/catalog/internal/errs"
)

type SortKey string

const (
	SortTitle  SortKey = "titulo"
	SortAuthor SortKey = "autor"
	SortYear   SortKey = "ano"
)

// Columns lists the sortable columns in display order.
var Columns = []SortKey{SortTitle, SortAuthor, SortYear}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortTitle, SortAuthor, SortYear:
		return k, nil
	default:
		return "", errs.NewValidation("sort_by", "Coluna de ordenação inválida: "+s)
	}
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

type State struct {
	Page      int
	PageSize  int
	SortKey   SortKey
	Direction Direction
	Filter    string
}

const DefaultPageSize = 10

func New(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Page:      1,
		PageSize:  pageSize,
		SortKey:   SortTitle,
		Direction: Asc,
	}
}

func (s State) SetFilter(text string) State {
	s.Filter = text
	s.Page = 1
	return s
}

func (s State) ToggleSort(key SortKey) State {
	if s.SortKey == key {
		s.Direction = s.Direction.Flip()
	} else {
		s.SortKey = key
		s.Direction = Asc
	}
	s.Page = 1
	return s
}

// ChangePage does not clamp against the total page count; an out-of-range
// page comes back from the server as an empty result.
func (s State) ChangePage(delta int) State {
	s.Page += delta
	return s
}

func (s State) FirstPage() State {
	s.Page = 1
	return s
}

// Values derives the query string of GET /api/livros.
func (s State) Values() url.Values {
	return url.Values{
		"q":       {s.Filter},
		"page":    {strconv.Itoa(s.Page)},
		"limit":   {strconv.Itoa(s.PageSize)},
		"sort_by": {string(s.SortKey)},
		"order":   {string(s.Direction)},
	}
}
