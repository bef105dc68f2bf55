package views

import (
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
)

const (
	SelectionParam          = "selected"
	SelectionToggleParam    = "toggle"
	SelectionToggleAllParam = "toggle_all"
)

type SelectionState int

const (
	SelectionNone SelectionState = iota
	SelectionSome
	SelectionAll
)

// Selection is a set of row ids picked on a list page.
type Selection struct {
	ids map[int]struct{}
}

func NewSelection(ids ...int) *Selection {
	s := &Selection{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// ParseSelection reads the selected ids of a form or query.
func ParseSelection(values []string) (*Selection, error) {
	s := NewSelection()
	for _, v := range values {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", v, err)
		}
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// ApplyQuery parses the selection of a list page query and applies a pending
// single row or header toggle.
func ApplyQuery(query url.Values, allIDs []int) (*Selection, error) {
	s, err := ParseSelection(query[SelectionParam])
	if err != nil {
		return nil, err
	}

	if toggle := query.Get(SelectionToggleParam); toggle != "" {
		id, err := strconv.Atoi(toggle)
		if err != nil {
			return nil, fmt.Errorf("invalid toggle id %q: %w", toggle, err)
		}
		s.Toggle(id)
	}
	if query.Get(SelectionToggleAllParam) != "" {
		s.ToggleAll(allIDs)
	}

	// ids of rows gone in the meantime are dropped
	s.Retain(allIDs)
	return s, nil
}

func (s *Selection) Toggle(id int) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll clears a partial or full selection, and selects every id otherwise.
func (s *Selection) ToggleAll(all []int) {
	if len(s.ids) > 0 {
		s.ids = map[int]struct{}{}
		return
	}
	for _, id := range all {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Retain(all []int) {
	keep := make(map[int]struct{}, len(s.ids))
	for _, id := range all {
		if _, ok := s.ids[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.ids = keep
}

func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// State drives the header checkbox: checked, indeterminate or empty.
func (s *Selection) State(total int) SelectionState {
	switch {
	case len(s.ids) == 0:
		return SelectionNone
	case len(s.ids) >= total:
		return SelectionAll
	default:
		return SelectionSome
	}
}

func (s *Selection) Query() url.Values {
	q := url.Values{}
	for _, id := range s.IDs() {
		q.Add(SelectionParam, strconv.Itoa(id))
	}
	return q
}

// ToggleQuery is the query string of the list page after row id is clicked.
func (s *Selection) ToggleQuery(id int) string {
	q := s.Query()
	q.Set(SelectionToggleParam, strconv.Itoa(id))
	return q.Encode()
}

func (s *Selection) ToggleAllQuery() string {
	q := s.Query()
	q.Set(SelectionToggleAllParam, "1")
	return q.Encode()
}

func (s *Selection) ConfirmQuery() string {
	q := s.Query()
	q.Set("confirm", "1")
	return q.Encode()
}

func (st SelectionState) All() bool {
	return st == SelectionAll
}

// Indeterminate is the "some but not all" header state.
func (st SelectionState) Indeterminate() bool {
	return st == SelectionSome
}

type TableRow[T any] struct {
	ID          int
	Item        T
	Selected    bool
	ToggleQuery template.URL
}

// Table is a selectable list: rows plus the header checkbox and bulk action state.
type Table[T any] struct {
	Rows           []TableRow[T]
	State          SelectionState
	SelectedIDs    []int
	ToggleAllQuery template.URL
	ConfirmQuery   template.URL
	Confirm        bool
}

func NewTable[T any](sel *Selection, items []T, idOf func(T) int, confirm bool) Table[T] {
	rows := make([]TableRow[T], 0, len(items))
	for _, item := range items {
		id := idOf(item)
		rows = append(rows, TableRow[T]{
			ID:          id,
			Item:        item,
			Selected:    sel.Has(id),
			ToggleQuery: template.URL(sel.ToggleQuery(id)),
		})
	}
	return Table[T]{
		Rows:           rows,
		State:          sel.State(len(items)),
		SelectedIDs:    sel.IDs(),
		ToggleAllQuery: template.URL(sel.ToggleAllQuery()),
		ConfirmQuery:   template.URL(sel.ConfirmQuery()),
		Confirm:        confirm && sel.Len() > 0,
	}
}
