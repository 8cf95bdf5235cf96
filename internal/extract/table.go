package extract

import "github.com/JakeFAU/steam-profile-comments/internal/comments"

// recordTable maps comment ids to partially built records and remembers the
// order in which ids were first seen. It lives for one Extract call.
type recordTable struct {
	order []string
	byID  map[string]*comments.Record
}

func newRecordTable() *recordTable {
	return &recordTable{byID: make(map[string]*comments.Record)}
}

// put stores record under id. A repeated id replaces the stored record but
// keeps its original position.
func (t *recordTable) put(id string, record comments.Record) {
	if existing, ok := t.byID[id]; ok {
		*existing = record
		return
	}
	t.order = append(t.order, id)
	r := record
	t.byID[id] = &r
}

func (t *recordTable) get(id string) *comments.Record {
	return t.byID[id]
}

func (t *recordTable) records() []comments.Record {
	out := make([]comments.Record, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}
