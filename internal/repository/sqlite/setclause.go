package sqlite

import (
	"errors"
	"fmt"

	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// errNoUpdateFields is returned when a partial update is built from zero
// fields. An empty update is a caller programming error — the handler must
// reject empty payloads before getting here — so this is a sentinel, not a
// silent no-op.
var errNoUpdateFields = errors.New("sqlite: partial update requires at least one field")

// buildSetClause turns a sparse field list into the pieces of a SQL UPDATE.
//
// Given fields {firstName: "Al", email: "al@x.io"} and the column remap
// {firstName: "first_name"}, it produces:
//
//	fragments: ["first_name = ?1", "email = ?2"]
//	values:    ["Al", "al@x.io"]
//
// CONTRACT:
//   - one fragment per input field, in the order the fields were supplied
//   - placeholders are 1-based and sequential (?N is SQLite's numbered form)
//   - a field present in columns uses the remapped column name; a field
//     absent from columns keeps its logical name verbatim
//   - values are returned in the same order, ready to pass to ExecContext
//
// Pure function: no I/O, no knowledge of which table it is for. The caller
// joins the fragments and appends its WHERE-clause parameters after ?N.
func buildSetClause(fields []repository.UpdateField, columns map[string]string) ([]string, []any, error) {
	if len(fields) == 0 {
		return nil, nil, errNoUpdateFields
	}

	fragments := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))

	for i, f := range fields {
		column := f.Name
		if mapped, ok := columns[f.Name]; ok {
			column = mapped
		}
		fragments = append(fragments, fmt.Sprintf("%s = ?%d", column, i+1))
		values = append(values, f.Value)
	}

	return fragments, values, nil
}
