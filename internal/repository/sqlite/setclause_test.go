package sqlite

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

func TestBuildSetClause(t *testing.T) {
	tests := []struct {
		name          string
		fields        []repository.UpdateField
		columns       map[string]string
		wantFragments []string
		wantValues    []any
	}{
		{
			name: "single field, no remap",
			fields: []repository.UpdateField{
				{Name: "email", Value: "al@example.com"},
			},
			columns:       nil,
			wantFragments: []string{"email = ?1"},
			wantValues:    []any{"al@example.com"},
		},
		{
			name: "remapped field uses the column name",
			fields: []repository.UpdateField{
				{Name: "firstName", Value: "Al"},
			},
			columns:       map[string]string{"firstName": "first_name"},
			wantFragments: []string{"first_name = ?1"},
			wantValues:    []any{"Al"},
		},
		{
			name: "multiple fields keep supplied order",
			fields: []repository.UpdateField{
				{Name: "lastName", Value: "Khan"},
				{Name: "email", Value: "k@example.com"},
				{Name: "firstName", Value: "Ayesha"},
			},
			columns: map[string]string{
				"firstName": "first_name",
				"lastName":  "last_name",
			},
			wantFragments: []string{"last_name = ?1", "email = ?2", "first_name = ?3"},
			wantValues:    []any{"Khan", "k@example.com", "Ayesha"},
		},
		{
			name: "field absent from remap keeps its name verbatim",
			fields: []repository.UpdateField{
				{Name: "password", Value: "new-hash"},
			},
			columns:       map[string]string{"firstName": "first_name"},
			wantFragments: []string{"password = ?1"},
			wantValues:    []any{"new-hash"},
		},
		{
			name: "non-string values pass through untouched",
			fields: []repository.UpdateField{
				{Name: "quantity", Value: 3},
			},
			columns:       nil,
			wantFragments: []string{"quantity = ?1"},
			wantValues:    []any{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments, values, err := buildSetClause(tt.fields, tt.columns)
			if err != nil {
				t.Fatalf("buildSetClause() error = %v", err)
			}
			if !reflect.DeepEqual(fragments, tt.wantFragments) {
				t.Errorf("fragments = %v, want %v", fragments, tt.wantFragments)
			}
			if !reflect.DeepEqual(values, tt.wantValues) {
				t.Errorf("values = %v, want %v", values, tt.wantValues)
			}
		})
	}
}

func TestBuildSetClause_Empty(t *testing.T) {
	_, _, err := buildSetClause(nil, userColumns)
	if err == nil {
		t.Fatal("buildSetClause() should reject an empty field list")
	}
	if !errors.Is(err, errNoUpdateFields) {
		t.Errorf("error = %v, want errNoUpdateFields", err)
	}

	_, _, err = buildSetClause([]repository.UpdateField{}, userColumns)
	if !errors.Is(err, errNoUpdateFields) {
		t.Errorf("error = %v, want errNoUpdateFields", err)
	}
}

// Placeholder numbering must be dense and 1-based so the caller can append
// its WHERE parameter as ?len+1.
func TestBuildSetClause_PlaceholderNumbering(t *testing.T) {
	fields := []repository.UpdateField{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2},
		{Name: "c", Value: 3},
		{Name: "d", Value: 4},
	}
	fragments, values, err := buildSetClause(fields, nil)
	if err != nil {
		t.Fatalf("buildSetClause() error = %v", err)
	}
	want := []string{"a = ?1", "b = ?2", "c = ?3", "d = ?4"}
	if !reflect.DeepEqual(fragments, want) {
		t.Errorf("fragments = %v, want %v", fragments, want)
	}
	if len(values) != len(fields) {
		t.Errorf("len(values) = %d, want %d", len(values), len(fields))
	}
}
