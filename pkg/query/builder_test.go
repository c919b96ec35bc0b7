package query_test

import (
	"reflect"
	"testing"

	"github.com/ratingsdesk/quorum/pkg/query"
)

func entityProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "entities", "e").
		Project("id", "id").
		Project("name", "name").
		Project("domicile_code", "domicileCode").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionTable(t *testing.T) {
	p := entityProjection()
	if got, want := p.Table(), "public.entities e"; got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestProjectionJoinQualifiesSubsequentColumns(t *testing.T) {
	p := query.NewProjectionMap("public", "committee_cases", "c").
		Project("id", "id").
		Project("case_id", "caseId").
		Join("public", "case_entities", "ce", "INNER JOIN", "ce.case_ref = c.id").
		Project("entity_id", "entityId")

	wantTable := "public.committee_cases c INNER JOIN public.case_entities ce ON ce.case_ref = c.id"
	if got := p.Table(); got != wantTable {
		t.Errorf("Table() = %q, want %q", got, wantTable)
	}

	if got, want := p.Column("entityId"), "ce.entity_id"; got != want {
		t.Errorf("Column(entityId) = %q, want %q", got, want)
	}

	if got, want := p.Column("caseId"), "c.case_id"; got != want {
		t.Errorf("Column(caseId) = %q, want %q", got, want)
	}
}

func TestProjectionColumnLookup(t *testing.T) {
	p := entityProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "name", "e.name"},
		{"mapped camel", "domicileCode", "e.domicile_code"},
		{"unmapped passthrough", "analyst", "analyst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty string", "", nil},
		{"single ascending", "name", []query.SortField{{Field: "name"}}},
		{"single descending", "-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{
			"multiple mixed", "name,-createdAt",
			[]query.SortField{
				{Field: "name"},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			"whitespace trimmed", " name , -createdAt ",
			[]query.SortField{
				{Field: "name"},
				{Field: "createdAt", Descending: true},
			},
		},
		{"empty parts skipped", "name,,", []query.SortField{{Field: "name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildNoConditions(t *testing.T) {
	b := query.NewBuilder(entityProjection())
	sql, args := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e"
	if sql != want {
		t.Errorf("Build() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want none", args)
	}
}

func TestBuildDefaultSort(t *testing.T) {
	b := query.NewBuilder(entityProjection(), query.SortField{Field: "name"})
	sql, _ := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e ORDER BY e.name ASC"
	if sql != want {
		t.Errorf("Build() sql = %q, want %q", sql, want)
	}
}

func TestOrderByFieldsOverridesDefault(t *testing.T) {
	b := query.NewBuilder(entityProjection(), query.SortField{Field: "name"}).
		OrderByFields([]query.SortField{{Field: "createdAt", Descending: true}})
	sql, _ := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e ORDER BY e.created_at DESC"
	if sql != want {
		t.Errorf("Build() sql = %q, want %q", sql, want)
	}
}

func TestWhereParameterNumbering(t *testing.T) {
	b := query.NewBuilder(entityProjection()).
		WhereEquals("domicileCode", "US").
		WhereContains("name", ptr("acme"))

	sql, args := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE e.domicile_code = $1 AND e.name ILIKE $2"
	if sql != want {
		t.Errorf("Build() sql = %q, want %q", sql, want)
	}

	wantArgs := []any{"US", "%acme%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("Build() args = %v, want %v", args, wantArgs)
	}
}

func TestWhereEqualsSkipsNil(t *testing.T) {
	var code *string
	b := query.NewBuilder(entityProjection()).WhereEquals("domicileCode", code)
	sql, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestWhereContainsSkipsEmpty(t *testing.T) {
	b := query.NewBuilder(entityProjection()).
		WhereContains("name", nil).
		WhereContains("name", ptr(""))

	_, args := b.Build()
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestWhereIn(t *testing.T) {
	b := query.NewBuilder(entityProjection()).
		WhereIn("domicileCode", []any{"US", "GB", "DE"})

	sql, args := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE e.domicile_code IN ($1, $2, $3)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 3 {
		t.Errorf("args length = %d, want 3", len(args))
	}
}

func TestWhereNullable(t *testing.T) {
	b := query.NewBuilder(entityProjection()).WhereNullable("domicileCode", nil)
	sql, args := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE e.domicile_code IS NULL"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}

	b = query.NewBuilder(entityProjection()).WhereNullable("domicileCode", "US")
	sql, args = b.Build()
	wantEq := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE e.domicile_code = $1"
	if sql != wantEq {
		t.Errorf("sql = %q, want %q", sql, wantEq)
	}
	if !reflect.DeepEqual(args, []any{"US"}) {
		t.Errorf("args = %v, want [US]", args)
	}
}

func TestWhereSearch(t *testing.T) {
	b := query.NewBuilder(entityProjection()).
		WhereSearch(ptr("corp"), "name", "domicileCode")

	sql, args := b.Build()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE (e.name ILIKE $1 OR e.domicile_code ILIKE $2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}

	wantArgs := []any{"%corp%", "%corp%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestBuildCount(t *testing.T) {
	b := query.NewBuilder(entityProjection(), query.SortField{Field: "name"}).
		WhereEquals("domicileCode", "US")

	sql, args := b.BuildCount()

	want := "SELECT COUNT(*) FROM public.entities e WHERE e.domicile_code = $1"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"US"}) {
		t.Errorf("BuildCount() args = %v, want [US]", args)
	}
}

func TestBuildPage(t *testing.T) {
	b := query.NewBuilder(entityProjection(), query.SortField{Field: "name"})
	sql, _ := b.BuildPage(3, 25)

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" ORDER BY e.name ASC LIMIT 25 OFFSET 50"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
}

func TestBuildSingle(t *testing.T) {
	b := query.NewBuilder(entityProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e WHERE e.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"abc-123"}) {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuildSingleOrNull(t *testing.T) {
	b := query.NewBuilder(entityProjection()).WhereEquals("name", "Acme Corp")
	sql, args := b.BuildSingleOrNull()

	want := "SELECT e.id, e.name, e.domicile_code, e.created_at FROM public.entities e" +
		" WHERE e.name = $1 LIMIT 1"
	if sql != want {
		t.Errorf("BuildSingleOrNull() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Acme Corp"}) {
		t.Errorf("BuildSingleOrNull() args = %v, want [Acme Corp]", args)
	}
}
