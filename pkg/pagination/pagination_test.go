package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/ratingsdesk/quorum/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	var cfg pagination.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeEnvOverride(t *testing.T) {
	t.Setenv("QUORUM_PAGE_SIZE", "50")
	t.Setenv("QUORUM_MAX_PAGE_SIZE", "200")

	var cfg pagination.Config
	env := &pagination.ConfigEnv{
		DefaultPageSize: "QUORUM_PAGE_SIZE",
		MaxPageSize:     "QUORUM_MAX_PAGE_SIZE",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 200 {
		t.Errorf("MaxPageSize = %d, want 200", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeInvalid(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 500, MaxPageSize: 100}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() expected error when default exceeds max")
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := testConfig()
	cfg.Merge(&pagination.Config{MaxPageSize: 250})

	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 250 {
		t.Errorf("MaxPageSize = %d, want 250", cfg.MaxPageSize)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -2, PageSize: 10}, 1, 10},
		{"oversize clamped", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid untouched", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig())
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 4, PageSize: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("Offset() = %d, want 75", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "10")
	values.Set("search", "acme")
	values.Set("sort", "name,-createdAt")

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 2 {
		t.Errorf("Page = %d, want 2", req.Page)
	}
	if req.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", req.PageSize)
	}
	if req.Search == nil || *req.Search != "acme" {
		t.Errorf("Search = %v, want acme", req.Search)
	}
	if len(req.Sort) != 2 || req.Sort[1].Field != "createdAt" || !req.Sort[1].Descending {
		t.Errorf("Sort = %v, want name asc + createdAt desc", req.Sort)
	}
}

func TestPageRequestFromQueryEmpty(t *testing.T) {
	req := pagination.PageRequestFromQuery(url.Values{}, testConfig())

	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("got page=%d size=%d, want normalized 1/20", req.Page, req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("Search = %v, want nil", req.Search)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  pagination.SortFields
	}{
		{
			"string form", `"name,-createdAt"`,
			pagination.SortFields{
				{Field: "name"},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			"array form", `[{"Field":"name","Descending":true}]`,
			pagination.SortFields{{Field: "name", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got pagination.SortFields
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 100, 25, 4},
		{"remainder rounds up", 101, 25, 5},
		{"empty still one page", 0, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	res := pagination.NewPageResult[string](nil, 0, 1, 20)
	if res.Data == nil {
		t.Error("Data = nil, want empty slice")
	}
}
