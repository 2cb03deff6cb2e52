package listutil

import (
	"net/url"
	"testing"
)

// TestParse covers defaulting and validation of list parameters.
func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"empty", "", Params{Page: 1, PerPage: 20, Dir: "asc"}},
		{"valid", "page=3&per_page=50&sort=name&dir=desc&q=ana&status=active",
			Params{Page: 3, PerPage: 50, Sort: "name", Dir: "desc", Search: "ana", Status: "active"}},
		{"bad page", "page=-2", Params{Page: 1, PerPage: 20, Dir: "asc"}},
		{"bad per_page", "per_page=7", Params{Page: 1, PerPage: 20, Dir: "asc"}},
		{"unknown sort column", "sort=password_hash", Params{Page: 1, PerPage: 20, Dir: "asc"}},
		{"bad dir", "sort=name&dir=sideways", Params{Page: 1, PerPage: 20, Sort: "name", Dir: "asc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got := Parse(q, []string{"name", "created_at"})
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestNewPageInfo covers clamping and derived row numbers.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantStart, wantEnd   int
	}{
		{"first page", 1, 20, 45, 1, 3, 1, 20},
		{"last partial page", 3, 20, 45, 3, 3, 41, 45},
		{"page past end clamps", 9, 20, 45, 3, 3, 41, 45},
		{"empty", 1, 20, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageInfo(tt.page, tt.perPage, tt.total)
			if p.Page != tt.wantPage || p.TotalPages != tt.wantPages {
				t.Errorf("page/pages = %d/%d, want %d/%d", p.Page, p.TotalPages, tt.wantPage, tt.wantPages)
			}
			if p.StartRow() != tt.wantStart || p.EndRow() != tt.wantEnd {
				t.Errorf("rows = %d..%d, want %d..%d", p.StartRow(), p.EndRow(), tt.wantStart, tt.wantEnd)
			}
		})
	}
	if NewPageInfo(1, 20, 45).Offset() != 0 || NewPageInfo(2, 20, 45).Offset() != 20 {
		t.Error("Offset mismatch")
	}
	if !NewPageInfo(1, 20, 45).ShowPagination() || NewPageInfo(1, 20, 5).ShowPagination() {
		t.Error("ShowPagination mismatch")
	}
}
