package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{
		0:   DefaultLimit,
		-5:  DefaultLimit,
		10:  10,
		100: 100,
		500: MaxLimit,
	}
	for input, want := range cases {
		if got := NormalizeLimit(input); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", input, got, want)
		}
	}
}

func TestParamsOffset(t *testing.T) {
	params := Params{Page: 3, Limit: 10}
	if got := params.Offset(); got != 30 {
		t.Fatalf("Offset() = %d, want 30", got)
	}

	params = Params{Page: -1, Limit: 10}
	if got := params.Offset(); got != 0 {
		t.Fatalf("Offset() for negative page = %d, want 0", got)
	}
}

func TestOrderClauseRejectsUnknownColumns(t *testing.T) {
	allowed := map[string]string{"date": "order_date", "total": "total_amount"}

	params := Params{Sort: "date", Desc: true}
	if got := params.OrderClause(allowed); got != "order_date DESC" {
		t.Fatalf("unexpected order clause %q", got)
	}

	params = Params{Sort: "total_amount; DROP TABLE orders"}
	if got := params.OrderClause(allowed); got != "created_at ASC" {
		t.Fatalf("expected fallback clause, got %q", got)
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?page=2&limit=50&sort=date&order=desc", nil)
	params := FromRequest(r)

	if params.Page != 2 {
		t.Fatalf("expected page 2, got %d", params.Page)
	}
	if params.Limit != 50 {
		t.Fatalf("expected limit 50, got %d", params.Limit)
	}
	if params.Sort != "date" || !params.Desc {
		t.Fatalf("unexpected sort params: %+v", params)
	}

	r = httptest.NewRequest("GET", "/orders?page=junk&limit=junk", nil)
	params = FromRequest(r)
	if params.Page != 0 || params.Limit != DefaultLimit {
		t.Fatalf("expected defaults for junk input, got %+v", params)
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Params{Page: 0, Limit: 2}, 5)

	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", page.TotalPages)
	}
	if page.LastPage {
		t.Fatal("expected first page not to be the last")
	}

	last := NewPage([]string{"e"}, Params{Page: 2, Limit: 2}, 5)
	if !last.LastPage {
		t.Fatal("expected third page to be the last")
	}

	empty := NewPage([]string{}, Params{Page: 0, Limit: 10}, 0)
	if empty.TotalPages != 1 || !empty.LastPage {
		t.Fatalf("unexpected empty page counters: %+v", empty)
	}
}
