package handlers

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

func TestListParam(t *testing.T) {
	v := url.Values{"tags": {"go, rust", "", " zig ,,"}}
	got := listParam(v, "tags")
	want := []string{"go", "rust", "zig"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listParam() = %v, want %v", got, want)
	}
	if got := listParam(v, "missing"); got != nil {
		t.Errorf("listParam(missing) = %v, want nil", got)
	}
}

func TestParseViewQuery(t *testing.T) {
	q, err := parseViewQuery(url.Values{
		"q":          {"chi"},
		"sort":       {"az"},
		"categories": {"go"},
		"range":      {" 30 "},
		"pinned":     {"1"},
	})
	if err != nil {
		t.Fatalf("parseViewQuery() error = %v", err)
	}
	if q.Search != "chi" || q.Sort != domain.SortAZ || !q.PinnedOnly {
		t.Errorf("parseViewQuery() = %+v", q)
	}
	if q.Filter.DateRange != domain.Range30 || len(q.Filter.Categories) != 1 {
		t.Errorf("filter = %+v", q.Filter)
	}

	if q, _ := parseViewQuery(url.Values{}); q.Sort != domain.SortNewest {
		t.Errorf("default sort = %q, want newest", q.Sort)
	}

	for _, bad := range []url.Values{{"sort": {"random"}}, {"pinned": {"maybe"}}} {
		if _, err := parseViewQuery(bad); err == nil {
			t.Errorf("parseViewQuery(%v) should fail", bad)
		}
	}
}
