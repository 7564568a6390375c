package domain

import (
	"testing"
	"time"
)

var filterNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func sampleResources() []Resource {
	return []Resource{
		{ID: "1", Title: "Go Concurrency", URL: "https://github.com/a/b", Category: "Dev", Tags: []string{"go", "concurrency"}, CreatedAt: filterNow.AddDate(0, 0, -1), IsPinned: true},
		{ID: "2", Title: "Cooking Pasta", URL: "https://youtube.com/watch?v=1", Category: "Food", Tags: []string{"recipe"}, CreatedAt: filterNow.AddDate(0, 0, -10)},
		{ID: "3", Title: "Untitled", URL: "https://example.com/GOLANG", Category: "", Tags: nil, CreatedAt: filterNow.AddDate(0, 0, -100)},
	}
}

func ids(list []Resource) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMatchesEmptySpecIsIdentity(t *testing.T) {
	for _, r := range sampleResources() {
		if !Matches(r, FilterSpec{}, "", ScopeActive, filterNow) {
			t.Errorf("empty filter rejected resource %s", r.ID)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "search title case-insensitive", query: Query{Search: "cooking"}, want: []string{"2"}},
		{name: "search url", query: Query{Search: "golang"}, want: []string{"3"}},
		{name: "search tag", query: Query{Search: "CONCUR"}, want: []string{"1"}},
		{name: "category exact", query: Query{Filter: FilterSpec{Categories: []string{"Dev"}}}, want: []string{"1"}},
		{name: "blank category is not Uncategorized", query: Query{Filter: FilterSpec{Categories: []string{UncategorizedLabel}}}, want: []string{}},
		{name: "tags use OR", query: Query{Filter: FilterSpec{Tags: []string{"recipe", "go"}}}, want: []string{"1", "2"}},
		{name: "date range 30", query: Query{Filter: FilterSpec{DateRange: Range30}}, want: []string{"1", "2"}},
		{name: "source", query: Query{Filter: FilterSpec{Sources: []string{"youtube", OtherSourceID}}}, want: []string{"2", "3"}},
		{name: "fields combine with AND", query: Query{Search: "go", Filter: FilterSpec{Sources: []string{"youtube"}}}, want: []string{}},
		{name: "pinned only", query: Query{Scope: ScopePinnedOnly}, want: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sampleResources(), tt.query, filterNow))
			if !equalIDs(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateRangeWeek(t *testing.T) {
	recent := Resource{CreatedAt: filterNow.AddDate(0, 0, -1)}
	old := Resource{CreatedAt: filterNow.AddDate(0, 0, -10)}
	spec := FilterSpec{DateRange: RangeWeek}

	if !Matches(recent, spec, "", ScopeActive, filterNow) {
		t.Error("resource created 1 day ago should pass the 7 day range")
	}
	if Matches(old, spec, "", ScopeActive, filterNow) {
		t.Error("resource created 10 days ago should not pass the 7 day range")
	}
}

func TestFilterSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    FilterSpec
		wantErr bool
	}{
		{name: "empty", spec: FilterSpec{}},
		{name: "valid", spec: FilterSpec{DateRange: Range90, Sources: []string{"github", OtherSourceID}}},
		{name: "bad range", spec: FilterSpec{DateRange: "14"}, wantErr: true},
		{name: "bad source", spec: FilterSpec{Sources: []string{"myspace"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	list := []Resource{{Category: "Dev"}, {Category: " "}, {Category: "Food"}, {Category: "Dev"}, {Category: ""}}
	got := Categories(list)
	if !equalIDs(got, []string{"Dev", "Food"}) {
		t.Errorf("Categories() = %v, want [Dev Food]", got)
	}
}
