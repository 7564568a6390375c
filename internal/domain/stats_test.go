package domain

import (
	"testing"
	"time"
)

func TestAggregateScenario(t *testing.T) {
	now := time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC)
	list := []Resource{
		{Category: "", Tags: []string{"a"}, CreatedAt: now},
		{Category: "Dev", Tags: []string{"a", "b"}, CreatedAt: now.AddDate(0, -1, 0)},
	}

	s := Aggregate(list, now)

	if s.Total != 2 {
		t.Errorf("Total = %d, want 2", s.Total)
	}
	if s.ThisMonth != 1 {
		t.Errorf("ThisMonth = %d, want 1", s.ThisMonth)
	}

	wantCats := []CategoryCount{{UncategorizedLabel, 1, 50}, {"Dev", 1, 50}}
	if len(s.Categories) != len(wantCats) {
		t.Fatalf("Categories = %+v, want %+v", s.Categories, wantCats)
	}
	for i := range wantCats {
		if s.Categories[i] != wantCats[i] {
			t.Errorf("Categories[%d] = %+v, want %+v", i, s.Categories[i], wantCats[i])
		}
	}

	wantTags := []NameCount{{"a", 2}, {"b", 1}}
	if len(s.TopTags) != len(wantTags) {
		t.Fatalf("TopTags = %+v, want %+v", s.TopTags, wantTags)
	}
	for i := range wantTags {
		if s.TopTags[i] != wantTags[i] {
			t.Errorf("TopTags[%d] = %+v, want %+v", i, s.TopTags[i], wantTags[i])
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, time.Now())
	if s.Total != 0 || s.ThisMonth != 0 {
		t.Errorf("empty aggregate counts = %d/%d, want 0/0", s.Total, s.ThisMonth)
	}
	if len(s.Categories) != 0 || len(s.Sources) != 0 || len(s.TopTags) != 0 {
		t.Errorf("empty aggregate lists should be empty: %+v", s)
	}
	if s.Categories == nil || s.Sources == nil || s.TopTags == nil {
		t.Error("empty aggregate lists should be non-nil for JSON output")
	}
}

func TestAggregateSources(t *testing.T) {
	now := time.Now()
	list := []Resource{
		{URL: "https://medium.com/a"},
		{URL: "https://dev.to/b"},
		{URL: "https://youtube.com/c"},
		{URL: "https://reddit.com/d"},
		{URL: "https://youtu.be/e"},
		{URL: "https://dev.to/f"},
	}

	s := Aggregate(list, now)
	want := []NameCount{{BucketArticles, 3}, {BucketYouTube, 2}, {BucketOther, 1}}
	if len(s.Sources) != len(want) {
		t.Fatalf("Sources = %+v, want %+v", s.Sources, want)
	}
	for i := range want {
		if s.Sources[i] != want[i] {
			t.Errorf("Sources[%d] = %+v, want %+v", i, s.Sources[i], want[i])
		}
	}
}

func TestAggregateBounds(t *testing.T) {
	now := time.Now()
	var list []Resource
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			list = append(list, Resource{
				Category:  string(rune('A' + i)),
				Tags:      []string{string(rune('a' + i))},
				CreatedAt: now,
			})
		}
	}

	s := Aggregate(list, now)
	if len(s.Categories) != TopN {
		t.Errorf("len(Categories) = %d, want %d", len(s.Categories), TopN)
	}
	if len(s.TopTags) != TopN {
		t.Errorf("len(TopTags) = %d, want %d", len(s.TopTags), TopN)
	}

	sumCount, sumPct := 0, 0
	for _, c := range s.Categories {
		if c.Percentage < 0 || c.Percentage > 100 {
			t.Errorf("category %s percentage %d out of range", c.Name, c.Percentage)
		}
		sumCount += c.Count
		sumPct += c.Percentage
	}
	if sumCount > s.Total {
		t.Errorf("sum of category counts %d exceeds total %d", sumCount, s.Total)
	}
	if sumPct > 100 {
		t.Errorf("sum of percentages %d exceeds 100", sumPct)
	}
	if s.Categories[0].Name != "L" {
		t.Errorf("top category = %s, want L", s.Categories[0].Name)
	}
}

func TestTagCountsAndWithTag(t *testing.T) {
	list := []Resource{
		{ID: "1", Tags: []string{"x", "y"}},
		{ID: "2", Tags: []string{"y"}},
		{ID: "3", Tags: []string{"z", "y"}},
	}

	counts := TagCounts(list)
	if len(counts) != 3 || counts[0] != (NameCount{"y", 3}) || counts[1] != (NameCount{"x", 1}) {
		t.Errorf("TagCounts() = %+v", counts)
	}

	if got := ids(WithTag(list, "y")); !equalIDs(got, []string{"1", "2", "3"}) {
		t.Errorf("WithTag(y) = %v", got)
	}
}

func TestStatsBucket(t *testing.T) {
	tests := map[string]string{
		"https://github.com/x":  BucketGitHub,
		"https://youtu.be/x":    BucketYouTube,
		"https://medium.com/x":  BucketArticles,
		"https://dev.to/x":      BucketArticles,
		"https://substack.com":  BucketOther,
		"https://example.com/x": BucketOther,
	}
	for url, want := range tests {
		if got := StatsBucket(Classify(url)); got != want {
			t.Errorf("StatsBucket(%s) = %s, want %s", url, got, want)
		}
	}
}
