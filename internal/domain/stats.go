package domain

import (
	"math"
	"slices"
	"time"
)

// TopN bounds the category and tag breakdowns.
const TopN = 8

// Stats bucket names.
const (
	BucketGitHub   = "GitHub"
	BucketYouTube  = "YouTube"
	BucketArticles = "Articles"
	BucketOther    = "Other"
)

// CategoryCount is one category row of the breakdown.
type CategoryCount struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// NameCount is a generic name/count row.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is the derived summary of a resource collection.
type Stats struct {
	Total      int             `json:"total"`
	ThisMonth  int             `json:"thisMonth"`
	Categories []CategoryCount `json:"categories"`
	Sources    []NameCount     `json:"sources"`
	TopTags    []NameCount     `json:"topTags"`
}

// StatsBucket reduces a provider to the coarse stats grouping.
func StatsBucket(src SourceConfig) string {
	switch src.ID {
	case "github":
		return BucketGitHub
	case "youtube":
		return BucketYouTube
	case "medium", "devto":
		return BucketArticles
	default:
		return BucketOther
	}
}

var bucketOrder = []string{BucketGitHub, BucketYouTube, BucketArticles, BucketOther}

// Aggregate summarizes list. now fixes the current month in its location.
func Aggregate(list []Resource, now time.Time) Stats {
	stats := Stats{
		Total:      len(list),
		Categories: []CategoryCount{},
		Sources:    []NameCount{},
		TopTags:    []NameCount{},
	}

	y, m, _ := now.Date()
	for _, r := range list {
		cy, cm, _ := r.CreatedAt.In(now.Location()).Date()
		if cy == y && cm == m {
			stats.ThisMonth++
		}
	}

	categories := make([]string, len(list))
	for i, r := range list {
		categories[i] = r.DisplayCategory()
	}
	for _, c := range topCounts(categories, TopN) {
		stats.Categories = append(stats.Categories, CategoryCount{
			Name:       c.Name,
			Count:      c.Count,
			Percentage: percentage(c.Count, stats.Total),
		})
	}

	buckets := make(map[string]int, len(bucketOrder))
	for _, r := range list {
		buckets[StatsBucket(Classify(r.URL))]++
	}
	for _, name := range bucketOrder {
		if n := buckets[name]; n > 0 {
			stats.Sources = append(stats.Sources, NameCount{Name: name, Count: n})
		}
	}
	slices.SortStableFunc(stats.Sources, byCountDesc)

	stats.TopTags = append(stats.TopTags, TagCounts(list)...)
	if len(stats.TopTags) > TopN {
		stats.TopTags = stats.TopTags[:TopN]
	}

	return stats
}

// TagCounts returns every tag with its frequency, most used first, ties in
// first-seen order.
func TagCounts(list []Resource) []NameCount {
	var tags []string
	for _, r := range list {
		tags = append(tags, r.Tags...)
	}
	return topCounts(tags, 0)
}

// WithTag returns the resources carrying tag, in input order.
func WithTag(list []Resource, tag string) []Resource {
	out := make([]Resource, 0)
	for _, r := range list {
		if slices.Contains(r.Tags, tag) {
			out = append(out, r)
		}
	}
	return out
}

// topCounts counts names in first-seen order, then stable-sorts by count.
// limit <= 0 keeps everything.
func topCounts(names []string, limit int) []NameCount {
	index := make(map[string]int)
	counts := make([]NameCount, 0)
	for _, n := range names {
		if i, ok := index[n]; ok {
			counts[i].Count++
			continue
		}
		index[n] = len(counts)
		counts = append(counts, NameCount{Name: n, Count: 1})
	}
	slices.SortStableFunc(counts, byCountDesc)
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func byCountDesc(a, b NameCount) int {
	return b.Count - a.Count
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
