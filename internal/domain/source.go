package domain

import (
	"net/url"
	"strings"
)

// SourceColors holds badge colors for a provider.
type SourceColors struct {
	Bg     string `json:"bg"`
	Text   string `json:"text"`
	Border string `json:"border"`
}

// SourceConfig describes a known link provider.
type SourceConfig struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Colors  SourceColors `json:"colors"`
	Icon    string       `json:"icon"`
	Domains []string     `json:"domains"`
}

// OtherSourceID is the id of the fallback provider.
const OtherSourceID = "other"

// sourceTable is matched in order; the first hit wins.
var sourceTable = []SourceConfig{
	{ID: "github", Name: "GitHub", Colors: SourceColors{Bg: "#24292e", Text: "#ffffff", Border: "#1b1f23"}, Icon: "🐙", Domains: []string{"github.com"}},
	{ID: "youtube", Name: "YouTube", Colors: SourceColors{Bg: "#FF0000", Text: "#ffffff", Border: "#cc0000"}, Icon: "📺", Domains: []string{"youtube.com", "youtu.be"}},
	{ID: "reddit", Name: "Reddit", Colors: SourceColors{Bg: "#FF4500", Text: "#ffffff", Border: "#cc3700"}, Icon: "🤖", Domains: []string{"reddit.com"}},
	{ID: "notion", Name: "Notion", Colors: SourceColors{Bg: "#000000", Text: "#ffffff", Border: "#333333"}, Icon: "📝", Domains: []string{"notion.so", "notion.site"}},
	{ID: "figma", Name: "Figma", Colors: SourceColors{Bg: "#F24E1E", Text: "#ffffff", Border: "#c23e18"}, Icon: "🎨", Domains: []string{"figma.com"}},
	{ID: "linkedin", Name: "LinkedIn", Colors: SourceColors{Bg: "#0A66C2", Text: "#ffffff", Border: "#08529b"}, Icon: "💼", Domains: []string{"linkedin.com"}},
	{ID: "twitter", Name: "Twitter", Colors: SourceColors{Bg: "#1DA1F2", Text: "#ffffff", Border: "#1781c2"}, Icon: "🐦", Domains: []string{"twitter.com", "x.com"}},
	{ID: "stackoverflow", Name: "Stack Overflow", Colors: SourceColors{Bg: "#F48024", Text: "#ffffff", Border: "#c3661d"}, Icon: "💬", Domains: []string{"stackoverflow.com"}},
	{ID: "medium", Name: "Medium", Colors: SourceColors{Bg: "#000000", Text: "#ffffff", Border: "#333333"}, Icon: "📰", Domains: []string{"medium.com"}},
	{ID: "devto", Name: "Dev.to", Colors: SourceColors{Bg: "#0A0A0A", Text: "#ffffff", Border: "#333333"}, Icon: "👩‍💻", Domains: []string{"dev.to"}},
	{ID: "googledocs", Name: "Google Docs", Colors: SourceColors{Bg: "#4285F4", Text: "#ffffff", Border: "#3367d6"}, Icon: "📄", Domains: []string{"docs.google.com", "drive.google.com"}},
	{ID: "substack", Name: "Substack", Colors: SourceColors{Bg: "#FF6719", Text: "#ffffff", Border: "#cc5214"}, Icon: "✉️", Domains: []string{"substack.com"}},
	{ID: "producthunt", Name: "Product Hunt", Colors: SourceColors{Bg: "#DA552F", Text: "#ffffff", Border: "#ae4426"}, Icon: "🚀", Domains: []string{"producthunt.com"}},
	{ID: "wikipedia", Name: "Wikipedia", Colors: SourceColors{Bg: "#ffffff", Text: "#000000", Border: "#a2a9b1"}, Icon: "📚", Domains: []string{"wikipedia.org"}},
	{ID: "perplexity", Name: "Perplexity", Colors: SourceColors{Bg: "#20808D", Text: "#ffffff", Border: "#1a6670"}, Icon: "🔍", Domains: []string{"perplexity.ai"}},
	{ID: "whatsapp", Name: "WhatsApp", Colors: SourceColors{Bg: "#25D366", Text: "#ffffff", Border: "#1da851"}, Icon: "💚", Domains: []string{"whatsapp.com", "wa.me"}},
}

var otherSource = SourceConfig{
	ID:     OtherSourceID,
	Name:   "Other",
	Colors: SourceColors{Bg: "bg-indigo-500", Text: "text-white", Border: "border-indigo-600"},
	Icon:   "🌐",
}

// Classify maps a URL to its provider. Matching is a case-insensitive
// substring test over each provider's domains, in table order. Unknown or
// unparsable URLs yield the "other" provider.
func Classify(rawURL string) SourceConfig {
	lower := strings.ToLower(rawURL)
	for _, src := range sourceTable {
		for _, d := range src.Domains {
			if strings.Contains(lower, d) {
				return src.clone()
			}
		}
	}
	return otherSource.clone()
}

// Providers lists every provider including the fallback, in table order.
func Providers() []SourceConfig {
	out := make([]SourceConfig, 0, len(sourceTable)+1)
	for _, src := range sourceTable {
		out = append(out, src.clone())
	}
	return append(out, otherSource.clone())
}

// KnownSource reports whether id names a provider.
func KnownSource(id string) bool {
	if id == OtherSourceID {
		return true
	}
	for _, src := range sourceTable {
		if src.ID == id {
			return true
		}
	}
	return false
}

// MatchesSource reports whether r's provider is in ids. Empty ids match all.
func MatchesSource(r Resource, ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	id := Classify(r.URL).ID
	for _, want := range ids {
		if want == id {
			return true
		}
	}
	return false
}

func (s SourceConfig) clone() SourceConfig {
	s.Domains = append([]string(nil), s.Domains...)
	return s
}

// ─────────────────────────────────────────────────────────────────
// URL helpers
// ─────────────────────────────────────────────────────────────────

// Hostname returns the host of rawURL without a leading "www.", or "link"
// when the URL cannot be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "link"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FaviconURL returns the favicon service URL for rawURL's host.
func FaviconURL(rawURL string) string {
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(Hostname(rawURL)) + "&sz=64"
}

// EnsureProtocol prefixes https:// when rawURL has no scheme.
func EnsureProtocol(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}
