// Package scraper collects job listings from job boards into a corpus.
package scraper

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/giomambre/cv-job-matching/internal/typoutil"
)

// Listing is one job advertisement parsed from a search results page.
type Listing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Source knows how to query and parse one job board.
type Source interface {
	// Name is the registry key, e.g. "indeed".
	Name() string
	// BuildSearchURL returns the URL of a zero-based results page.
	BuildSearchURL(keyword, location string, page int) string
	// ParseListings selects the listing elements of a results page.
	ParseListings(doc *goquery.Document) *goquery.Selection
	// ParseDetails extracts one listing. ok is false when the element holds no usable ad.
	ParseDetails(sel *goquery.Selection) (listing Listing, ok bool)
}

// Default job board hosts.
const (
	IndeedBaseURL   = "https://it.indeed.com"
	LinkedInBaseURL = "https://www.linkedin.com"
	InfoJobsBaseURL = "https://www.infojobs.it"
)

var constructors = map[string]func(baseURL string) Source{
	"indeed":   func(base string) Source { return NewIndeed(base) },
	"linkedin": func(base string) Source { return NewLinkedIn(base) },
	"infojobs": func(base string) Source { return NewInfoJobs(base) },
}

// SourceNames lists the registered job boards, sorted.
func SourceNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSource returns the named job board. An empty baseURL selects the public host.
func NewSource(name, baseURL string) (Source, error) {
	ctor, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		if suggestion, found := typoutil.Closest(name, SourceNames(), typoutil.DefaultMaxDistance); found {
			return nil, fmt.Errorf("unknown job board %q, did you mean %q?", name, suggestion)
		}
		return nil, fmt.Errorf("unknown job board %q (available: %s)", name, strings.Join(SourceNames(), ", "))
	}
	return ctor(baseURL), nil
}

// cleanText trims a node's text and collapses inner whitespace.
func cleanText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// resolve joins href onto base. Absolute hrefs are returned unchanged.
func resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref.String()
	}
	return b.ResolveReference(ref).String()
}

// firstMatch returns the first element matching any selector, tried in order.
func firstMatch(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if found := sel.Find(s).First(); found.Length() > 0 {
			return found
		}
	}
	return sel.Slice(0, 0)
}

func orDefault(base, fallback string) string {
	if base == "" {
		return fallback
	}
	return strings.TrimRight(base, "/")
}
