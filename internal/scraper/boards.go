package scraper

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Indeed parses it.indeed.com result pages. Pages advance by ten results.
type Indeed struct {
	BaseURL string
}

// NewIndeed returns an Indeed source rooted at baseURL.
func NewIndeed(baseURL string) *Indeed {
	return &Indeed{BaseURL: orDefault(baseURL, IndeedBaseURL)}
}

func (s *Indeed) Name() string { return "indeed" }

func (s *Indeed) BuildSearchURL(keyword, location string, page int) string {
	return fmt.Sprintf("%s/jobs?q=%s&l=%s&start=%d",
		s.BaseURL, url.QueryEscape(keyword), url.QueryEscape(location), page*10)
}

// ParseListings prefers the card layout and falls back to bare job anchors.
func (s *Indeed) ParseListings(doc *goquery.Document) *goquery.Selection {
	if cards := doc.Find("div[data-jk]"); cards.Length() > 0 {
		return cards
	}
	return doc.Find("a[data-jk]")
}

func (s *Indeed) ParseDetails(sel *goquery.Selection) (Listing, bool) {
	listing := Listing{Source: "Indeed"}

	heading := sel.Find("h2.jobTitle").First()
	if heading.Length() > 0 {
		listing.Title = cleanText(heading)
		if href, ok := heading.Find("a").First().Attr("href"); ok {
			listing.Link = resolve(s.BaseURL, href)
		}
	} else {
		anchor := sel.Filter("a[data-jk]")
		if anchor.Length() == 0 {
			anchor = sel.Find("a[data-jk]").First()
		}
		listing.Title = cleanText(anchor)
	}
	if listing.Link == "" {
		if key, ok := sel.Attr("data-jk"); ok && key != "" {
			listing.Link = fmt.Sprintf("%s/viewjob?jk=%s", s.BaseURL, url.QueryEscape(key))
		}
	}

	listing.Description = cleanText(firstMatch(sel, "div.job-snippet", "span[title]"))
	listing.Company = cleanText(firstMatch(sel, "span.companyName", `a[data-testid="company-name"]`))

	return listing, listing.Title != "" || listing.Link != ""
}

// LinkedIn parses the public job search page. Pages advance by 25 results.
type LinkedIn struct {
	BaseURL string
}

// NewLinkedIn returns a LinkedIn source rooted at baseURL.
func NewLinkedIn(baseURL string) *LinkedIn {
	return &LinkedIn{BaseURL: orDefault(baseURL, LinkedInBaseURL)}
}

func (s *LinkedIn) Name() string { return "linkedin" }

func (s *LinkedIn) BuildSearchURL(keyword, location string, page int) string {
	return fmt.Sprintf("%s/jobs/search/?keywords=%s&location=%s&start=%d",
		s.BaseURL, url.QueryEscape(keyword), url.QueryEscape(location), page*25)
}

func (s *LinkedIn) ParseListings(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div.base-card")
}

// ParseDetails builds a placeholder description: search cards carry no ad text.
func (s *LinkedIn) ParseDetails(sel *goquery.Selection) (Listing, bool) {
	listing := Listing{
		Source:  "LinkedIn",
		Title:   cleanText(sel.Find("h3.base-search-card__title").First()),
		Company: cleanText(sel.Find("h4.base-search-card__subtitle").First()),
	}
	if href, ok := sel.Find("a.base-card__full-link").First().Attr("href"); ok {
		listing.Link = resolve(s.BaseURL, href)
	}
	if listing.Company != "" {
		listing.Description = "Position at " + listing.Company
	}
	return listing, listing.Title != "" || listing.Link != ""
}

// InfoJobs parses infojobs.it offer lists. Pages are one-based and location is not supported.
type InfoJobs struct {
	BaseURL string
}

// NewInfoJobs returns an InfoJobs source rooted at baseURL.
func NewInfoJobs(baseURL string) *InfoJobs {
	return &InfoJobs{BaseURL: orDefault(baseURL, InfoJobsBaseURL)}
}

func (s *InfoJobs) Name() string { return "infojobs" }

func (s *InfoJobs) BuildSearchURL(keyword, _ string, page int) string {
	return fmt.Sprintf("%s/offerte-lavoro/?keyword=%s&page=%d", s.BaseURL, url.QueryEscape(keyword), page+1)
}

func (s *InfoJobs) ParseListings(doc *goquery.Document) *goquery.Selection {
	if items := doc.Find("div.offer-item"); items.Length() > 0 {
		return items
	}
	return doc.Find("article.offer")
}

func (s *InfoJobs) ParseDetails(sel *goquery.Selection) (Listing, bool) {
	listing := Listing{Source: "InfoJobs"}

	titleLink := firstMatch(sel, "h2", "h3").Find("a").First()
	listing.Title = cleanText(titleLink)
	if href, ok := titleLink.Attr("href"); ok {
		listing.Link = resolve(s.BaseURL, href)
	}
	listing.Description = cleanText(firstMatch(sel, "div.description", "p"))
	listing.Company = cleanText(firstMatch(sel, "div.company-name", "strong"))

	return listing, listing.Title != "" || listing.Link != ""
}

var (
	_ Source = (*Indeed)(nil)
	_ Source = (*LinkedIn)(nil)
	_ Source = (*InfoJobs)(nil)
)
