// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// minElementChars is the length an element's text must exceed to count as an
// abstract. The meta-tag selector is exempt.
const minElementChars = 100

// paragraphScanLimit is how many <p> elements the fallback pass inspects.
const paragraphScanLimit = 5

// abstractSelector is one priority rule for locating an abstract in a page.
type abstractSelector struct {
	// attr is the CSS attribute clause appended to div, section, and p.
	attr string
	// meta, when set, names a <meta> tag whose content attribute is used.
	meta string
}

// abstractSelectors are tried in order.
var abstractSelectors = []abstractSelector{
	{attr: ".abstract"},
	{attr: ".abstract-content"},
	{attr: "#abstract"},
	{attr: `[class="section abstract"]`},
	{meta: "dc.description"},
}

// elementTags are searched in order for each element selector.
var elementTags = []string{"div", "section", "p"}

// ScrapeRetriever fetches a page and extracts its abstract from markup.
type ScrapeRetriever struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// Name returns the strategy identifier.
func (r *ScrapeRetriever) Name() string { return "scrape" }

// Retrieve downloads pageURL and searches it for an abstract.
func (r *ScrapeRetriever) Retrieve(ctx context.Context, pageURL string) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return failed("creating request: %w", err)
	}
	userAgent := r.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return failed("timeout scraping %s: %w", pageURL, err)
		}
		return failed("request error scraping %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return failed("parsing markup from %s: %w", pageURL, err)
	}

	if text, ok := findAbstract(doc); ok {
		return found(text)
	}
	return noMatch()
}

// findAbstract applies the priority selectors, then the paragraph fallback.
func findAbstract(doc *goquery.Document) (string, bool) {
	for _, sel := range abstractSelectors {
		if sel.meta != "" {
			content, _ := doc.Find(`meta[name="` + sel.meta + `"]`).First().Attr("content")
			if content != "" {
				return content, true
			}
			continue
		}

		el := firstElement(doc, sel.attr)
		if el == nil {
			continue
		}
		if text := strippedText(el); charLen(text) > minElementChars {
			return text, true
		}
	}

	var result string
	paragraphs := doc.Find("p")
	paragraphs.Slice(0, min(paragraphScanLimit, paragraphs.Length())).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strippedText(p)
		if charLen(text) <= minElementChars {
			return true
		}
		if classMentionsAbstract(p) || classMentionsAbstract(p.Parent()) {
			result = text
			return false
		}
		return true
	})
	return result, result != ""
}

// firstElement returns the first div matching attr, else the first section,
// else the first p.
func firstElement(doc *goquery.Document, attr string) *goquery.Selection {
	for _, tag := range elementTags {
		if s := doc.Find(tag + attr).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func classMentionsAbstract(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	return strings.Contains(strings.ToLower(class), "abstract")
}

// strippedText concatenates every text node under the selection, each
// trimmed of surrounding whitespace. Script and style contents are skipped.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
