// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"net/url"
	"regexp"
	"strings"
)

// SourceType classifies a citation URL.
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourcePubMed
	SourceDOI
	SourceWeb
)

func (t SourceType) String() string {
	switch t {
	case SourcePubMed:
		return "pubmed"
	case SourceDOI:
		return "doi"
	case SourceWeb:
		return "web"
	default:
		return "unknown"
	}
}

// pmidPatterns are tried in order: standard article view, legacy view,
// mobile view, bare path. Each captures the numeric accession.
var pmidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`),
	regexp.MustCompile(`ncbi\.nlm\.nih\.gov/pubmed/(\d+)`),
	regexp.MustCompile(`ncbi\.nlm\.nih\.gov/m/pubmed/(\d+)`),
	regexp.MustCompile(`/pubmed/(\d+)`),
}

// doiPathPattern matches a DOI embedded in a URL path: "/10.1038/nature12345".
var doiPathPattern = regexp.MustCompile(`/10\.\d{4,9}/[^\s]+`)

// ResolvePMID extracts a PubMed accession from a citation URL. The input
// need not be a valid URL; the accession may appear anywhere in it.
func ResolvePMID(rawURL string) (string, bool) {
	for _, p := range pmidPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Classify determines which kind of literature source a URL points to.
func Classify(rawURL string) SourceType {
	rawURL = strings.TrimSpace(rawURL)
	if _, ok := ResolvePMID(rawURL); ok {
		return SourcePubMed
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return SourceUnknown
	}

	host := strings.ToLower(u.Hostname())
	if host == "doi.org" || host == "dx.doi.org" || doiPathPattern.MatchString(u.Path) {
		return SourceDOI
	}
	return SourceWeb
}
