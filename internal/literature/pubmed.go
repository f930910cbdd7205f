// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// efetchBase is the PubMed E-utilities efetch endpoint. Declared as a var so
// tests can substitute an httptest server.
var efetchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

// PubMedRetriever fetches abstracts for PubMed accessions through efetch.
type PubMedRetriever struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// Name returns the strategy identifier.
func (r *PubMedRetriever) Name() string { return "pubmed" }

// Retrieve fetches the abstract for pmid. Labeled segments are emitted as
// "LABEL: text" and all segments are joined with single spaces.
func (r *PubMedRetriever) Retrieve(ctx context.Context, pmid string) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return failed("creating request: %w", err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}
	req.Header.Set("Accept", "application/xml")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return failed("timeout fetching PMID:%s: %w", pmid, err)
		}
		return failed("efetch request for PMID:%s: %w", pmid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed("efetch returned HTTP %d for PMID:%s", resp.StatusCode, pmid)
	}

	segments, err := parseAbstractSegments(resp.Body)
	if err != nil {
		return failed("parsing efetch XML for PMID:%s: %w", pmid, err)
	}
	if len(segments) == 0 {
		return noMatch()
	}

	joined := strings.Join(segments, " ")
	if strings.TrimSpace(joined) == "" {
		return noMatch()
	}
	return found(joined)
}

// parseAbstractSegments streams the efetch document and returns one string
// per AbstractText element found anywhere in it. Text nested inside inline
// markup (<i>, <sup>, ...) is included. A malformed document is an error even
// when segments were found before the fault.
func parseAbstractSegments(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var segments []string
	sawElement := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if start.Name.Local != "AbstractText" {
			continue
		}

		text, err := collectText(dec)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)

		if label := attr(start, "Label"); label != "" {
			segments = append(segments, fmt.Sprintf("%s: %s", label, text))
		} else {
			segments = append(segments, text)
		}
	}
	if !sawElement {
		return nil, errors.New("document has no root element")
	}
	return segments, nil
}

// collectText consumes tokens up to the end of the current element and
// returns all character data inside it.
func collectText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
