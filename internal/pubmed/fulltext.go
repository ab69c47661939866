// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crediverify/crediverify/pkg/types"
)

// fetchConclusions resolves the PMID to its PubMed Central full-text
// variant and extracts the conclusion section. Every failure mode
// degrades to ("", placeholder): a missing PMC link, a failed fetch,
// and an article without a conclusion heading are all expected cases.
func (f *Fetcher) fetchConclusions(ctx context.Context, pmid string) (pmcid, conclusions string) {
	pmcid = f.resolvePMCID(ctx, pmid)
	if pmcid == "" {
		return "", types.ConclusionPlaceholder
	}

	params := url.Values{
		"db":      {"pmc"},
		"id":      {pmcid},
		"retmode": {"xml"},
	}

	body, err := f.get(ctx, efetchBase, params)
	if err != nil {
		return pmcid, types.ConclusionPlaceholder
	}
	defer body.Close()

	text, found := extractConclusions(body)
	if !found {
		return pmcid, types.ConclusionPlaceholder
	}
	return pmcid, text
}

// resolvePMCID looks up the PMC cross-reference for a PMID via elink.
// Returns "" when no free full-text variant exists or the lookup fails.
func (f *Fetcher) resolvePMCID(ctx context.Context, pmid string) string {
	params := url.Values{
		"dbfrom":  {"pubmed"},
		"db":      {"pmc"},
		"id":      {pmid},
		"retmode": {"xml"},
	}

	body, err := f.get(ctx, elinkBase, params)
	if err != nil {
		return ""
	}
	defer body.Close()

	var result elinkResult
	if err := xml.NewDecoder(body).Decode(&result); err != nil {
		return ""
	}

	for _, linkSet := range result.LinkSets {
		for _, db := range linkSet.LinkSetDBs {
			if len(db.IDs) > 0 {
				return "PMC" + db.IDs[0]
			}
		}
	}
	return ""
}

// extractConclusions scans a JATS full-text document for the first
// section whose title contains "conclusion" (case-insensitive) and
// concatenates its paragraph text. The lenient HTML parser underneath
// goquery copes with the XML without a schema.
func extractConclusions(r io.Reader) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false
	}

	var (
		b     strings.Builder
		found bool
	)

	doc.Find("sec").EachWithBreak(func(_ int, sec *goquery.Selection) bool {
		title := sec.ChildrenFiltered("title").First().Text()
		if !strings.Contains(strings.ToLower(title), "conclusion") {
			return true
		}
		found = true
		sec.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := strings.TrimSpace(p.Text())
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		})
		return false
	})

	text := strings.TrimSpace(b.String())
	if !found || text == "" {
		return "", false
	}
	return text, true
}

// elink XML structures (subset).

type elinkResult struct {
	XMLName  xml.Name   `xml:"eLinkResult"`
	LinkSets []elinkSet `xml:"LinkSet"`
}

type elinkSet struct {
	LinkSetDBs []elinkSetDB `xml:"LinkSetDb"`
}

type elinkSetDB struct {
	IDs []string `xml:"Link>Id"`
}
