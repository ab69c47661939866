// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/crediverify/crediverify/pkg/types"
)

// fetchRecord retrieves metadata for one PMID and attempts the full-text
// conclusion lookup. Failures on the full-text path degrade to the
// placeholder conclusion; a metadata failure fails the record.
func (f *Fetcher) fetchRecord(ctx context.Context, pmid string) (types.LiteratureRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}

	body, err := f.get(ctx, efetchBase, params)
	if err != nil {
		return types.LiteratureRecord{}, err
	}
	defer body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return types.LiteratureRecord{}, fmt.Errorf("parsing efetch response: %w", err)
	}
	if len(set.Articles) == 0 {
		return types.LiteratureRecord{}, fmt.Errorf("no article in efetch response")
	}

	article := set.Articles[0].MedlineCitation.Article

	record := types.LiteratureRecord{
		PMID:     pmid,
		Title:    strings.TrimSpace(article.Title),
		Abstract: strings.TrimSpace(strings.Join(article.Abstract.Sections, " ")),
		Journal:  strings.TrimSpace(article.Journal.Title),
		URL:      pubmedURLBase + pmid,
	}

	// Full-text lookup is best effort: any failure leaves the record
	// with the placeholder conclusion.
	record.PMCID, record.Conclusions = f.fetchConclusions(ctx, pmid)

	return record, nil
}

// PubMed efetch XML structures (subset).

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	Article articleData `xml:"Article"`
}

type articleData struct {
	Title    string          `xml:"ArticleTitle"`
	Abstract articleAbstract `xml:"Abstract"`
	Journal  articleJournal  `xml:"Journal"`
}

type articleAbstract struct {
	// Sections holds the AbstractText elements; structured abstracts
	// carry one element per labeled section.
	Sections []string `xml:"AbstractText"`
}

type articleJournal struct {
	Title string `xml:"Title"`
}
