// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches biomedical literature from the NCBI Entrez
// API. A fetch run issues one esearch query built from claim keywords,
// then resolves each returned PMID concurrently: article metadata via
// efetch, the free full-text variant (if any) via elink, and the
// full text's conclusion section via a second efetch against PubMed
// Central. Individual article failures degrade; only the initial
// search call can fail the run.
package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/crediverify/crediverify/internal/httputil"
	"github.com/crediverify/crediverify/pkg/types"
)

// Entrez endpoint base URLs. Declared as vars so tests can substitute
// httptest servers.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	elinkBase   = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/elink.fcgi"

	// pubmedURLBase is the human-facing article URL prefix.
	pubmedURLBase = "https://pubmed.ncbi.nlm.nih.gov/"
)

const defaultMaxResults = 7

// Fetcher queries PubMed for literature matching a topic set.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// NewFetcher builds a Fetcher. A nil client falls back to a default
// with the configured timeout.
func NewFetcher(client *http.Client, cfg types.FetchConfig) *Fetcher {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Fetcher{client: client, cfg: cfg}
}

// BuildQuery combines topics and a date range into a single Entrez
// boolean query: every topic restricted to Title/Abstract, AND-joined,
// AND the date filter.
func BuildQuery(topics types.Topics, dateRange string) string {
	var parts []string
	if len(topics) > 0 {
		fielded := make([]string, len(topics))
		for i, topic := range topics {
			fielded[i] = topic + "[Title/Abstract]"
		}
		parts = append(parts, "("+strings.Join(fielded, " AND ")+")")
	}
	if dateRange != "" {
		parts = append(parts, dateRange)
	}
	return strings.Join(parts, " AND ")
}

// Fetch runs the full literature pipeline for one topic set. It returns
// an empty slice (not an error) when the search matches nothing or every
// per-article fetch fails; that is the expected "no literature" case.
// Per-article warnings are written to w.
func (f *Fetcher) Fetch(ctx context.Context, topics types.Topics, w io.Writer) ([]types.LiteratureRecord, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("no topics to search for")
	}

	query := BuildQuery(topics, f.cfg.DateRange)

	pmids, err := f.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching PubMed: %w", err)
	}
	if len(pmids) == 0 {
		return nil, nil
	}

	type fetchResult struct {
		record types.LiteratureRecord
		pmid   string
		err    error
	}

	ch := make(chan fetchResult, len(pmids))
	var wg sync.WaitGroup

	for i, pmid := range pmids {
		if i > 0 {
			if err := httputil.Pace(ctx, f.cfg.FetchDelay); err != nil {
				break
			}
		}
		wg.Add(1)
		go func(pmid string) {
			defer wg.Done()
			record, err := f.fetchRecord(ctx, pmid)
			ch <- fetchResult{record: record, pmid: pmid, err: err}
		}(pmid)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var records []types.LiteratureRecord
	for fr := range ch {
		if fr.err != nil {
			fmt.Fprintf(w, "warning: PMID %s failed: %v\n", fr.pmid, fr.err)
			continue
		}
		records = append(records, fr.record)
	}

	return records, nil
}

// search issues the esearch request and returns the matched PMIDs in
// search order.
func (f *Fetcher) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", f.cfg.MaxResults)},
		"retmode": {"xml"},
	}

	body, err := f.get(ctx, esearchBase, params)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result esearchResult
	if err := xml.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return result.IDList, nil
}

// get performs one eutils GET with shared parameters (API key, contact
// email) appended, retrying on 429.
func (f *Fetcher) get(ctx context.Context, base string, params url.Values) (io.ReadCloser, error) {
	if f.cfg.APIKey != "" {
		params.Set("api_key", f.cfg.APIKey)
	}
	if f.cfg.Email != "" {
		params.Set("email", f.cfg.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("eutils request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("eutils returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// esearchResult is the subset of the esearch XML response we consume.
type esearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDList  []string `xml:"IdList>Id"`
}
