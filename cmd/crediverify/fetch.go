// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/crediverify/crediverify/internal/pubmed"
	"github.com/crediverify/crediverify/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch PubMed literature for search topics",
	Long: `Fetch queries PubMed for articles matching the given topics within a
creation-date window, then retrieves metadata and full-text conclusions
(via PubMed Central) for each match.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSlice("topics", nil, "search topics (comma-separated, at most 3 used)")
	fetchCmd.Flags().String("from", "", "creation date range start (YYYY/MM/DD, default 2000/01/01)")
	fetchCmd.Flags().String("to", "", "creation date range end (YYYY/MM/DD, default 2024/07/31)")
	fetchCmd.Flags().Int("max-results", 0, "maximum number of articles (default 7)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between per-article fetches (default 100ms)")
	fetchCmd.Flags().String("pubmed-api-key", "", "NCBI API key (default from .secrets/)")
	fetchCmd.Flags().String("email", "", "contact email sent to Entrez (default from .secrets/)")
	fetchCmd.Flags().Bool("yaml", false, "output records as YAML")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	topicList, _ := cmd.Flags().GetStringSlice("topics")
	if len(topicList) == 0 {
		return fmt.Errorf("provide at least one topic with --topics")
	}

	cfg := fetchConfigFromFlags(cmd)
	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := pubmed.NewFetcher(client, cfg)

	records, err := fetcher.Fetch(cmd.Context(), types.Topics(topicList), os.Stderr)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	if yamlOutput {
		return yaml.NewEncoder(os.Stdout).Encode(records)
	}

	printRecordTable(records)
	return nil
}

func printRecordTable(records []types.LiteratureRecord) {
	fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-30s  %s\n", "PMID", "Title", "Journal", "PMCID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-30s  %s\n",
			r.PMID, truncate(r.Title, 50), truncate(r.Journal, 30), r.PMCID)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
