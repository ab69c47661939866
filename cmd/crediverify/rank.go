// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crediverify/crediverify/internal/pubmed"
	"github.com/crediverify/crediverify/internal/ranking"
	"github.com/crediverify/crediverify/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Fetch literature and rank it by journal credibility",
	Long: `Rank fetches PubMed articles for the given topics and joins them
against a journal credibility table (CSV or SQLite) using fuzzy journal
name matching. Output includes the matched journal, the match score,
and the normalized credibility rank.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringSlice("topics", nil, "search topics (comma-separated, at most 3 used)")
	rankCmd.Flags().String("from", "", "creation date range start (YYYY/MM/DD, default 2000/01/01)")
	rankCmd.Flags().String("to", "", "creation date range end (YYYY/MM/DD, default 2024/07/31)")
	rankCmd.Flags().Int("max-results", 0, "maximum number of articles (default 7)")
	rankCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rankCmd.Flags().Duration("delay", 0, "delay between per-article fetches (default 100ms)")
	rankCmd.Flags().String("pubmed-api-key", "", "NCBI API key (default from .secrets/)")
	rankCmd.Flags().String("email", "", "contact email sent to Entrez (default from .secrets/)")
	rankCmd.Flags().String("table", "journal_rankings.csv", "journal credibility table (CSV or SQLite)")
	rankCmd.Flags().Float64("match-floor", 0, "minimum fuzzy match similarity (default 0.55)")
	rankCmd.Flags().Bool("keep-unmatched", false, "keep records whose journal has no table match")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	topicList, _ := cmd.Flags().GetStringSlice("topics")
	if len(topicList) == 0 {
		return fmt.Errorf("provide at least one topic with --topics")
	}

	rankCfg := rankingConfigFromFlags(cmd)
	table, err := ranking.LoadTable(rankCfg.TablePath)
	if err != nil {
		return err
	}

	fetchCfg := fetchConfigFromFlags(cmd)
	client := &http.Client{Timeout: fetchCfg.Timeout}
	fetcher := pubmed.NewFetcher(client, fetchCfg)

	records, err := fetcher.Fetch(cmd.Context(), types.Topics(topicList), os.Stderr)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	ranked := ranking.Rank(records, table, rankCfg)
	if len(ranked) == 0 {
		fmt.Println("No articles matched the credibility table.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-30s  %-6s  %-6s  %s\n",
		"PMID", "Title", "Matched Journal", "Match", "Rank", "Norm")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range ranked {
		fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-30s  %-6.2f  %-6.0f  %.3f\n",
			r.PMID, truncate(r.Title, 40), truncate(r.MatchedJournal, 30),
			r.MatchScore, r.RawRank, r.NormalizedRank)
	}
	return nil
}
