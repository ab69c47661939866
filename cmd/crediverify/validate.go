// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crediverify/crediverify/internal/answer"
	"github.com/crediverify/crediverify/internal/claims"
	"github.com/crediverify/crediverify/internal/keywords"
	"github.com/crediverify/crediverify/internal/pubmed"
	"github.com/crediverify/crediverify/internal/ranking"
	"github.com/crediverify/crediverify/internal/validate"
	"github.com/crediverify/crediverify/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate health claims against PubMed literature",
	Long: `Validate runs the full pipeline for one or more claims: keyword
extraction, literature fetch, credibility ranking, evidence retrieval,
and answer generation. Claims come from --claim or one per "* " bullet
line in --claims-file. When no literature is found the claim is
answered from model knowledge alone.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("claim", "", "single claim to validate")
	validateCmd.Flags().String("claims-file", "", "file with one \"* \" bulleted claim per line")
	validateCmd.Flags().String("from", "", "creation date range start (YYYY/MM/DD, default 2000/01/01)")
	validateCmd.Flags().String("to", "", "creation date range end (YYYY/MM/DD, default 2024/07/31)")
	validateCmd.Flags().Int("max-results", 0, "maximum number of articles per claim (default 7)")
	validateCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	validateCmd.Flags().Duration("delay", 0, "delay between per-article fetches (default 100ms)")
	validateCmd.Flags().String("pubmed-api-key", "", "NCBI API key (default from .secrets/)")
	validateCmd.Flags().String("email", "", "contact email sent to Entrez (default from .secrets/)")
	validateCmd.Flags().String("table", "journal_rankings.csv", "journal credibility table (CSV or SQLite)")
	validateCmd.Flags().Float64("match-floor", 0, "minimum fuzzy match similarity (default 0.55)")
	validateCmd.Flags().Bool("keep-unmatched", false, "keep records whose journal has no table match")
	validateCmd.Flags().Int("top-k", 0, "retrieved candidates per claim (default 5)")
	validateCmd.Flags().Float64("similarity-weight", 0, "fusion weight on similarity (default 0.8)")
	validateCmd.Flags().String("model", "", "chat model identifier (default gpt-4o-mini)")
	validateCmd.Flags().String("openai-api-key", "", "OpenAI API key (default from .secrets/)")
	validateCmd.Flags().String("embedding-backend", "openai", "embedding backend: openai or local")
	validateCmd.Flags().String("model-dir", "models", "local embedding model directory")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	claimList, err := claimsFromFlags(cmd)
	if err != nil {
		return err
	}

	rankCfg := rankingConfigFromFlags(cmd)
	table, err := ranking.LoadTable(rankCfg.TablePath)
	if err != nil {
		return err
	}

	fetchCfg := fetchConfigFromFlags(cmd)
	client := &http.Client{Timeout: fetchCfg.Timeout}

	embedder, closeEmbedder, err := buildEmbedder(cmd, client)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	topK, _ := cmd.Flags().GetInt("top-k")
	simWeight, _ := cmd.Flags().GetFloat64("similarity-weight")
	completer := newChatClient(cmd, client)

	v := &validate.Validator{
		Keywords: keywords.NewChatExtractor(completer),
		Fetcher:  pubmed.NewFetcher(client, fetchCfg),
		Table:    table,
		Embedder: embedder,
		Answerer: answer.NewChatGenerator(completer),
		Config: types.PipelineConfig{
			Fetch:     fetchCfg,
			Ranking:   rankCfg,
			Retrieval: types.RetrievalConfig{TopK: topK, SimilarityWeight: simWeight},
		},
	}

	results, summary := v.ValidateAll(cmd.Context(), claimList, os.Stderr)
	for _, res := range results {
		printResult(res)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d claim(s) failed validation", summary.Failed)
	}
	return nil
}

// claimsFromFlags resolves the claim list from --claim or --claims-file.
func claimsFromFlags(cmd *cobra.Command) ([]string, error) {
	claim, _ := cmd.Flags().GetString("claim")
	claimsFile, _ := cmd.Flags().GetString("claims-file")

	switch {
	case claim != "" && claimsFile != "":
		return nil, fmt.Errorf("--claim and --claims-file are mutually exclusive")
	case claim != "":
		return []string{claim}, nil
	case claimsFile != "":
		data, err := os.ReadFile(claimsFile)
		if err != nil {
			return nil, fmt.Errorf("reading claims file: %w", err)
		}
		list := claims.ParseBullets(string(data))
		if len(list) == 0 {
			return nil, fmt.Errorf("no \"* \" bulleted claims in %s", claimsFile)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("provide a claim with --claim or --claims-file")
	}
}

// printResult writes one claim's verdict to stdout with a colored
// classification label.
func printResult(res validate.Result) {
	bold := color.New(color.Bold)
	bold.Printf("Claim: %s\n", res.Claim)
	fmt.Printf("ID: %s\n", res.ID)

	if res.Err != nil {
		color.Red("Failed at %s stage: %v\n", res.Stage, res.Err)
		fmt.Println(strings.Repeat("-", 72))
		return
	}

	fmt.Print("Classification: ")
	switch res.Answer.Classification {
	case types.ClassScientific:
		color.Green("%s", res.Answer.Classification)
	case types.ClassPartially:
		color.Yellow("%s", res.Answer.Classification)
	default:
		color.Red("%s", res.Answer.Classification)
	}

	fmt.Printf("Validation summary: %s\n", res.Answer.ScientificValidationSummary)
	fmt.Printf("Research summary: %s\n", res.Answer.ResearchSummary)
	fmt.Printf("Contradictory claims: %s\n", res.Answer.ContradictoryClaims)

	if res.ModelOnly {
		color.Yellow("No PubMed literature found; answered from model knowledge.")
	} else {
		fmt.Println("Sources:")
		for i, s := range res.Sources {
			fmt.Printf("  %d. %s\n", i+1, s.URL)
		}
	}
	fmt.Println(strings.Repeat("-", 72))
}
