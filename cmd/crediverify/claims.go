// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/crediverify/crediverify/internal/claims"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Generate verifiable health claims from transcript text",
	Long: `Claims summarizes a video transcript and distills it into one-line
health claims in subject-verb-object form, suitable as input to the
validate command. Transcripts that are not health or fitness related
are rejected.`,
	RunE: runClaims,
}

func init() {
	claimsCmd.Flags().String("transcript-file", "", "file containing the transcript text")
	claimsCmd.Flags().String("model", "", "chat model identifier (default gpt-4o-mini)")
	claimsCmd.Flags().String("openai-api-key", "", "OpenAI API key (default from .secrets/)")
	claimsCmd.Flags().Bool("skip-health-check", false, "skip the health-relatedness check")

	rootCmd.AddCommand(claimsCmd)
}

func runClaims(cmd *cobra.Command, args []string) error {
	transcriptFile, _ := cmd.Flags().GetString("transcript-file")
	if transcriptFile == "" {
		return fmt.Errorf("provide a transcript with --transcript-file")
	}
	data, err := os.ReadFile(transcriptFile)
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	client := &http.Client{Timeout: defaultTimeout}
	gen := claims.NewGenerator(newChatClient(cmd, client))

	skipCheck, _ := cmd.Flags().GetBool("skip-health-check")
	if !skipCheck {
		related, err := gen.IsHealthRelated(cmd.Context(), string(data))
		if err != nil {
			return err
		}
		if !related {
			return fmt.Errorf("transcript is not health or fitness related")
		}
	}

	list, err := gen.FromTranscript(cmd.Context(), string(data))
	if err != nil {
		return err
	}

	for _, c := range list {
		fmt.Printf("* %s\n", c)
	}
	return nil
}
