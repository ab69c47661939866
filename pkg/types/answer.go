// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Classification labels the scientific standing of a claim.
type Classification string

const (
	ClassScientific Classification = "Scientific"
	ClassPseudo     Classification = "Pseudo-science/Inconclusive"
	ClassPartially  Classification = "Partially correct"
)

// Valid reports whether c is one of the three accepted labels.
func (c Classification) Valid() bool {
	switch c {
	case ClassScientific, ClassPseudo, ClassPartially:
		return true
	}
	return false
}

// Answer is the structured result of validating one claim. The answer
// generator's raw output is parsed into this shape at the boundary;
// anything that does not fit is a parse error, not an Answer.
type Answer struct {
	// ScientificValidationSummary reviews the retrieved evidence for
	// the claim in a short paragraph.
	ScientificValidationSummary string `json:"scientific_validation_summary" yaml:"scientific_validation_summary"`

	// Classification is the claim's scientific standing.
	Classification Classification `json:"classification" yaml:"classification"`

	// ResearchSummary summarizes the findings supporting the
	// classification.
	ResearchSummary string `json:"research_summary" yaml:"research_summary"`

	// ContradictoryClaims notes scientifically supported evidence that
	// contradicts the claim, if any.
	ContradictoryClaims string `json:"contradictory_claims" yaml:"contradictory_claims"`
}

// Validate checks that the answer carries an accepted classification.
func (a Answer) Validate() error {
	if !a.Classification.Valid() {
		return fmt.Errorf("unknown classification %q", a.Classification)
	}
	return nil
}
