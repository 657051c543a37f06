package main

import "bitbucket.org/turnlab/cubar/correlate"

// RunSummary is storing cubar run summary information.
type RunSummary struct {
	// Version stores cubar version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Analysis is the analysis which was run.
	Analysis string `json:"analysis"`
	// Radius is the domain-boundary radius (boundaries analysis only).
	Radius int `json:"radius,omitempty"`
	// GenesRequested is the number of gene identifiers in the input list.
	GenesRequested int `json:"genesRequested"`
	// GenesProcessed is the number of genes which were successfully
	// processed. A value below GenesRequested is not an error state.
	GenesProcessed int `json:"genesProcessed"`
	// Positive summarizes the positive class (classification analyses).
	Positive *correlate.ClassSummary `json:"positive,omitempty"`
	// Negative summarizes the negative class (classification analyses).
	Negative *correlate.ClassSummary `json:"negative,omitempty"`
	// Pearson is the correlation coefficient (correlation analyses).
	// It is omitted when the coefficient is undefined, e.g. for
	// fewer than two processed genes.
	Pearson *float64 `json:"pearson,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
