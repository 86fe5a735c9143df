package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	active := fallback
	if cfg != nil {
		active = *cfg
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:             %v\n", active.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", active.LogFilePath())
	fmt.Fprintf(out, "  Workers:           %d\n", active.WorkerCount())

	if active.EmbeddingHost != "" {
		fmt.Fprintf(out, "  Embedding Host:    %s\n", active.EmbeddingHost)
		fmt.Fprintf(out, "  Embedding Model:   %s\n", active.EmbeddingModel)
		fmt.Fprintf(out, "  Embedding Timeout: %s\n", active.EmbeddingTimeout())
	} else {
		fmt.Fprintln(out, "  Embedding Host:    (none; semantic method falls back to token Jaccard)")
	}

	analysis, err := active.ConsistencyConfig()
	if err != nil {
		fmt.Fprintf(out, "  Analysis:          invalid (%v)\n", err)
		return
	}
	fmt.Fprintf(out, "  Primary Method:    %s\n", analysis.PrimaryMethod)
	if len(analysis.AdditionalMethods) > 0 {
		names := make([]string, len(analysis.AdditionalMethods))
		for i, m := range analysis.AdditionalMethods {
			names[i] = string(m)
		}
		fmt.Fprintf(out, "  Additional:        %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "  Threshold:         %.2f\n", analysis.ConsistencyThreshold)
	fmt.Fprintf(out, "  N-Gram Size:       %d\n", analysis.NGramSize)
	fmt.Fprintf(out, "  Token Analysis:    %v\n", analysis.TokenAnalysis)
	fmt.Fprintf(out, "  Char Variance:     %v\n", analysis.CharVariance)
	fmt.Fprintf(out, "  Pairwise Matrix:   %v\n", analysis.ComputePairwiseMatrix)
}
