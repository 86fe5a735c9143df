// internal/commands/analyze.go
package concord

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/concord/internal/consistency"
	"github.com/mwiater/concord/internal/embedding"
	"github.com/mwiater/concord/internal/input"
	"github.com/mwiater/concord/internal/logging"
	"github.com/mwiater/concord/internal/report"
	"github.com/mwiater/concord/internal/similarity"
)

var analyzeOpts struct {
	inputPath         string
	outputPath        string
	method            string
	additionalMethods []string
	threshold         float64
	ngramSize         int
	pairwiseMatrix    bool
}

// analyzeCmd loads a batch of prompt execution groups and scores their
// output consistency.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze output consistency for a batch of execution groups",
	Long: `Read a JSON file of prompt execution groups (repeated outputs of the same
prompt against the same model), score each group with the configured
similarity method, and print per-group, per-model, and run-level results.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := input.LoadGroups(analyzeOpts.inputPath)
		if err != nil {
			return err
		}

		cfg, err := resolveAnalysisConfig(cmd)
		if err != nil {
			return err
		}

		engine := buildEngine(cfg)

		logging.LogEvent("analyzing %d groups from %s", len(groups), analyzeOpts.inputPath)
		result, err := engine.Analyze(cmd.Context(), groups, &cfg)
		if err != nil {
			return err
		}

		for _, group := range result.Results {
			logging.LogAnalysis("group", group.Provider, group.Model,
				fmt.Sprintf("group=%s score=%.3f consistent=%t", group.GroupID, group.ConsistencyScore, group.IsConsistent))
		}
		for _, stats := range result.ModelStats {
			logging.LogAnalysis("model", stats.Provider, stats.Model,
				fmt.Sprintf("groups=%d mean=%.3f rate=%.3f", stats.GroupCount, stats.MeanScore, stats.ConsistencyRate))
		}

		if DebugEnabled() {
			pp.Println(result.Summary)
		}

		report.Render(cmd.OutOrStdout(), result)

		if analyzeOpts.outputPath != "" {
			if err := report.WriteJSON(analyzeOpts.outputPath, result); err != nil {
				return fmt.Errorf("write analysis output: %w", err)
			}
			logging.LogEvent("wrote analysis JSON to %s", analyzeOpts.outputPath)
		}
		return nil
	},
}

// resolveAnalysisConfig merges the config file's analysis section with any
// flags set on this invocation. Flags win.
func resolveAnalysisConfig(cmd *cobra.Command) (consistency.Config, error) {
	base := consistency.DefaultConfig()
	if currentConfig != nil {
		resolved, err := currentConfig.ConsistencyConfig()
		if err != nil {
			return consistency.Config{}, err
		}
		base = resolved
	}

	if cmd.Flags().Changed("method") {
		method, err := similarity.ParseMethod(analyzeOpts.method)
		if err != nil {
			return consistency.Config{}, err
		}
		base.PrimaryMethod = method
	}
	if cmd.Flags().Changed("additional") {
		base.AdditionalMethods = base.AdditionalMethods[:0]
		for _, name := range analyzeOpts.additionalMethods {
			method, err := similarity.ParseMethod(name)
			if err != nil {
				return consistency.Config{}, err
			}
			base.AdditionalMethods = append(base.AdditionalMethods, method)
		}
	}
	if cmd.Flags().Changed("threshold") {
		base.ConsistencyThreshold = analyzeOpts.threshold
	}
	if cmd.Flags().Changed("ngram-size") {
		base.NGramSize = analyzeOpts.ngramSize
	}
	if cmd.Flags().Changed("pairwise-matrix") {
		base.ComputePairwiseMatrix = analyzeOpts.pairwiseMatrix
	}
	return base, nil
}

// buildEngine wires the embedding client in when the semantic method is in
// play and a host is configured.
func buildEngine(cfg consistency.Config) *consistency.Engine {
	var opts []consistency.Option
	if currentConfig != nil {
		opts = append(opts, consistency.WithWorkers(currentConfig.WorkerCount()))
		if currentConfig.EmbeddingHost != "" && usesSemanticMethod(cfg) {
			client := embedding.NewClient(currentConfig.EmbeddingHost, currentConfig.EmbeddingModel, currentConfig.EmbeddingTimeout())
			opts = append(opts, consistency.WithEmbedder(client))
		}
	}
	return consistency.NewEngine(opts...)
}

func usesSemanticMethod(cfg consistency.Config) bool {
	if cfg.PrimaryMethod == similarity.SemanticEmbedding {
		return true
	}
	for _, method := range cfg.AdditionalMethods {
		if method == similarity.SemanticEmbedding {
			return true
		}
	}
	return false
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOpts.inputPath, "input", "", "Path to execution groups JSON (required)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.outputPath, "output", "", "Optional path to write the full analysis JSON")
	analyzeCmd.Flags().StringVar(&analyzeOpts.method, "method", "", "Primary similarity method")
	analyzeCmd.Flags().StringSliceVar(&analyzeOpts.additionalMethods, "additional", nil, "Additional similarity methods to score alongside the primary")
	analyzeCmd.Flags().Float64Var(&analyzeOpts.threshold, "threshold", 0, "Consistency threshold in (0,1]")
	analyzeCmd.Flags().IntVar(&analyzeOpts.ngramSize, "ngram-size", 0, "N-gram size for the ngram methods")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.pairwiseMatrix, "pairwise-matrix", false, "Include the pairwise similarity matrix in group results")
	_ = analyzeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(analyzeCmd)
}
