// internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/concord/internal/consistency"
	"github.com/mwiater/concord/internal/util"
)

const (
	histogramBarWidth = 30
	samplePreviewLen  = 60
)

var (
	headerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	modelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Render writes the full human-readable analysis report to w.
func Render(w io.Writer, result *consistency.AnalysisResult) {
	if result == nil {
		fmt.Fprintln(w, "no analysis result to report")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("concord: consistency report (run %s)", result.RunID)))
	fmt.Fprintln(w)

	renderSummary(w, result)
	renderModels(w, result)
	renderGroups(w, result)
	renderDistribution(w, result)
	renderConfidence(w, result)
	renderConstraints(w, result)
}

func renderSummary(w io.Writer, result *consistency.AnalysisResult) {
	s := result.Summary
	fmt.Fprintln(w, sectionStyle.Render("Summary:"))
	fmt.Fprintf(w, "  >>> groups analyzed: %d (outputs: %d, models: %d)\n", s.TotalGroups, s.TotalOutputs, s.TotalModels)
	fmt.Fprintf(w, "  >>> overall consistency: %s\n", util.FormatScore(s.OverallMeanScore))
	fmt.Fprintf(w, "  >>> consistent groups: %s\n", util.FormatPercent(s.OverallConsistencyRate))
	if s.MostConsistentModel != nil {
		fmt.Fprintf(w, "  >>> most consistent: %s\n", modelStyle.Render(modelLabel(s.MostConsistentModel.Provider, s.MostConsistentModel.Model)))
	}
	if s.LeastConsistentModel != nil {
		fmt.Fprintf(w, "  >>> least consistent: %s\n", modelStyle.Render(modelLabel(s.LeastConsistentModel.Provider, s.LeastConsistentModel.Model)))
	}
	fmt.Fprintf(w, "  >>> duration: %dms\n", result.DurationMs)
	fmt.Fprintln(w)
}

func renderModels(w io.Writer, result *consistency.AnalysisResult) {
	if len(result.ModelStats) == 0 {
		return
	}
	fmt.Fprintln(w, sectionStyle.Render("Per-model statistics:"))
	for _, stats := range result.ModelStats {
		fmt.Fprintf(w, "%s:\n", modelStyle.Render(modelLabel(stats.Provider, stats.Model)))
		fmt.Fprintf(w, "  >>> groups: %d, consistent: %d (%s)\n", stats.GroupCount, stats.ConsistentGroups, util.FormatPercent(stats.ConsistencyRate))
		fmt.Fprintf(w, "  >>> mean: %s  min: %s  max: %s  stddev: %s\n",
			util.FormatScore(stats.MeanScore),
			util.FormatScore(stats.MinScore),
			util.FormatScore(stats.MaxScore),
			util.FormatScore(stats.StddevScore))
		fmt.Fprintf(w, "  >>> p50: %s  p95: %s  p99: %s\n",
			util.FormatScore(stats.P50Score),
			util.FormatScore(stats.P95Score),
			util.FormatScore(stats.P99Score))
		if stats.AvgTokenCV > 0 {
			fmt.Fprintf(w, "  >>> avg token CV: %s\n", util.FormatScore(stats.AvgTokenCV))
		}
		fmt.Fprintln(w)
	}
}

func renderGroups(w io.Writer, result *consistency.AnalysisResult) {
	if len(result.Results) == 0 {
		return
	}
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, sectionStyle.Render("Groups:"))
	for _, group := range result.Results {
		verdict := fail("INCONSISTENT")
		if group.IsConsistent {
			verdict = pass("CONSISTENT")
		}
		fmt.Fprintf(w, "  >>> [%s] %s %s score=%s outputs=%d\n",
			verdict,
			modelLabel(group.Provider, group.Model),
			dimStyle.Render(util.TruncateRunes(group.PromptHash, samplePreviewLen)),
			util.FormatScore(group.ConsistencyScore),
			group.OutputCount)
		if group.DivergenceScore > 0 {
			fmt.Fprintf(w, "      divergence: %s (output %d, representative %d)\n",
				util.FormatScore(group.DivergenceScore), group.DivergentIndex, group.RepresentativeIndex)
		}
	}
	fmt.Fprintln(w)
}

func renderDistribution(w io.Writer, result *consistency.AnalysisResult) {
	dist := result.Summary.ScoreDistribution
	if len(dist) == 0 {
		return
	}
	max := 0
	for _, bucket := range consistency.DistributionBuckets() {
		if dist[bucket] > max {
			max = dist[bucket]
		}
	}
	fmt.Fprintln(w, sectionStyle.Render("Score distribution:"))
	for _, bucket := range consistency.DistributionBuckets() {
		count := dist[bucket]
		bar := ""
		if max > 0 {
			bar = strings.Repeat("#", count*histogramBarWidth/max)
		}
		fmt.Fprintf(w, "  %-24s %4d %s\n", bucket, count, bar)
	}
	fmt.Fprintln(w)
}

func renderConfidence(w io.Writer, result *consistency.AnalysisResult) {
	c := result.Confidence
	fmt.Fprintln(w, sectionStyle.Render("Confidence:"))
	fmt.Fprintf(w, "  >>> overall: %s\n", util.FormatScore(c.Score))
	fmt.Fprintf(w, "  >>> sample size: %s  outputs per group: %s  method reliability: %s\n",
		util.FormatScore(c.SampleSizeFactor),
		util.FormatScore(c.OutputsPerGroupFactor),
		util.FormatScore(c.MethodReliabilityFactor))
	fmt.Fprintf(w, "  >>> output length: %s  score stability: %s\n",
		util.FormatScore(c.OutputLengthFactor),
		util.FormatScore(c.ScoreStabilityFactor))
	fmt.Fprintln(w)
}

func renderConstraints(w io.Writer, result *consistency.AnalysisResult) {
	if len(result.ConstraintsApplied) == 0 {
		return
	}
	constraints := append([]string(nil), result.ConstraintsApplied...)
	sort.Strings(constraints)
	fmt.Fprintln(w, sectionStyle.Render("Constraints applied:"))
	for _, constraint := range constraints {
		fmt.Fprintf(w, "  >>> %s\n", constraint)
	}
	fmt.Fprintln(w)
}

func modelLabel(provider, model string) string {
	if provider == "" {
		return model
	}
	return provider + "/" + model
}

// WriteJSON persists the full analysis result as indented JSON at path.
func WriteJSON(path string, result *consistency.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFile(path, append(data, '\n'))
}
