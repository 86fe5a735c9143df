// internal/commands/analyze_test.go
package concord

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/concord/internal/consistency"
)

func writeGroupsFile(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groups.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write groups: %v", err)
	}
	return path
}

const analyzeFixture = `{
  "groups": [
    {
      "id": "g1",
      "prompt": "What is the capital of France?",
      "provider": "ollama",
      "model": "llama3.2",
      "outputs": [
        {"id": "o1", "content": "The capital of France is Paris.", "sequence": 0},
        {"id": "o2", "content": "The capital of France is Paris.", "sequence": 1},
        {"id": "o3", "content": "Paris is the capital city of France.", "sequence": 2}
      ]
    }
  ]
}`

func runAnalyze(t *testing.T, args ...string) string {
	t.Helper()
	useTempConfig(t, writeTempConfig(t, "{}"))
	for _, name := range []string{"debug", "workers"} {
		resetFlag(name)
	}
	resetFlag("logFile")

	full := append([]string{"--logFile", filepath.Join(t.TempDir(), "concord.log"), "analyze"}, args...)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(full)
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v\n%s", err, buf.String())
	}
	return buf.String()
}

func TestAnalyzeCommandRendersReport(t *testing.T) {
	inputPath := writeGroupsFile(t, analyzeFixture)

	out := runAnalyze(t, "--input", inputPath)

	for _, want := range []string{
		"consistency report",
		"groups analyzed: 1",
		"ollama/llama3.2",
		"Confidence:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("analyze output missing %q\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandWritesJSON(t *testing.T) {
	inputPath := writeGroupsFile(t, analyzeFixture)
	outputPath := filepath.Join(t.TempDir(), "analysis.json")

	runAnalyze(t, "--input", inputPath, "--output", outputPath)

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading analysis output: %v", err)
	}
	var result consistency.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("analysis output does not parse: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected one group result, got %d", len(result.Results))
	}
	if result.Results[0].Model != "llama3.2" {
		t.Fatalf("model got %q want %q", result.Results[0].Model, "llama3.2")
	}
}

func TestAnalyzeCommandFlagOverrides(t *testing.T) {
	inputPath := writeGroupsFile(t, analyzeFixture)
	outputPath := filepath.Join(t.TempDir(), "analysis.json")

	runAnalyze(t, "--input", inputPath, "--output", outputPath,
		"--method", "jaccard_tokens", "--threshold", "0.5", "--additional", "exact_match")

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading analysis output: %v", err)
	}
	var result consistency.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("analysis output does not parse: %v", err)
	}
	if string(result.Config.PrimaryMethod) != "jaccard_tokens" {
		t.Fatalf("primary method got %q want jaccard_tokens", result.Config.PrimaryMethod)
	}
	if result.Config.ConsistencyThreshold != 0.5 {
		t.Fatalf("threshold got %v want 0.5", result.Config.ConsistencyThreshold)
	}
	if len(result.Results[0].AdditionalScores) != 1 {
		t.Fatalf("expected one additional score, got %v", result.Results[0].AdditionalScores)
	}
}

func TestAnalyzeCommandLogsGroupEvents(t *testing.T) {
	inputPath := writeGroupsFile(t, analyzeFixture)
	logPath := filepath.Join(t.TempDir(), "concord.log")

	useTempConfig(t, writeTempConfig(t, "{}"))
	for _, name := range []string{"debug", "workers"} {
		resetFlag(name)
	}
	resetFlag("logFile")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--logFile", logPath, "analyze", "--input", inputPath})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	logged := string(data)
	if !strings.Contains(logged, "[GROUP] provider=ollama model=llama3.2") {
		t.Fatalf("log missing group event:\n%s", logged)
	}
	if !strings.Contains(logged, "[MODEL] provider=ollama model=llama3.2") {
		t.Fatalf("log missing model event:\n%s", logged)
	}
	if !strings.Contains(logged, "group=g1") {
		t.Fatalf("log missing group payload:\n%s", logged)
	}
}

func TestAnalyzeCommandRejectsBadMethodFlag(t *testing.T) {
	inputPath := writeGroupsFile(t, analyzeFixture)

	useTempConfig(t, writeTempConfig(t, "{}"))
	for _, name := range []string{"debug", "workers"} {
		resetFlag(name)
	}
	resetFlag("logFile")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--logFile", filepath.Join(t.TempDir(), "concord.log"), "analyze", "--input", inputPath, "--method", "bogus"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err == nil {
		t.Fatalf("expected error for unknown method flag")
	}
}

func TestMethodsCommandListsAll(t *testing.T) {
	useTempConfig(t, writeTempConfig(t, "{}"))
	for _, name := range []string{"debug", "workers"} {
		resetFlag(name)
	}
	resetFlag("logFile")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--logFile", filepath.Join(t.TempDir(), "concord.log"), "methods"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"exact_match",
		"normalized_levenshtein",
		"jaccard_tokens",
		"ngram_chars",
		"ngram_words",
		"tfidf_cosine",
		"semantic_embedding",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("methods output missing %q\n%s", want, out)
		}
	}
}
