// Package main benchmarks the funcspot CLI against real repositories.
// Each command runs several times per repo: first with the cache
// disabled, then against a fresh SQLite cache where the first run is
// cold and the remainder are warm. Results land in a timestamped CSV
// under /tmp for the performance notes.
//
// Prerequisites:
// - funcspot binary installed and available in PATH
// - Test repositories cloned under the base directory: fd, ripgrep, neovim, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// benchConfig drives one full benchmark sweep.
type benchConfig struct {
	repoBase     string
	timeout      time.Duration
	workers      int
	uncachedRuns int
	cachedRuns   int
}

// benchCase is one command against one repository.
type benchCase struct {
	repo    string
	command string
	extra   []string
	desc    string
}

// benchResult keeps the rendered timings for the CSV and the summary.
type benchResult struct {
	repo        string
	command     string
	uncachedAvg string
	cold        string
	warmAvg     string
}

// testRepos orders the sweep: fd and ripgrep exercise the Rust grammar,
// neovim adds a large Lua runtime, kubernetes is the worst-case Go history.
var testRepos = []string{"fd", "ripgrep", "neovim", "kubernetes"}

// compareRefs picks a released span of history per repo for the compare command.
var compareRefs = map[string][2]string{
	"fd":         {"v9.0.0", "v10.0.0"},
	"ripgrep":    {"13.0.0", "14.0.0"},
	"neovim":     {"v0.9.5", "v0.10.0"},
	"kubernetes": {"v1.34.0", "v1.35.0-alpha.0"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	cfg := benchConfig{
		repoBase:     os.Args[1],
		timeout:      5 * time.Minute,
		workers:      14,
		uncachedRuns: 3,
		cachedRuns:   4,
	}

	if err := checkPrerequisites(cfg); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from a cold cache so the first cached run means something
	fmt.Println("Clearing cache...")
	if output, err := exec.Command("funcspot", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, output)
	}

	var results []benchResult
	for _, bc := range buildCases() {
		results = append(results, runCase(cfg, bc))
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies the binary and every test repo are present.
func checkPrerequisites(cfg benchConfig) error {
	if _, err := exec.LookPath("funcspot"); err != nil {
		return fmt.Errorf("funcspot binary not found in PATH")
	}

	for _, repo := range testRepos {
		repoPath := filepath.Join(cfg.repoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// buildCases expands the repo list into per-command cases. Compare only
// runs where a ref pair is configured.
func buildCases() []benchCase {
	var cases []benchCase
	for _, repo := range testRepos {
		cases = append(cases,
			benchCase{repo: repo, command: "funcs", desc: "funcs analysis"},
			benchCase{repo: repo, command: "files", desc: "files rollup"},
		)
		if refs, ok := compareRefs[repo]; ok {
			cases = append(cases, benchCase{
				repo:    repo,
				command: "compare",
				extra:   []string{"--base-ref", refs[0], "--target-ref", refs[1]},
				desc:    fmt.Sprintf("compare analysis (%s -> %s)", refs[0], refs[1]),
			})
		}
	}
	return cases
}

// runCase times the uncached and cached phases of one case.
func runCase(cfg benchConfig, bc benchCase) benchResult {
	fmt.Printf("Running %s on %s\n", bc.desc, bc.repo)
	repoPath := filepath.Join(cfg.repoBase, bc.repo)

	fmt.Printf("  no-cache phase (%d runs)\n", cfg.uncachedRuns)
	uncached := measure(cfg, repoPath, bc, "none", cfg.uncachedRuns)

	fmt.Printf("  cache phase (%d runs)\n", cfg.cachedRuns)
	cached := measure(cfg, repoPath, bc, "sqlite", cfg.cachedRuns)

	result := benchResult{
		repo:        bc.repo,
		command:     bc.command,
		uncachedAvg: avgSeconds(uncached),
		cold:        "TIMEOUT",
		warmAvg:     avgSeconds(nil),
	}
	if len(cached) > 0 {
		result.cold = fmtSeconds(cached[0])
		result.warmAvg = avgSeconds(cached[1:])
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n",
		result.uncachedAvg, result.cold, result.warmAvg)
	return result
}

// measure runs the command n times and returns the wall time of each
// successful run. Timed-out or failed runs are skipped, so a case that
// never succeeds yields an empty slice.
func measure(cfg benchConfig, repoPath string, bc benchCase, cacheBackend string, n int) []float64 {
	args := []string{bc.command, "--cache-backend", cacheBackend, "--workers", strconv.Itoa(cfg.workers)}
	args = append(args, bc.extra...)

	var times []float64
	for range n {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "funcspot", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		cancel()

		if ctx.Err() != nil || err != nil {
			continue
		}
		if isSuccess(output, bc.command) {
			times = append(times, time.Since(start).Seconds())
		}
	}
	return times
}

// isSuccess looks for the stats footer the CLI prints after a full run.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	completionPhrase := "Analysis completed in"
	if command == "compare" {
		completionPhrase = "Comparison completed in"
	}

	return strings.Contains(outputStr, completionPhrase) &&
		strings.Contains(outputStr, "workers")
}

// fmtSeconds renders one wall time for the report.
func fmtSeconds(t float64) string {
	if t <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", t)
}

// avgSeconds renders the mean of the given wall times, or TIMEOUT when
// no run survived.
func avgSeconds(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes the sweep to a timestamped CSV under /tmp.
func saveResults(results []benchResult) error {
	filename := fmt.Sprintf("/tmp/funcspot_benchmark_%s.csv", time.Now().Format("20060102_150405"))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.repo, r.command, r.uncachedAvg, r.cold, r.warmAvg}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary groups the results by command for a quick read.
func printSummary(results []benchResult) {
	fmt.Println("Benchmark complete")

	groups := []struct {
		command string
		title   string
	}{
		{"funcs", "Funcs Analysis:"},
		{"files", "Files Rollup:"},
		{"compare", "Compare Analysis:"},
	}
	for _, g := range groups {
		fmt.Println(g.title)
		for _, r := range results {
			if r.command == g.command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.repo, r.uncachedAvg, r.cold, r.warmAvg)
			}
		}
	}
}
