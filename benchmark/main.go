// Package main measures how much the response cache speeds up the pawnrank CLI.
// Every lookup command is run against live Lichess several times without a cache,
// then with a fresh SQLite cache, where the first run is cold and the rest are warm.
//
// Prerequisites:
// - pawnrank binary installed and available in PATH
// - network access to lichess.org (set LICHESS_TOKEN for higher rate limits)
//
// Usage: go run benchmark/main.go <username>...
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Player      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Players     []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	CacheFile   string
	GameType    string
}

// commands lists the lookups to time, each with its arguments after the username.
var commands = []struct {
	name string
	args []string
}{
	{"player", nil},
	{"history", nil},
	{"leaderboard", nil},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <username>...\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Players:     os.Args[1:],
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		CacheFile:   filepath.Join(os.TempDir(), fmt.Sprintf("pawnrank_benchmark_%d.db", time.Now().UnixNano())),
		GameType:    "blitz",
	}
	defer func() { _ = os.Remove(config.CacheFile) }()

	if _, err := exec.LookPath("pawnrank"); err != nil {
		fmt.Printf("Prerequisites check failed: pawnrank binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every command for every player.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d players, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Players), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, player := range config.Players {
		fmt.Printf("Benchmarking %s\n", player)
		for _, c := range commands {
			args := append([]string{c.name, player}, c.args...)
			results = append(results, runBenchmarkSuite(config, player, c.name, args))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, player, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s for %s\n", command, player)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against an empty cache file
	_ = os.Remove(config.CacheFile)
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Player:      player,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a pawnrank command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(args, "--cache-backend", cacheBackend, "--game-type", config.GameType, "--color", "no")
	if cacheBackend == "sqlite" {
		args = append(args, "--cache-db-connect", config.CacheFile)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := exec.Command("pawnrank", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that a command printed a tier.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	for _, tier := range []string{"PAWN", "KNIGHT", "BISHOP", "ROOK", "QUEEN", "KING"} {
		if strings.Contains(outputStr, tier) {
			return true
		}
	}
	return false
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("pawnrank_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"player", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Player, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, result := range results {
			if result.Command == c.name {
				fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", result.Player, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
