package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"harshagw/dictgrade/internal/grade"
	"harshagw/dictgrade/internal/practice"
)

const defaultPairs = 2000

func main() {
	numPairs := defaultPairs
	if len(os.Args) >= 2 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			numPairs = n
		}
	}

	fmt.Println("Dictation Grading Benchmark")
	fmt.Println("===========================")
	fmt.Println()

	benchStart := time.Now()

	pairs := generatePairs(numPairs, 42)
	fmt.Printf("Generated %d attempts over %d reference texts\n\n", len(pairs), len(corpus))

	runGradingBenchmark(pairs)

	for _, workers := range []int{1, 4} {
		runStoredBenchmark(pairs, workers)
	}

	fmt.Printf("Total time: %.2f seconds\n", time.Since(benchStart).Seconds())
}

func runGradingBenchmark(pairs []Pair) {
	fmt.Println("GRADING")
	fmt.Println("-------")

	g := grade.NewGrader(nil, nil)

	// Warm up run
	for _, p := range pairs[:min(100, len(pairs))] {
		g.Analyze(p.Reference, p.Attempt)
	}

	var totalTime time.Duration
	var totalErrors int
	runs := 3

	for i := 0; i < runs; i++ {
		totalErrors = 0
		start := time.Now()
		for _, p := range pairs {
			totalErrors += len(g.Analyze(p.Reference, p.Attempt).Errors)
		}
		totalTime += time.Since(start)
	}

	avgTime := totalTime / time.Duration(runs)
	throughput := float64(len(pairs)) / avgTime.Seconds()

	fmt.Printf("  Attempts:   %d\n", len(pairs))
	fmt.Printf("  Errors:     %d (%.2f per attempt)\n", totalErrors, float64(totalErrors)/float64(len(pairs)))
	fmt.Printf("  Time:       %v\n", avgTime.Round(time.Millisecond))
	fmt.Printf("  Throughput: %.0f attempts/sec\n", throughput)
	fmt.Println()
}

func runStoredBenchmark(pairs []Pair, workers int) {
	title := fmt.Sprintf("STORED ANALYSIS (%d workers)", workers)
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", len(title)))

	dir, err := os.MkdirTemp("", "bench-*")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	cfg := practice.DefaultConfig(dir)
	cfg.Workers = workers
	p, err := practice.New(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	taskIDs := make([]uint64, len(corpus))
	for i, text := range corpus {
		task, err := p.AddTask(fmt.Sprintf("text %d", i+1), text)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		taskIDs[i] = task.ID
	}

	start := time.Now()
	attemptIDs := make([]uint64, 0, len(pairs))
	for _, pair := range pairs {
		a, err := p.Submit(taskIDs[pair.TaskIdx], pair.Attempt)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		attemptIDs = append(attemptIDs, a.ID)
	}
	submitTime := time.Since(start)

	start = time.Now()
	if err := p.AnalyzeBatch(context.Background(), attemptIDs); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	analyzeTime := time.Since(start)

	start = time.Now()
	var accuracy float64
	for _, id := range taskIDs {
		s, err := p.Stats(id)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		accuracy += s.Accuracy
	}
	statsTime := time.Since(start)

	fmt.Printf("  Submit:     %v (%.0f attempts/sec)\n", submitTime.Round(time.Millisecond), float64(len(pairs))/submitTime.Seconds())
	fmt.Printf("  Analyze:    %v (%.0f attempts/sec)\n", analyzeTime.Round(time.Millisecond), float64(len(pairs))/analyzeTime.Seconds())
	fmt.Printf("  Stats:      %v for %d tasks\n", statsTime.Round(time.Microsecond), len(taskIDs))
	fmt.Printf("  Mean accuracy: %.2f%%\n", accuracy/float64(len(taskIDs))*100)

	if info, err := os.Stat(filepath.Join(dir, "dictgrade.db")); err == nil {
		fmt.Printf("  Store size: %s (%s/attempt)\n", formatBytes(info.Size()), formatBytes(info.Size()/int64(len(pairs))))
	}
	fmt.Println()
}

func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	if bytes >= MB {
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	}
	if bytes >= KB {
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	}
	return fmt.Sprintf("%d B", bytes)
}
