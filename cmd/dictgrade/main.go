package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"harshagw/dictgrade/internal/config"
	"harshagw/dictgrade/internal/grade"
	"harshagw/dictgrade/internal/morph"
	"harshagw/dictgrade/internal/practice"
	"harshagw/dictgrade/internal/store"

	"github.com/c-bata/go-prompt"
)

type REPL struct {
	p         *practice.Practice
	dict      *morph.Dictionary
	closeDict func() error
}

var commands = []prompt.Suggest{
	{Text: "task", Description: "add or show a task"},
	{Text: "tasks", Description: "list tasks"},
	{Text: "submit", Description: "submit an attempt for a task"},
	{Text: "analyze", Description: "grade an attempt and store the result"},
	{Text: "analyze-all", Description: "grade every attempt of a task"},
	{Text: "errors", Description: "show stored errors of an attempt"},
	{Text: "metrics", Description: "show stored metrics of an attempt"},
	{Text: "stats", Description: "aggregate statistics of a task"},
	{Text: "check", Description: "grade a text pair without storing it"},
	{Text: "dict", Description: "look up a word form"},
	{Text: "help", Description: "show help"},
	{Text: "quit", Description: "exit"},
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	logger := config.NewLogger(cfg.LogLevel)

	normalizer, closeDict, err := cfg.OpenNormalizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	p, err := practice.New(cfg.PracticeConfig(normalizer, logger))
	if err != nil {
		closeDict()
		fmt.Fprintf(os.Stderr, "Error opening data directory: %v\n", err)
		return 1
	}

	r := &REPL{p: p, closeDict: closeDict}
	r.dict, _ = normalizer.(*morph.Dictionary)

	fmt.Println("Dictation Grading REPL")
	fmt.Println()
	printHelp()
	fmt.Println()
	if r.dict != nil {
		fmt.Printf("Dictionary loaded from %s (%d forms, %d lemmas)\n", r.dict.Path(), r.dict.Len(), r.dict.NumLemmas())
	} else {
		fmt.Println("No dictionary configured; word forms are compared by length")
	}
	fmt.Printf("Data stored in %s\n\n", cfg.DataDir)

	pr := prompt.New(
		r.executor,
		completer,
		prompt.OptionPrefix("dictgrade >> "),
		prompt.OptionTitle("dictgrade"),
	)
	pr.Run()

	r.close()
	return 0
}

func (r *REPL) close() {
	if err := r.p.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing store: %v\n", err)
	}
	r.closeDict()
}

func completer(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  task add <title> | <text>       - Store a reference text")
	fmt.Println("  task show <taskID>              - Show a task and its attempts")
	fmt.Println("  tasks                           - List tasks")
	fmt.Println("  submit <taskID> <text>          - Submit an attempt")
	fmt.Println("  analyze <attemptID>             - Grade an attempt and store the result")
	fmt.Println("  analyze-all <taskID>            - Grade every attempt of a task")
	fmt.Println("  errors <attemptID>              - Show stored errors")
	fmt.Println("  metrics <attemptID>             - Show stored metrics")
	fmt.Println("  stats <taskID>                  - Show task statistics")
	fmt.Println("  check <reference> | <attempt>   - Grade a pair without storing it")
	fmt.Println("  dict <word>                     - Look up a word form")
	fmt.Println("  dict prefix <prefix>            - List forms starting with prefix")
	fmt.Println("  help                            - Show this help")
	fmt.Println("  quit                            - Exit")
}

func (r *REPL) executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "task":
		r.cmdTask(input, parts[1:])
	case "tasks":
		r.cmdTasks()
	case "submit":
		r.cmdSubmit(input)
	case "analyze":
		r.cmdAnalyze(parts[1:])
	case "analyze-all":
		r.cmdAnalyzeAll(parts[1:])
	case "errors":
		r.cmdErrors(parts[1:])
	case "metrics":
		r.cmdMetrics(parts[1:])
	case "stats":
		r.cmdStats(parts[1:])
	case "check":
		r.cmdCheck(input)
	case "dict":
		r.cmdDict(parts[1:])
	case "help":
		printHelp()
	case "quit", "exit":
		fmt.Println("Goodbye!")
		r.close()
		os.Exit(0)
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}
}

func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fmt.Printf("Invalid id: %s\n", s)
		return 0, false
	}
	return id, true
}

// splitPair splits "left | right" around the first pipe.
func splitPair(s string) (string, string, bool) {
	left, right, ok := strings.Cut(s, "|")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

func printErr(err error) {
	if errors.Is(err, store.ErrNotFound) {
		fmt.Printf("Not found: %v\n", err)
		return
	}
	fmt.Printf("Error: %v\n", err)
}

func (r *REPL) cmdTask(input string, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: task add <title> | <text>  or  task show <taskID>")
		return
	}

	switch args[0] {
	case "add":
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(input, "task")), "add"))
		title, text, ok := splitPair(rest)
		if !ok {
			fmt.Println("Usage: task add <title> | <text>")
			return
		}
		task, err := r.p.AddTask(title, text)
		if err != nil {
			printErr(err)
			return
		}
		fmt.Printf("Added task %d '%s'\n", task.ID, task.Title)

	case "show":
		if len(args) < 2 {
			fmt.Println("Usage: task show <taskID>")
			return
		}
		id, ok := parseID(args[1])
		if !ok {
			return
		}
		r.showTask(id)

	default:
		fmt.Printf("Unknown task command: %s\n", args[0])
	}
}

func (r *REPL) showTask(id uint64) {
	task, err := r.p.Task(id)
	if err != nil {
		printErr(err)
		return
	}
	fmt.Printf("Task %d: %s\n", task.ID, task.Title)
	fmt.Printf("  %s\n", task.Content)

	stats, err := r.p.Stats(id)
	if err != nil {
		printErr(err)
		return
	}
	fmt.Printf("  %d attempts, %d reviewed\n", stats.TotalAttempts, stats.ReviewedAttempts)
}

func (r *REPL) cmdTasks() {
	tasks, err := r.p.Tasks()
	if err != nil {
		printErr(err)
		return
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return
	}
	for _, task := range tasks {
		fmt.Printf("  %d  %s\n", task.ID, task.Title)
	}
}

func (r *REPL) cmdSubmit(input string) {
	parts := strings.SplitN(input, " ", 3)
	if len(parts) < 3 {
		fmt.Println("Usage: submit <taskID> <text>")
		return
	}
	taskID, ok := parseID(parts[1])
	if !ok {
		return
	}

	attempt, err := r.p.Submit(taskID, parts[2])
	if err != nil {
		printErr(err)
		return
	}
	fmt.Printf("Submitted attempt %d for task %d\n", attempt.ID, taskID)
}

func (r *REPL) cmdAnalyze(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: analyze <attemptID>")
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		return
	}

	res, err := r.p.Analyze(id)
	if err != nil {
		printErr(err)
		return
	}
	attempt, _ := r.p.Attempt(id)
	printResult(attempt.Content, res)
}

func (r *REPL) cmdAnalyzeAll(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: analyze-all <taskID>")
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		return
	}

	n, err := r.p.AnalyzeTask(context.Background(), id)
	if err != nil {
		printErr(err)
		return
	}
	fmt.Printf("Analyzed %d attempts\n", n)
}

func (r *REPL) cmdErrors(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: errors <attemptID>")
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		return
	}

	attempt, err := r.p.Attempt(id)
	if err != nil {
		printErr(err)
		return
	}
	if attempt.Stage != store.StageReviewed {
		fmt.Println("Attempt has not been analyzed yet")
		return
	}
	errs, err := r.p.Errors(id)
	if err != nil {
		printErr(err)
		return
	}
	printErrors(attempt.Content, errs)
}

func (r *REPL) cmdMetrics(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: metrics <attemptID>")
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		return
	}

	m, ok, err := r.p.Metrics(id)
	if err != nil {
		printErr(err)
		return
	}
	if !ok {
		fmt.Println("Attempt has not been analyzed yet")
		return
	}
	printMetrics(m)
}

func (r *REPL) cmdStats(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: stats <taskID>")
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		return
	}

	s, err := r.p.Stats(id)
	if err != nil {
		printErr(err)
		return
	}

	fmt.Printf("Task %d statistics:\n", s.TaskID)
	fmt.Printf("  Attempts:        %d (%d reviewed)\n", s.TotalAttempts, s.ReviewedAttempts)
	fmt.Printf("  Correct:         %d\n", s.CorrectAttempts)
	fmt.Printf("  Incorrect:       %d\n", s.IncorrectAttempts)
	fmt.Printf("  Errors:          %d (%.2f per attempt)\n", s.TotalErrors, s.AvgErrorsPerAttempt)
	fmt.Printf("  Word errors:     %d\n", s.WordErrors)
	fmt.Printf("  Punctuation:     %d\n", s.PunctuationErrors)
	fmt.Printf("  Missing words:   %d\n", s.MissingWordErrors)
	fmt.Printf("  Extra words:     %d\n", s.ExtraWordErrors)
	fmt.Printf("  Mean WER/CER/PER: %.3f / %.3f / %.3f\n", s.WER, s.CER, s.PER)
	fmt.Printf("  Mean accuracy:   %.2f%%\n", s.Accuracy*100)
	if !s.LastErrorAt.IsZero() {
		fmt.Printf("  Last error:      %s\n", s.LastErrorAt.Format("2006-01-02 15:04:05"))
	}
}

func (r *REPL) cmdCheck(input string) {
	reference, attempt, ok := splitPair(strings.TrimSpace(strings.TrimPrefix(input, "check")))
	if !ok {
		fmt.Println("Usage: check <reference> | <attempt>")
		return
	}
	printResult(attempt, r.p.Check(reference, attempt))
}

func (r *REPL) cmdDict(args []string) {
	if r.dict == nil {
		fmt.Println("No dictionary configured")
		return
	}
	if len(args) < 1 {
		fmt.Println("Usage: dict <word>  or  dict prefix <prefix>")
		return
	}

	if args[0] == "prefix" && len(args) > 1 {
		entries, err := r.dict.PrefixForms(args[1], 20)
		if err != nil {
			printErr(err)
			return
		}
		if len(entries) == 0 {
			fmt.Println("No forms")
			return
		}
		for _, e := range entries {
			fmt.Printf("  %-20s -> %s\n", e.Form, e.Lemma)
		}
		return
	}

	lemma, ok := r.dict.Normalize(args[0])
	if !ok {
		fmt.Printf("'%s' is not in the dictionary\n", args[0])
		return
	}
	fmt.Printf("'%s' -> %s\n", args[0], lemma)
}

func printResult(attempt string, res grade.Result) {
	if len(res.Errors) == 0 {
		fmt.Println("No errors")
	} else {
		printErrors(attempt, res.Errors)
	}
	printMetrics(res.Metrics)
}

func printErrors(attempt string, errs []grade.ErrorRecord) {
	fmt.Printf("%d errors:\n", len(errs))
	for i, e := range errs {
		found := e.Found(attempt)
		switch {
		case e.PositionStart == e.PositionEnd:
			fmt.Printf("  %d. %-11s at %d, expected '%s'\n", i+1, e.ErrorType, e.PositionStart, e.TrueVariant)
		case e.TrueVariant == "":
			fmt.Printf("  %d. %-11s [%d:%d] '%s'\n", i+1, e.ErrorType, e.PositionStart, e.PositionEnd, found)
		default:
			fmt.Printf("  %d. %-11s [%d:%d] '%s', expected '%s'\n", i+1, e.ErrorType, e.PositionStart, e.PositionEnd, found, e.TrueVariant)
		}
	}
}

func printMetrics(m grade.MetricRecord) {
	fmt.Printf("Levenshtein: %d\n", m.Levenshtein)
	fmt.Printf("WER: %.3f  CER: %.3f  PER: %.3f\n", m.WER, m.CER, m.PER)
	fmt.Printf("Accuracy: %.2f%%\n", m.Accuracy*100)
	fmt.Printf("Word errors: %d  Punctuation: %d  Missing: %d  Extra: %d\n",
		m.WordErrorCount, m.PunctuationErrorCount, m.MissingWordCount, m.ExtraWordCount)
}
