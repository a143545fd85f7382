package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yashubustudio/contextanalyzer/analyzer"
	"yashubustudio/contextanalyzer/internal/embedding"
)

type cliOptions struct {
	configPath string
	envFile    string
	prompt     string
	response   string
	language   string
	inputPath  string
	outputPath string
	outputDir  string
	pairOpts   analyzer.PairParseOptions
	stdout     bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("analyzer-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("analyzer-cli: %v", err)
	}
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("analyzer-cli", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json or config.yaml (default: ./config.json)")
	fs.StringVar(&opts.envFile, "env", ".env", "Optional .env file loaded before reading the environment")
	fs.StringVar(&opts.prompt, "prompt", "", "User prompt to analyze (single mode)")
	fs.StringVar(&opts.response, "response", "", "AI response to analyze (single mode)")
	fs.StringVar(&opts.language, "lang", "auto", "Output language: auto, en, hi, mr or es")
	fs.StringVar(&opts.inputPath, "input", "", "CSV/TSV file of prompt/response pairs (batch mode)")
	fs.StringVar(&opts.outputPath, "output", "", "CSV file to write batch results (default uses --output-dir/result_*.csv)")
	fs.StringVar(&opts.outputDir, "output-dir", "csv", "Directory where result CSVs are written when --output is omitted")
	fs.StringVar(&opts.pairOpts.IndexColumn, "index-column", "", "Column name or #index for the row id")
	fs.StringVar(&opts.pairOpts.PromptColumn, "prompt-column", "", "Column name or #index for the user prompt")
	fs.StringVar(&opts.pairOpts.ResponseColumn, "response-column", "", "Column name or #index for the AI response")
	fs.StringVar(&opts.pairOpts.LanguageColumn, "language-column", "", "Column name or #index for a per-row output language")
	fs.BoolVar(&opts.stdout, "stdout", false, "Print a summary of batch results to STDOUT")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %[1]s --prompt TEXT --response TEXT [--lang auto]\n  %[1]s --input FILE [options]\n\n", "analyzer-cli")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)

	if opts.inputPath == "" && opts.prompt == "" {
		fs.Usage()
		return opts, errors.New("either --input or --prompt is required")
	}
	if opts.inputPath != "" && opts.prompt != "" {
		return opts, errors.New("--input and --prompt are mutually exclusive")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := analyzer.LoadEnvFiles(opts.envFile); err != nil {
		logger.Printf("Warning: %v", err)
	}
	cfg, err := analyzer.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	ctx := context.Background()
	stack, err := embedding.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	defer stack.Close()

	service, err := analyzer.NewService(stack.Embedder, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	if opts.inputPath == "" {
		result := service.Analyze(ctx, opts.prompt, opts.response, opts.language)
		return writeJSON(os.Stdout, result)
	}

	records, err := analyzer.ParsePairFile(opts.inputPath, opts.pairOpts)
	if err != nil {
		return fmt.Errorf("read input records: %w", err)
	}
	if len(records) == 0 {
		return errors.New("input file does not contain any pairs")
	}

	results := analyzeAll(ctx, service, records, opts.language)

	outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := writeResultFile(outputPath, records, results); err != nil {
		return err
	}
	fmt.Printf("Analysis results saved to %s\n", outputPath)

	if opts.stdout {
		printSummary(os.Stdout, records, results)
	}
	return nil
}

type pairAnalyzer interface {
	Analyze(ctx context.Context, userPrompt, aiResponse, outputLanguage string) analyzer.AnalysisResult
}

// analyzeAll runs every record; a per-row language overrides fallbackLang.
func analyzeAll(ctx context.Context, a pairAnalyzer, records []analyzer.PairRecord, fallbackLang string) []analyzer.AnalysisResult {
	results := make([]analyzer.AnalysisResult, len(records))
	for i, rec := range records {
		lang := rec.Language
		if lang == "" {
			lang = fallbackLang
		}
		results[i] = a.Analyze(ctx, rec.Prompt, rec.Response, lang)
	}
	return results
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeResultFile(path string, records []analyzer.PairRecord, results []analyzer.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := analyzer.WriteResultsCSV(f, records, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, records []analyzer.PairRecord, results []analyzer.AnalysisResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "==== Analysis preview ====")
	for i, rec := range records {
		res := results[i]
		fmt.Fprintf(w, "%d. %s  score=%.2f lang=%s\n", i+1, summarizeRecord(rec), res.QualityScore, res.OutputLanguage)
		if len(res.MissingTopics) == 0 {
			fmt.Fprintln(w, "    no missing topics")
			continue
		}
		for _, m := range res.MissingTopics {
			fmt.Fprintf(w, "    - %s (similarity=%.3f)\n", m.Topic, m.MaxSimilarity)
		}
	}
}

func summarizeRecord(rec analyzer.PairRecord) string {
	prefix := ""
	if idx := strings.TrimSpace(rec.Index); idx != "" {
		prefix = "#" + idx + " "
	}
	text := strings.TrimSpace(rec.Prompt)
	if text == "" {
		return prefix + "(empty prompt)"
	}
	runeText := []rune(text)
	if len(runeText) > 60 {
		return prefix + string(runeText[:60]) + "…"
	}
	return prefix + text
}
