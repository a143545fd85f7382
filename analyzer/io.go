package analyzer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PairRecord is one (question, answer) row read from a batch file.
type PairRecord struct {
	Index    string
	Prompt   string
	Response string
	// Language is the requested output language; empty means auto.
	Language string
}

// PairParseOptions selects columns by header name or 1-based "#N".
// Empty fields are detected from ColumnCandidates.
type PairParseOptions struct {
	IndexColumn    string
	PromptColumn   string
	ResponseColumn string
	LanguageColumn string
}

// ColumnCandidates lists header names tried during column auto-detection.
type ColumnCandidates struct {
	Index    []string `json:"index"`
	Prompt   []string `json:"prompt"`
	Response []string `json:"response"`
	Language []string `json:"language"`
}

// DefaultColumnCandidates returns the built-in detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Index:    []string{"id", "index", "no"},
		Prompt:   []string{"user_prompt", "prompt", "question"},
		Response: []string{"ai_response", "response", "answer"},
		Language: []string{"output_language", "language", "lang"},
	}
}

// ParsePairFile reads a CSV or TSV file (by extension) of prompt/response pairs.
func ParsePairFile(path string, opts PairParseOptions) ([]PairRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	records, err := ParsePairs(f, comma, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ParsePairs reads delimited rows. The first row is treated as a header when
// any column was matched by name; otherwise column 1 is the prompt and
// column 2 the response.
func ParsePairs(r io.Reader, comma rune, opts PairParseOptions) ([]PairRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	cols, skipHeader, err := resolvePairColumns(header, opts, DefaultColumnCandidates())
	if err != nil {
		return nil, err
	}
	start := 0
	if skipHeader {
		start = 1
	}
	out := make([]PairRecord, 0, len(rows)-start)
	for i, row := range rows[start:] {
		rec := PairRecord{
			Index:    cellAt(row, cols.index),
			Prompt:   cellAt(row, cols.prompt),
			Response: cellAt(row, cols.response),
			Language: cellAt(row, cols.language),
		}
		if rec.Prompt == "" && rec.Response == "" {
			continue
		}
		if rec.Index == "" {
			rec.Index = strconv.Itoa(i + 1)
		}
		out = append(out, rec)
	}
	return out, nil
}

// WriteResultsCSV writes one row per analyzed pair. Missing topics are
// joined with " | ".
func WriteResultsCSV(w io.Writer, records []PairRecord, results []AnalysisResult) error {
	if len(records) != len(results) {
		return fmt.Errorf("records/results length mismatch: %d vs %d", len(records), len(results))
	}
	writer := csv.NewWriter(w)
	header := []string{"index", "detected_user_lang", "output_language", "quality_score", "missing_topics", "summary", "follow_up_prompts"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		res := results[i]
		topics := make([]string, len(res.MissingTopics))
		for j, m := range res.MissingTopics {
			topics[j] = m.Topic
		}
		row := []string{
			rec.Index,
			res.DetectedUserLang,
			res.OutputLanguage,
			strconv.FormatFloat(res.QualityScore, 'f', 2, 64),
			strings.Join(topics, " | "),
			res.Summary,
			strings.Join(res.FollowUpPrompts, "\n"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

type pairColumns struct {
	index, prompt, response, language int
}

func resolvePairColumns(header []string, opts PairParseOptions, candidates ColumnCandidates) (pairColumns, bool, error) {
	cols := pairColumns{index: -1, prompt: -1, response: -1, language: -1}
	var (
		fromHeader [4]bool
		err        error
	)
	if cols.index, fromHeader[0], err = pickColumn(header, opts.IndexColumn, candidates.Index); err != nil {
		return cols, false, err
	}
	if cols.prompt, fromHeader[1], err = pickColumn(header, opts.PromptColumn, candidates.Prompt); err != nil {
		return cols, false, err
	}
	if cols.response, fromHeader[2], err = pickColumn(header, opts.ResponseColumn, candidates.Response); err != nil {
		return cols, false, err
	}
	if cols.language, fromHeader[3], err = pickColumn(header, opts.LanguageColumn, candidates.Language); err != nil {
		return cols, false, err
	}
	skipHeader := fromHeader[0] || fromHeader[1] || fromHeader[2] || fromHeader[3]
	if !skipHeader {
		if cols.prompt < 0 && len(header) > 0 {
			cols.prompt = 0
		}
		if cols.response < 0 && len(header) > 1 {
			cols.response = 1
		}
	}
	if cols.prompt < 0 {
		return cols, false, errors.New("no prompt column found")
	}
	if cols.response < 0 {
		return cols, false, errors.New("no response column found")
	}
	return cols, skipHeader, nil
}

func pickColumn(header []string, explicit string, candidates []string) (int, bool, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	if idx := findColumn(header, candidates); idx >= 0 {
		return idx, true, nil
	}
	return -1, false, nil
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
