// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"freight-scan/internal/config"
	"freight-scan/internal/correct"
	"freight-scan/internal/document"
	"freight-scan/internal/formatters"
	_ "freight-scan/internal/formatters/csv"
	_ "freight-scan/internal/formatters/json"
	_ "freight-scan/internal/formatters/text"
	"freight-scan/internal/interchange"
	"freight-scan/internal/knowledge"
	"freight-scan/internal/pipeline"
	"freight-scan/internal/preprocessors/pdftext"
	"freight-scan/internal/structure"
	"freight-scan/internal/version"
)

// cliFlags holds command line flag values
type cliFlags struct {
	file         string
	outputFormat string
	outputFile   string
	severity     string
	configFile   string
	kbPath       string
	emitFile     string
	verbose      bool
	noColor      bool
	failFast     bool
	parseMode    bool
	learnMode    bool
	showVersion  bool
	listFormats  bool
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}
	flag.StringVar(&flags.file, "file", "", "Input file: a PDF or text scan batch, or an interchange file with -parse/-learn")
	flag.StringVar(&flags.outputFormat, "format", "", "Output format: "+strings.Join(formatters.List(), ", "))
	flag.StringVar(&flags.outputFile, "output", "", "Write formatted output to a file instead of stdout")
	flag.StringVar(&flags.severity, "severity", "", "Severity levels to display: all, or a comma-separated subset of critical,error,warning")
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file")
	flag.StringVar(&flags.kbPath, "kb", "", "Path to the knowledge base file (overrides config)")
	flag.StringVar(&flags.emitFile, "emit", "", "Write records without critical findings to a fixed-width interchange file")
	flag.BoolVar(&flags.verbose, "verbose", false, "Show detailed per-record output")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.failFast, "fail-fast", false, "Stop validating a record at its first finding")
	flag.BoolVar(&flags.parseMode, "parse", false, "Parse -file as a fixed-width interchange file and print its records")
	flag.BoolVar(&flags.learnMode, "learn", false, "Teach the knowledge base from an interchange file")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.BoolVar(&flags.listFormats, "list-formats", false, "List available output formats")
	flag.Parse()
	return flags
}

// isFlagSet reports whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// shouldUseColor determines if colored output should be used
func shouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		return
	}
	if flags.listFormats {
		for _, name := range formatters.List() {
			f, _ := formatters.Get(name)
			fmt.Printf("  %-6s %s\n", name, f.Description())
		}
		return
	}

	if flags.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadConfigOrDefault(flags.configFile)

	// Command line flags override config file values.
	if isFlagSet("fail-fast") {
		cfg.Validation.FailFast = flags.failFast
	}
	if isFlagSet("verbose") {
		cfg.Defaults.Verbose = flags.verbose
	}
	if isFlagSet("severity") {
		cfg.Defaults.SeverityLevels = flags.severity
	}
	format := cfg.Defaults.Format
	if isFlagSet("format") && flags.outputFormat != "" {
		format = flags.outputFormat
	}
	kbPath := cfg.KnowledgeBase.Path
	if isFlagSet("kb") {
		kbPath = flags.kbPath
	}

	switch {
	case flags.learnMode:
		os.Exit(runLearn(flags.file, kbPath, cfg))
	case flags.parseMode:
		os.Exit(runParse(flags.file))
	default:
		os.Exit(runScan(flags, cfg, format, kbPath))
	}
}

// runScan is the main flow: extract pages, run the pipeline, render results.
func runScan(flags *cliFlags, cfg *config.Config, format, kbPath string) int {
	pages, err := loadPages(flags.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var kb knowledge.Base
	if kbPath != "" {
		sqliteKB, err := knowledge.OpenSQLite(kbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: knowledge base unavailable: %v\n", err)
		} else {
			defer sqliteKB.Close()
			kb = sqliteKB
		}
	}

	processor := pipeline.New(cfg, kb)
	batch, err := processor.Process(pages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var drift *structure.LayoutDriftError
		if errors.As(err, &drift) {
			// Layout drift means nothing was extracted; distinct exit code so
			// callers can page a human instead of retrying.
			return 2
		}
		return 1
	}

	severityLevels, err := formatters.ParseSeverityLevels(cfg.Defaults.SeverityLevels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	options := formatters.FormatterOptions{
		SeverityLevels: severityLevels,
		Verbose:        cfg.Defaults.Verbose,
		NoColor:        cfg.Defaults.NoColor || flags.outputFile != "" || !shouldUseColor(flags.noColor),
	}

	output, err := formatters.Export(format, batch, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if flags.outputFile != "" {
		if err := os.WriteFile(flags.outputFile, []byte(output), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			return 1
		}
	} else {
		fmt.Print(output)
	}

	if flags.emitFile != "" {
		if err := emitInterchange(flags.emitFile, batch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if batch.Stats.RecordsWithCritical > 0 {
		return 1
	}
	return 0
}

// loadPages turns the input file into pipeline pages. PDFs are split by
// physical page; plain text batches are split on form feeds or an explicit
// page-break marker, falling back to the whole file as a single page.
func loadPages(path string) ([]pipeline.Page, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pdfPages, err := pdftext.ExtractPages(path)
		if err != nil {
			return nil, err
		}
		pages := make([]pipeline.Page, 0, len(pdfPages))
		for _, p := range pdfPages {
			pages = append(pages, pipeline.Page{Number: p.Number, Text: p.Text})
		}
		return pages, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	text := strings.ReplaceAll(string(raw), "--- PAGE BREAK ---", "\f")

	var pages []pipeline.Page
	for i, chunk := range strings.Split(text, "\f") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		pages = append(pages, pipeline.Page{Number: i + 1, Text: chunk})
	}
	return pages, nil
}

// emitInterchange writes the whole batch as a fixed-width interchange file.
// Flagged records are written too: the audit trail points a human at the
// generated file so the value can be fixed in place, which beats a downstream
// rejection of the whole submission.
func emitInterchange(path string, batch *pipeline.Batch) error {
	var b strings.Builder
	flagged := 0
	for i := range batch.Results {
		result := &batch.Results[i]
		if result.HasCritical() {
			flagged++
		}
		b.WriteString(interchange.EncodeShipment(&result.Record))
		b.WriteString("\n")
		if result.Record.TransportNumber != "" || result.Record.DeliveryDate != "" {
			b.WriteString(interchange.EncodeDelivery(&result.Record))
			b.WriteString("\n")
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing interchange file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Emitted %d records to %s (%d flagged with critical findings)\n",
		len(batch.Results), path, flagged)
	return nil
}

// runParse prints the structured contents of an interchange file.
func runParse(path string) int {
	parsed, err := interchange.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Shipments: %d, deliveries: %d\n\n", len(parsed.Shipments), len(parsed.Deliveries))
	for _, tn := range parsed.Shipments {
		fmt.Printf("line %d: NF %s (%s)\n", tn.Line, tn.DocumentNumber, tn.DocumentDate)
		fmt.Printf("  emitter:    %s  %s\n", tn.EmitterID, tn.EmitterName)
		fmt.Printf("  contractor: %s  %s\n", tn.ContractorID, tn.ContractorName)
		fmt.Printf("  recipient:  %s  %s\n", tn.RecipientID, tn.RecipientName)
		fmt.Printf("  route:      %s -> %s\n", tn.PickupPlace, tn.DeliveryPlace)
	}
	for _, cc := range parsed.Deliveries {
		fmt.Printf("line %d: CT-e %s (%s) delivered %s to %s\n",
			cc.Line, cc.TransportNumber, cc.TransportDate, cc.DeliveryDate, cc.ReceiverName)
	}
	for _, d := range parsed.Diagnostics {
		fmt.Fprintf(os.Stderr, "line %d skipped: %s\n", d.Line, d.Reason)
	}
	return 0
}

// runLearn teaches the knowledge base every valid association in an already
// reviewed interchange file.
func runLearn(path, kbPath string, cfg *config.Config) int {
	if kbPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -learn requires a knowledge base path (-kb or knowledge_base.path in config)")
		return 1
	}

	parsed, err := interchange.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	kb, err := knowledge.OpenSQLite(kbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer kb.Close()

	records := make([]document.Record, 0, len(parsed.Shipments))
	for _, tn := range parsed.Shipments {
		records = append(records, interchange.Record(tn, nil))
	}

	learned, err := pipeline.Learn(kb, correct.Options{
		IndexMinNameLength: cfg.Correction.IndexMinNameLength,
		FuzzyMinNameLength: cfg.Correction.FuzzyMinNameLength,
	}, records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Learned %d associations from %d records\n", learned, len(records))
	return 0
}
