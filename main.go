package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/insightdelivered/cc-statement-parser/internal/api"
	"github.com/insightdelivered/cc-statement-parser/internal/config"
	"github.com/insightdelivered/cc-statement-parser/internal/extractor"
	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/parser"
	"github.com/insightdelivered/cc-statement-parser/internal/writer"
)

const dumpFile = "output.txt"

func main() {
	// CLI flags
	dumpFlag := flag.Bool("dump-text", false, "Extract and save raw text to 'output.txt' for debugging")
	formatFlag := flag.String("format", "json", "Output format: json, csv")
	outputFlag := flag.String("output", "", "Output file path (defaults to stdout)")
	summaryFlag := flag.Bool("summary", false, "Print a short summary of the statement to stderr")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API instead of parsing a file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Statement Parser
by Insight Delivered

Extracts the card holder, card suffix, account number, billing period,
key dates and amounts from a credit card statement PDF.

Usage:
  cc-statement-parser [flags] <statement.pdf>
  cc-statement-parser --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Print the extracted fields as JSON
  cc-statement-parser statement.pdf

  # Write CSV rows to a file
  cc-statement-parser --format=csv --output=fields.csv statement.pdf

  # Inspect the text the patterns run against
  cc-statement-parser --dump-text statement.pdf

  # Run the upload API (SERVER_HOST / SERVER_PORT from the environment)
  cc-statement-parser --serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("cc-statement-parser v%s\n", api.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}

	if *serveFlag {
		if err := serve(cfg); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	format := strings.ToLower(*formatFlag)
	if format != "json" && format != "csv" {
		fatalf("Unknown format %q. Supported: json, csv\n", *formatFlag)
	}

	opts := options{
		format:  format,
		output:  *outputFlag,
		dump:    *dumpFlag,
		summary: *summaryFlag,
	}
	ext := extractor.New(cfg.Extractor.PdftotextPath)
	if err := processFile(ext, flag.Arg(0), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

type options struct {
	format  string
	output  string
	dump    bool
	summary bool
}

func processFile(ext *extractor.Extractor, inputPath string, opts options) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if e := strings.ToLower(filepath.Ext(inputPath)); e != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", e)
	}

	fmt.Fprintf(os.Stderr, "Processing: %s\n", inputPath)

	pages, err := ext.ExtractText(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "  Extracted text from %d page(s)\n", len(pages))

	text := extractor.Combine(pages)

	if opts.dump {
		if err := os.WriteFile(dumpFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dumpFile, err)
		}
		fmt.Fprintf(os.Stderr, "Successfully dumped extracted text to '%s'\n", dumpFile)
		return nil
	}

	fields := parser.Extract(text)
	fmt.Fprintf(os.Stderr, "  Found %d of %d field(s)\n", fields.Found(), len(models.FieldNames))

	if fields.Found() == 0 {
		fmt.Fprintln(os.Stderr, "  Warning: No fields found. The statement layout may not match expected patterns.")
		fmt.Fprintln(os.Stderr, "  Try --dump-text to inspect the extracted text.")
	}

	if err := writeFields(fields, opts); err != nil {
		return err
	}

	if opts.summary {
		printSummary(os.Stderr, fields)
	}
	return nil
}

// fieldWriter is implemented by the writer package's renderers.
type fieldWriter interface {
	Write(out io.Writer, fields *models.ExtractedFields) error
	WriteToFile(path string, fields *models.ExtractedFields) error
}

func writeFields(fields *models.ExtractedFields, opts options) error {
	var w fieldWriter = &writer.JSONWriter{Indent: true}
	if opts.format == "csv" {
		w = &writer.CSVWriter{IncludeHeader: true}
	}

	if opts.output == "" {
		if err := w.Write(os.Stdout, fields); err != nil {
			return fmt.Errorf("%s write failed: %w", strings.ToUpper(opts.format), err)
		}
		return nil
	}

	if err := w.WriteToFile(opts.output, fields); err != nil {
		return fmt.Errorf("%s write failed: %w", strings.ToUpper(opts.format), err)
	}
	fmt.Fprintf(os.Stderr, "  Output: %s\n", opts.output)
	return nil
}

func printSummary(out io.Writer, fields *models.ExtractedFields) {
	for _, line := range []struct {
		label string
		value *string
	}{
		{"Card holder", fields.CardHolderName},
		{"Card ending", fields.CardNumberLast4},
		{"Billing period", fields.BillingPeriod},
		{"Payment due", fields.PaymentDueDate},
		{"Total due", fields.TotalAmountDue},
		{"Minimum due", fields.MinimumAmountDue},
	} {
		if line.value != nil {
			fmt.Fprintf(out, "  %s: %s\n", line.label, *line.value)
		}
	}
	if used, ok := fields.CreditUsed(); ok {
		fmt.Fprintf(out, "  Credit used: %s\n", used.StringFixed(2))
	}
}

func serve(cfg *config.Config) error {
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	h := api.NewHandler(extractor.New(cfg.Extractor.PdftotextPath), logger, metrics.New())
	app := api.NewApp(h, cfg.Server.BodyLimit())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Server.Addr()), slog.String("version", api.Version))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
