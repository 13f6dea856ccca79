// docextract runs the extraction pipeline over local files without the
// server: point it at a directory (or a single file), it classifies every
// supported document and prints the results, optionally persisting them to
// a SQLite file and rendering an XLSX report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gerenciadoc/gerenciadoc/internal/async"
	"github.com/gerenciadoc/gerenciadoc/internal/batch"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
	"github.com/gerenciadoc/gerenciadoc/internal/ingest"
)

func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory to scan for documents")
		file       = flag.String("file", "", "single file to process")
		workers    = flag.Int("workers", 4, "concurrent extraction workers")
		dbPath     = flag.String("db", "", "SQLite file to persist results (optional)")
		out        = flag.String("out", "", "XLSX report path (optional)")
		asJSON     = flag.Bool("json", false, "print results as JSON lines")
		verbose    = flag.Bool("v", false, "debug logging")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	flag.Parse()

	if *dir == "" && *file == "" {
		printError("Error: -dir or -file is required\n")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	pipeline := extract.NewExtractor(extract.OCRConfig{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	scanner := ingest.NewScanner(logger)

	var store *batch.Store
	if *dbPath != "" {
		var err error
		store, err = batch.OpenStore(ctx, *dbPath)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	entries, err := collectEntries(ctx, scanner, *dir, *file, *skipHidden, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		printError("No supported documents found\n")
		os.Exit(1)
	}

	byPath := make(map[string]ingest.FileEntry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	var mu sync.Mutex
	var records []batch.Record

	queue := async.NewQueue(func(ctx context.Context, path string) error {
		res := pipeline.ExtractDocumentData(ctx, path)
		rec := batch.Record{
			Path:        path,
			HashHex:     byPath[path].HashHex,
			Result:      res,
			ExtractedAt: time.Now().UTC(),
		}
		mu.Lock()
		records = append(records, rec)
		mu.Unlock()
		if store != nil {
			return store.SaveResult(ctx, rec)
		}
		return nil
	}, logger, async.WithWorkers(*workers), async.WithQueueSize(len(entries)))

	for _, e := range entries {
		queue.Enqueue(ctx, async.Job{Path: e.Path, SubmittedAt: time.Now()})
	}
	queue.Shutdown(ctx)

	printRecords(records, *asJSON)

	if *out != "" {
		data, err := batch.WriteReportXLSX(records)
		if err != nil {
			printError("Error: report: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			printError("Error: write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("report written to %s\n", *out)
	}
}

func collectEntries(ctx context.Context, scanner *ingest.Scanner, dir, file string, skipHidden bool, logger *slog.Logger) ([]ingest.FileEntry, error) {
	if file != "" {
		entry, err := scanner.ScanFile(ctx, file)
		if err != nil {
			return nil, err
		}
		return []ingest.FileEntry{entry}, nil
	}
	entries, stats, err := scanner.ScanDirectory(ctx, dir, skipHidden)
	if err != nil {
		return nil, err
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return entries, nil
}

func printRecords(records []batch.Record, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				printError("Error: encode record: %v\n", err)
			}
		}
		return
	}
	for _, rec := range records {
		fmt.Printf("%s\n  name: %s\n  type: %s  category: %s\n",
			rec.Path, rec.Result.Name, rec.Result.Type, rec.Result.CategoryID)
		if md := rec.Result.Metadata; !md.IsEmpty() {
			if md.IssueDate != nil {
				fmt.Printf("  issued: %s\n", md.IssueDate.Format("02/01/2006"))
			}
			if md.ExpirationDate != nil {
				fmt.Printf("  expires: %s\n", md.ExpirationDate.Format("02/01/2006"))
			}
			if md.CNPJ != "" {
				fmt.Printf("  cnpj: %s\n", md.CNPJ)
			}
			if md.Issuer != "" {
				fmt.Printf("  issuer: %s\n", md.Issuer)
			}
			if md.ProposalValue != nil {
				fmt.Printf("  value: %.2f\n", *md.ProposalValue)
			}
		}
		if len(rec.Result.Tags) > 0 {
			fmt.Printf("  tags: %v\n", rec.Result.Tags)
		}
	}
}
