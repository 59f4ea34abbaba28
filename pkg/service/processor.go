// Package service is the orchestrator around the core pipeline: it scans
// directories, routes files through detection/parsing/categorization,
// writes both exports into month-year folders and archives processed
// inputs. The core packages never touch the filesystem themselves.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rfarias/extratoq/pkg/accounts"
	"github.com/rfarias/extratoq/pkg/config"
	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
	"github.com/rfarias/extratoq/pkg/parser"
	"github.com/rfarias/extratoq/pkg/writer"
)

type Processor struct {
	cfg     *config.Config
	logger  *log.Logger
	parser  *parser.Parser
	matcher *accounts.Matcher
	now     normalizer.Clock
}

func NewProcessor(cfg *config.Config, logger *log.Logger, p *parser.Parser, matcher *accounts.Matcher, now normalizer.Clock) *Processor {
	if now == nil {
		now = time.Now
	}
	return &Processor{cfg: cfg, logger: logger, parser: p, matcher: matcher, now: now}
}

// ProcessDirectory converts every recognizable file in dir. Per-file
// failures are logged and do not stop the scan; files are independent.
func (p *Processor) ProcessDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := p.ProcessFile(filepath.Join(dir, entry.Name())); err != nil {
			p.logger.Error("failed to process file", "file", entry.Name(), "error", err)
		}
	}
	return nil
}

// ProcessFile converts one statement file into its QIF and tagged CSV
// exports, grouped into a month-year folder, then archives the input.
// Unrecognized formats are skipped, not errors.
func (p *Processor) ProcessFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	name := filepath.Base(path)
	fileType := parser.DetectType(name, data)
	if fileType == parser.TypeUnknown {
		p.logger.Info("skipping unrecognized file", "file", name)
		return nil
	}
	p.logger.Info("processing file", "file", name, "type", fileType)

	txs, err := p.parser.ProcessBytes(data, name)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	if account := p.matcher.Match(name); account != "" {
		for _, tx := range txs {
			tx.Account = account
		}
	}

	monthYear := p.monthYear(fileType, data, txs)

	outDir := p.cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	outDir = filepath.Join(outDir, monthYear)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if err := p.writeExports(outDir, stem, txs); err != nil {
		return err
	}

	if err := p.archive(path, monthYear); err != nil {
		return err
	}

	p.logger.Info("processed file", "file", name, "transactions", len(txs), "bucket", monthYear)
	return nil
}

// monthYear buckets the file for archival. OFX buckets from raw content
// so balance markers can be excluded from the tally; other formats bucket
// from the parsed dates.
func (p *Processor) monthYear(fileType parser.FileType, data []byte, txs []*models.Transaction) string {
	if fileType == parser.TypeOFX {
		return parser.MonthYearFromOFX(data, p.now)
	}
	return parser.MonthYearFromTransactions(txs, p.now)
}

func (p *Processor) writeExports(outDir, stem string, txs []*models.Transaction) error {
	qifPath := filepath.Join(outDir, stem+".qif")
	qifFile, err := os.Create(qifPath)
	if err != nil {
		return fmt.Errorf("creating qif file: %w", err)
	}
	defer qifFile.Close()
	if err := writer.WriteQIF(qifFile, txs); err != nil {
		return err
	}

	csvPath := filepath.Join(outDir, stem+".csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer csvFile.Close()

	opts := writer.EzbookOptions{Currency: p.cfg.Currency, Timezone: p.cfg.Timezone}
	if opts.Currency == "" {
		opts = writer.DefaultEzbookOptions()
	}
	return writer.WriteEzbookCSV(csvFile, txs, opts)
}

// archive moves a converted input into the processed folder, mirroring
// the month-year layout. With no processed dir configured the input stays
// where it is.
func (p *Processor) archive(path, monthYear string) error {
	if p.cfg.ProcessedDir == "" {
		return nil
	}
	destDir := filepath.Join(p.cfg.ProcessedDir, monthYear)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating processed folder: %w", err)
	}
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("archiving input: %w", err)
	}
	p.logger.Debug("archived input", "from", path, "to", dest)
	return nil
}

// Watch polls the input directory until the context is cancelled.
func (p *Processor) Watch(ctx context.Context, dir string) error {
	interval := time.Duration(p.cfg.WatchInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	p.logger.Info("watching directory", "dir", dir, "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.ProcessDirectory(dir); err != nil {
			p.logger.Error("scan failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
