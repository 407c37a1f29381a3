// Package cmd: simplify command.
// fetch → scope → select → simplify in batches → write page (+ report).
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/extract"
	"github.com/gaurav-prasanna/pagesimplify/core/fetch"
	"github.com/gaurav-prasanna/pagesimplify/core/normalize"
	"github.com/gaurav-prasanna/pagesimplify/core/output"
	"github.com/gaurav-prasanna/pagesimplify/core/pipeline"
	"github.com/gaurav-prasanna/pagesimplify/core/render"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats for the rewritten page.
const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// Flag variables.
var (
	flagLevel        string
	flagShowOriginal bool
	flagScope        string
	flagFormat       string
	flagOut          string
	flagReport       string
	flagOutputDir    string
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <url|file>",
	Short: "Simplify the text of a page to a CEFR level",
	Long: `Simplify loads a page from a URL or a local HTML file, rewrites each qualifying
text fragment at the requested CEFR level and writes the resulting page.

Level and show-original default to the values saved by the previous run.

Examples:
  pagesimplify simplify https://example.com/article --level A2
  pagesimplify simplify page.html --show-original --scope auto
  pagesimplify simplify https://example.com --format markdown --report run.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSimplify,
}

func init() {
	rootCmd.AddCommand(simplifyCmd)

	simplifyCmd.Flags().StringVarP(&flagLevel, "level", "l", "", "CEFR level: A1, A2, B1, B2, C1 or C2 (default: last used, B1)")
	simplifyCmd.Flags().BoolVar(&flagShowOriginal, "show-original", false, "Show the original text above each simplification")
	simplifyCmd.Flags().StringVar(&flagScope, "scope", string(extract.ScopeBody), "Content scope: body or auto (main, article, body)")
	simplifyCmd.Flags().StringVar(&flagFormat, "format", formatHTML, "Page output format: html or markdown")
	simplifyCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: derived from the source)")
	simplifyCmd.Flags().StringVar(&flagReport, "report", "", "Also write a run report (.json or .pdf)")
	simplifyCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runSimplify(cmd *cobra.Command, args []string) error {
	source := args[0]

	// --- Validate flags ---
	scope, err := extract.ParseScope(flagScope)
	if err != nil {
		return err
	}
	ext, err := pageExtension(flagFormat)
	if err != nil {
		return err
	}
	var reporter core.ReportRenderer
	if flagReport != "" {
		if reporter, err = selectReporter(flagReport); err != nil {
			return err
		}
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	settings := a.store.Settings()
	level := settings.Level
	if flagLevel != "" {
		if level, err = simplify.ParseLevel(flagLevel); err != nil {
			return err
		}
	}
	showOriginal := settings.ShowOriginal
	if cmd.Flags().Changed("show-original") {
		showOriginal = flagShowOriginal
	}

	key, err := a.store.APIKey()
	if err != nil {
		return fmt.Errorf("%w: %w", simplify.ErrAuth, err)
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 1. Load
	page, err := fetch.Load(ctx, fetch.New(), source)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	doc, err := tree.ParseString(page.HTML)
	if err != nil {
		return err
	}

	// 2. Scope
	container := extract.Apply(doc, scope)
	a.logger.Debug("content scope", zap.String("container", container))

	// 3. Simplify
	p := pipeline.New(doc, selector.New(a.cfg.Selector), a.client(key), a.cfg.Pipeline,
		pipeline.WithLogger(a.logger))
	outcome, runErr := p.Run(ctx, pipeline.Request{Level: level, ShowOriginal: showOriginal})
	if runErr != nil && !outcome.Found {
		return runErr
	}

	fmt.Fprintln(os.Stdout, render.Summary(outcome))

	// 4. Write page
	if outcome.Found {
		data, err := renderPage(doc, flagFormat)
		if err != nil {
			return err
		}
		target := flagOut
		if target == "" {
			target = writer.PathFor(source, ext)
		}
		path, err := writer.Write(target, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	}

	// 5. Report
	if reporter != nil {
		meta := core.PageMetadata{
			Source:      source,
			Title:       doc.Title(),
			ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		}
		data, err := reporter.Render(outcome, meta)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		path, err := writer.Write(flagReport, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Report: %s\n", path)
	}

	if err := a.store.SaveLevel(level); err != nil {
		a.logger.Warn("cannot save level", zap.Error(err))
	}
	if err := a.store.SaveShowOriginal(showOriginal); err != nil {
		a.logger.Warn("cannot save show-original", zap.Error(err))
	}
	return runErr
}

// renderPage serializes the rewritten document in the requested format.
func renderPage(doc *tree.Document, format string) ([]byte, error) {
	page, err := doc.HTML()
	if err != nil {
		return nil, err
	}
	if format != formatMarkdown {
		return []byte(page), nil
	}
	md, err := normalize.New().Normalize(page)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return []byte(md), nil
}

// pageExtension maps --format to the output file extension.
func pageExtension(format string) (string, error) {
	switch format {
	case formatHTML:
		return ".html", nil
	case formatMarkdown:
		return ".md", nil
	default:
		return "", fmt.Errorf("unknown format %q (want html or markdown)", format)
	}
}

// selectReporter picks the report renderer from the report file extension.
func selectReporter(path string) (core.ReportRenderer, error) {
	for _, r := range []core.ReportRenderer{render.NewJSONRenderer(), render.NewPDFRenderer()} {
		if strings.EqualFold(filepath.Ext(path), r.Extension()) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unsupported report type %q (want .json or .pdf)", filepath.Ext(path))
}
