// Command docidfix corrects OCR misreads in document IDs in text dumps and
// searchable PDFs.
//
//	docidfix [flags] [FILE...]
//
// With no FILE every supported file in INPUT_DIR is corrected into OUTPUT_DIR.
// A FILE of "-" reads text from stdin and writes the corrected text to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"docid-ocr-corrector/internal/config"
	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
	"docid-ocr-corrector/internal/report"
	"docid-ocr-corrector/internal/service"
	"docid-ocr-corrector/pkg/logger"
)

const (
	exitOK     = 0
	exitConfig = 1
	exitUsage  = 2
	exitFailed = 3
)

var supportedExt = map[string]bool{".txt": true, ".md": true, ".pdf": true}

type options struct {
	output      string
	md          bool
	noColor     bool
	asJSON      bool
	rulesFile   string
	grammarFile string
	concurrency int
	logLevel    string
}

type job struct {
	source domain.TextSource
	output string
	stdin  bool
}

type app struct {
	opts        options
	corrections *service.CorrectionService
	stdout      io.Writer
	stderr      io.Writer
	color       bool
	log         domain.Logger
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.NewConfig()

	var opts options
	fs := flag.NewFlagSet("docidfix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "write corrected text to this path (single FILE only)")
	fs.BoolVar(&opts.md, "md", false, "write corrected text next to each FILE as <stem>.corrected.md")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable ANSI colours in the report")
	fs.BoolVar(&opts.asJSON, "json", false, "print the correction reports as JSON")
	fs.StringVar(&opts.rulesFile, "rules", cfg.GetRulesFile(), "JSON rule table replacing the built-in rules")
	fs.StringVar(&opts.grammarFile, "grammar", cfg.GetGrammarFile(), "JSON document-ID grammar replacing the built-in one")
	fs.IntVar(&opts.concurrency, "concurrency", cfg.GetPageConcurrency(), "pages corrected in parallel")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: docidfix [flags] [FILE...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	files := fs.Args()
	if opts.output != "" && len(files) != 1 {
		fmt.Fprintln(stderr, "docidfix: -o needs exactly one FILE")
		return exitUsage
	}
	if countStdin(files) > 1 {
		fmt.Fprintln(stderr, "docidfix: stdin (-) may be given only once")
		return exitUsage
	}

	appLogger := logger.New(opts.logLevel, stderr)

	engine, err := loadEngine(opts.rulesFile, opts.grammarFile)
	if err != nil {
		fmt.Fprintf(stderr, "docidfix: %v\n", err)
		return exitConfig
	}

	a := &app{
		opts:        opts,
		corrections: service.NewCorrectionService(engine, nil, appLogger, opts.concurrency),
		stdout:      stdout,
		stderr:      stderr,
		color:       !opts.noColor && isTerminal(stdout),
		log:         appLogger,
	}
	return a.run(ctx, cfg, files, stdin)
}

func countStdin(files []string) int {
	n := 0
	for _, f := range files {
		if f == "-" {
			n++
		}
	}
	return n
}

func loadEngine(rulesFile, grammarFile string) (*correction.Engine, error) {
	rules, grammar, err := correction.LoadTables(rulesFile, grammarFile)
	if err != nil {
		return nil, err
	}
	return correction.NewEngine(rules, grammar)
}

func (a *app) run(ctx context.Context, cfg *config.AppConfig, files []string, stdin io.Reader) int {
	extractor := service.NewFitzTextExtractor(cfg.GetMaxFileSize(), a.log)

	var jobs []job
	if len(files) == 0 {
		var err error
		jobs, err = folderJobs(cfg.GetInputDir(), cfg.GetOutputDir(), extractor)
		if err != nil {
			fmt.Fprintf(a.stderr, "docidfix: %v\n", err)
			return exitFailed
		}
		if len(jobs) == 0 {
			fmt.Fprintf(a.stderr, "No .pdf, .txt or .md files found in %s\n", cfg.GetInputDir())
			return exitOK
		}
	} else {
		for _, f := range files {
			j, err := a.fileJob(f, stdin, extractor)
			if err != nil {
				fmt.Fprintf(a.stderr, "docidfix: %v\n", err)
				return exitUsage
			}
			jobs = append(jobs, j)
		}
	}

	grand := domain.Totals{ByMechanism: make(map[string]int)}
	failed := 0
	for _, j := range jobs {
		doc, err := a.process(ctx, j)
		if err != nil {
			failed++
			fmt.Fprintf(a.stderr, "docidfix: %s: %v\n", j.source.Name(), err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		addTotals(&grand, doc.Totals)
	}

	if len(jobs) > 1 && !a.opts.asJSON {
		fmt.Fprintf(a.stdout, "\n  %d file(s)\n", len(jobs))
		_ = report.RenderTotals(a.stdout, grand, report.Options{Color: a.color})
	}
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

func (a *app) fileJob(path string, stdin io.Reader, extractor domain.TextLayerExtractor) (job, error) {
	if path == "-" {
		return job{source: &readerSource{name: "stdin", r: stdin}, stdin: true}, nil
	}
	src, err := service.NewTextSource(path, extractor)
	if err != nil {
		return job{}, err
	}
	j := job{source: src, output: a.opts.output}
	if j.output == "" && a.opts.md {
		j.output = strings.TrimSuffix(path, filepath.Ext(path)) + ".corrected.md"
	}
	return j, nil
}

func folderJobs(inputDir, outputDir string, extractor domain.TextLayerExtractor) ([]job, error) {
	entries, err := os.ReadDir(inputDir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(inputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create input folder: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read input folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) > 0 {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output folder: %w", err)
		}
	}

	jobs := make([]job, 0, len(names))
	for _, name := range names {
		src, err := service.NewTextSource(filepath.Join(inputDir, name), extractor)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		jobs = append(jobs, job{source: src, output: filepath.Join(outputDir, stem+".md")})
	}
	return jobs, nil
}

func (a *app) process(ctx context.Context, j job) (*domain.DocumentCorrection, error) {
	pages, err := j.source.Pages(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := a.corrections.CorrectDocument(ctx, domain.DocumentRequest{Name: j.source.Name(), Pages: pages})
	if err != nil {
		return nil, err
	}

	// Corrected text owns stdout when reading stdin.
	reportOut := a.stdout
	if j.stdin {
		reportOut = a.stderr
	}
	if a.opts.asJSON {
		enc := json.NewEncoder(reportOut)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	} else if err := report.RenderDocument(reportOut, doc, report.Options{Color: a.color && !j.stdin}); err != nil {
		return nil, err
	}

	switch {
	case j.stdin:
		if _, err := io.WriteString(a.stdout, doc.CorrectedText()); err != nil {
			return nil, err
		}
	case j.output != "":
		if err := os.WriteFile(j.output, []byte(doc.CorrectedText()), 0o644); err != nil {
			return nil, fmt.Errorf("write corrected text: %w", err)
		}
		a.log.Info("Corrected text written", "path", j.output)
	}
	return doc, nil
}

func addTotals(dst *domain.Totals, t domain.Totals) {
	dst.Pages += t.Pages
	dst.PagesChanged += t.PagesChanged
	dst.Fixes += t.Fixes
	dst.IDsRecognized += t.IDsRecognized
	dst.IDsModified += t.IDsModified
	for m, n := range t.ByMechanism {
		dst.ByMechanism[m] += n
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readerSource treats a whole stream as one text dump.
type readerSource struct {
	name string
	r    io.Reader
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) Pages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return service.SplitPages(strings.ToValidUTF8(string(data), "")), nil
}
