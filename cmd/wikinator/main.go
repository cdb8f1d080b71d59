// Command wikinator converts Word documents into wiki-ready markdown pages.
//
// Usage:
//
//	wikinator convert [flags] SOURCE [DEST]
//	wikinator preview [flags] SOURCE [OUT]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/acmerocket/wikinator"
	"github.com/acmerocket/wikinator/logging"
	"github.com/acmerocket/wikinator/logging/gologger"
	"github.com/acmerocket/wikinator/ocr"
	"github.com/acmerocket/wikinator/page"
	"github.com/acmerocket/wikinator/preview"
)

const usage = `usage:
  wikinator convert [flags] SOURCE [DEST]   convert a .docx file or directory to markdown pages
  wikinator preview [flags] SOURCE [OUT]    render a .docx or .md file as an HTML page

Run "wikinator COMMAND -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "wikinator: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "convert":
		return runConvert(ctx, args[1:], stdout, stderr)
	case "preview":
		return runPreview(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// common holds the flags shared by all commands.
type common struct {
	logLevel   string
	logFormat  string
	ceiling    int
	accurate   bool
	noImages   bool
	useOCR     bool
	ocrLang    string
	skipTitles string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "console", "Log format: console, json, pretty")
	fs.IntVar(&c.ceiling, "ceiling", 0, "Image budget per page in encoded bytes (default 5000000)")
	fs.BoolVar(&c.accurate, "accurate-media-types", false, "Use each image's own media type in data URIs")
	fs.BoolVar(&c.noImages, "no-images", false, "Leave image definitions out of pages")
	fs.BoolVar(&c.useOCR, "ocr", false, "Title images with recognized text (requires a build with -tags ocr)")
	fs.StringVar(&c.ocrLang, "ocr-lang", "", "OCR language, e.g. eng or deu")
	fs.StringVar(&c.skipTitles, "skip-titles", "", "Comma separated document titles to replace with the file name")
}

// setup builds the logger and the converter template described by the
// flags. The returned cleanup releases the OCR engine, if any.
func (c *common) setup(stderr io.Writer) (logging.Logger, *wikinator.Converter, func(), error) {
	cfg := gologger.DefaultConfig()
	cfg.Level = c.logLevel
	cfg.Format = c.logFormat
	provider, err := gologger.NewProvider(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configure logging: %w", err)
	}
	logger := logging.Named(provider, "wikinator")

	conv := wikinator.Open("").WithLogger(logger)
	if c.ceiling > 0 {
		conv = conv.ImageCeiling(c.ceiling)
	}
	if c.accurate {
		conv = conv.AccurateMediaTypes()
	}
	if c.noImages {
		conv = conv.NoImages()
	}
	if titles := splitList(c.skipTitles); len(titles) > 0 {
		conv = conv.SkipTitles(titles...)
	}

	cleanup := func() {}
	if c.useOCR {
		client, err := ocr.New()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("start OCR: %w", err)
		}
		if c.ocrLang != "" {
			if err := client.SetLanguage(c.ocrLang); err != nil {
				client.Close()
				return nil, nil, nil, fmt.Errorf("set OCR language: %w", err)
			}
		}
		conv = conv.WithRecognizer(client)
		cleanup = func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(stderr, "wikinator: closing OCR: %v\n", err)
			}
		}
	}
	return logger, conv, cleanup, nil
}

func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts common
	opts.register(fs)
	workers := fs.Int("workers", runtime.NumCPU(), "Number of documents converted concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errors.New("convert needs SOURCE and an optional DEST")
	}
	source, dest := fs.Arg(0), "."
	if fs.NArg() == 2 {
		dest = fs.Arg(1)
	}

	logger, conv, cleanup, err := opts.setup(stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := collectJobs(source)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no .docx files found in %s", source)
	}

	results := convertAll(ctx, conv, jobs, dest, *workers, logger)
	return report(results, stdout, stderr)
}

func runPreview(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts common
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errors.New("preview needs SOURCE and an optional OUT")
	}
	source := fs.Arg(0)
	out := page.Stem(source) + ".html"
	if fs.NArg() == 2 {
		out = fs.Arg(1)
	}

	logger, conv, cleanup, err := opts.setup(stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	var p *page.Page
	var warnings []wikinator.Warning
	if strings.EqualFold(filepath.Ext(source), ".docx") {
		p, warnings, err = conv.File(source).Convert()
	} else {
		p, warnings, err = wikinator.Load(source)
	}
	if err != nil {
		return err
	}
	if err := preview.WriteFile(out, p); err != nil {
		return err
	}

	logger.Info("wrote preview", "source", source, "out", out, "warnings", len(warnings))
	fmt.Fprintln(stdout, out)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
