package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/fwojciec/artpdf"
	"github.com/fwojciec/artpdf/fs"
	"github.com/fwojciec/artpdf/gofpdf"
	"github.com/fwojciec/artpdf/goquery"
	"github.com/fwojciec/artpdf/htmltomarkdown"
	arthttp "github.com/fwojciec/artpdf/http"
	"github.com/fwojciec/artpdf/pipeline"
	"github.com/fwojciec/artpdf/rod"
	artslog "github.com/fwojciec/artpdf/slog"
	"github.com/fwojciec/artpdf/yaml"
)

// Output formats accepted by --format.
const (
	FormatPDF      = "pdf"
	FormatBasicPDF = "basic-pdf"
	FormatMarkdown = "md"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// errReported marks failures whose message was already written to stderr.
var errReported = errors.New("reported")

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("artpdf"),
		kong.Description("Save a news article as a clean, printable document"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps, err := cli.wire(stderr)
	if err != nil {
		return err
	}
	defer deps.Close()

	cmd := &ConvertCmd{URL: cli.URL}
	return cmd.Run(ctx, deps, stdout, stderr)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Out       string        `short:"o" default:"articles" env:"ARTPDF_OUT" help:"Directory the document is written to"`
	Timeout   time.Duration `short:"t" default:"30s" help:"Page fetch timeout"`
	Format    string        `short:"f" default:"pdf" enum:"pdf,basic-pdf,md" help:"Output format (pdf, basic-pdf, md)"`
	Selectors string        `type:"existingfile" help:"YAML file overriding the built-in selector set"`
	Host      string        `default:"businessinsider.com" help:"Required article host; empty accepts any host"`
	JS        bool          `name:"js" help:"Fetch the page through headless Chrome"`
	Unique    bool          `help:"Append a hash of the URL to the file name"`
	Verbose   bool          `short:"v" help:"Log every pipeline step to stderr"`
	UserAgent string        `name:"user-agent" help:"User-Agent header for plain HTTP fetches"`
	Chrome    string        `env:"ARTPDF_CHROME" help:"Path to the Chrome or Chromium binary"`
	URL       string        `arg:"" required:"" help:"Article URL"`
}

// Dependencies holds the wired ports for a single conversion.
type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
	fetcher  artpdf.Fetcher
}

// Close releases the fetcher, including any browser it started.
func (d *Dependencies) Close() {
	if d.fetcher == nil {
		return
	}
	if err := d.fetcher.Close(); err != nil {
		d.Logger.Warn("close fetcher", "err", err)
	}
}

func (c *CLI) logger(stderr io.Writer) *slog.Logger {
	if !c.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *CLI) launchOptions() []rod.LaunchOption {
	var opts []rod.LaunchOption
	if c.Chrome != "" {
		opts = append(opts, rod.WithBin(c.Chrome))
	}
	return opts
}

func (c *CLI) wire(stderr io.Writer) (*Dependencies, error) {
	deps := &Dependencies{Logger: c.logger(stderr)}

	selectors := artpdf.DefaultSiteSelectors()
	if c.Selectors != "" {
		s, err := yaml.LoadSiteSelectors(c.Selectors)
		if err != nil {
			return nil, err
		}
		selectors = s
	}
	extractor, err := goquery.NewExtractor(selectors)
	if err != nil {
		return nil, err
	}

	var fetcher artpdf.Fetcher
	if c.JS {
		browser, err := rod.Launch(c.launchOptions()...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rod.NewFetcher(browser, rod.WithFetchTimeout(c.Timeout))
	} else {
		opts := []arthttp.Option{arthttp.WithTimeout(c.Timeout)}
		if c.UserAgent != "" {
			opts = append(opts, arthttp.WithUserAgent(c.UserAgent))
		}
		fetcher = arthttp.NewFetcher(opts...)
	}
	deps.fetcher = fetcher

	var renderer artpdf.Renderer
	switch c.Format {
	case FormatPDF:
		renderer = rod.NewRenderer(c.launchOptions()...)
	case FormatBasicPDF:
		renderer = gofpdf.NewRenderer()
	case FormatMarkdown:
		renderer = htmltomarkdown.NewConverter()
	default:
		deps.Close()
		return nil, artpdf.Errorf(artpdf.EINVALID, "unknown format %q", c.Format)
	}

	logger := deps.Logger
	deps.Pipeline = &pipeline.Pipeline{
		Fetcher:   artslog.NewLoggingFetcher(fetcher, logger),
		Extractor: artslog.NewLoggingExtractor(extractor, logger),
		Renderer:  artslog.NewLoggingRenderer(renderer, logger),
		Store:     artslog.NewLoggingStore(fs.NewStore(c.Out), logger),
		Layout:    artpdf.DefaultPageLayout(),
		Host:      c.Host,
		Unique:    c.Unique,
	}
	return deps, nil
}

var (
	reportColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)
