package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"productpage/internal/config"
	"productpage/internal/query"
	"productpage/internal/service"
	"productpage/internal/source"
	"productpage/internal/view"
)

const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// renderOptions holds the flag values of the root command.
type renderOptions struct {
	source   string
	apiURL   string
	dir      string
	format   string
	output   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [product-id]",
		Short: "Render a product page to HTML or Markdown",
		Long: `Render fetches one product, normalizes it and writes the page that the
server would show for it.

Examples:
  render 13060247469
  render 13060247469 --format markdown --output casque.md
  render 42 --source file --dir testdata/products`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := "13060247469"
			if len(args) == 1 {
				id = args[0]
			}
			return runRender(cmd, opts, id)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.source, "source", config.SourceHTTP, "Product source: http or file")
	flags.StringVar(&opts.apiURL, "api-url", "https://api-rakuten-vis.koyeb.app", "Product API base URL (http source)")
	flags.StringVar(&opts.dir, "dir", "testdata/products", "Fixture directory (file source)")
	flags.StringVar(&opts.format, "format", formatHTML, "Output format: html or markdown")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, or error")

	return cmd
}

func (o *renderOptions) validate() error {
	if o.source != config.SourceHTTP && o.source != config.SourceFile {
		return fmt.Errorf("invalid --source %q (must be http or file)", o.source)
	}
	if o.format != formatHTML && o.format != formatMarkdown {
		return fmt.Errorf("invalid --format %q (must be html or markdown)", o.format)
	}
	return nil
}

func runRender(cmd *cobra.Command, opts *renderOptions, id string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	var src source.Source
	if opts.source == config.SourceFile {
		src = source.NewFileSource(opts.dir, logger)
	} else {
		src = source.NewHTTPSource(opts.apiURL, nil, logger)
	}

	productService := service.NewProductService(query.NewClient(src, nil, 0, nil, logger), logger)
	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	product, fetchErr := productService.GetView(cmd.Context(), id)
	page := view.Ready(product)
	if fetchErr != nil {
		page = view.Failed()
	}

	var buf bytes.Buffer
	if opts.format == formatMarkdown {
		md, err := renderer.Markdown(page)
		if err != nil {
			return err
		}
		buf.WriteString(md)
		buf.WriteString("\n")
	} else if err := renderer.Render(&buf, page); err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), opts.output, buf.Bytes()); err != nil {
		return err
	}

	if fetchErr != nil {
		return fmt.Errorf("product %s: %w", id, fetchErr)
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
