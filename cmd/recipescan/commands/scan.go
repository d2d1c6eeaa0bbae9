package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/recipescan/internal/client"
	"github.com/jmylchreest/recipescan/internal/links"
	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/output"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract recipes from URLs or saved HTML",
	Long: `Fetch each URL and extract the recipe embedded in it.

Detectors run in priority order (JSON-LD, Next.js hydration data,
microdata); the first one that yields a named recipe wins. Fields the
page could not supply are reported as warnings.

Examples:
  # Several pages, three at a time
  recipescan scan -u "https://example.com/a" -u "https://example.com/b" -c 3

  # A saved page; -u fills the recipe URL when the page lacks one
  recipescan scan -f page.html -u "https://example.com/a"

  # Read HTML from stdin
  curl -s https://example.com/a | recipescan scan -f -

  # Scan every recipe linked from a listing page
  recipescan scan -u "https://example.com/recipes/" --follow ".card a" --max-urls 20

  # Let a running 'recipescan serve' do the work
  recipescan scan -u "https://example.com/a" --server http://localhost:8080`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	flags := scanCmd.Flags()

	// Inputs
	flags.StringSliceP("url", "u", nil, "URL(s) to scan (can be repeated)")
	flags.StringP("file", "f", "", "extract from an HTML file instead of fetching (- for stdin)")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, text")
	flags.Bool("include-metadata", true, "wrap each recipe with url, method and warnings (use --include-metadata=false to disable)")

	// Link discovery
	flags.String("follow", "", "CSS selector for recipe links on the given pages; scans the linked pages instead")
	flags.String("follow-pattern", "", "regex the followed URLs must match")
	flags.Int("max-urls", 0, "max followed URLs per page (0=unlimited)")

	flags.IntP("concurrency", "c", 3, "concurrent requests")
	flags.String("server", "", "extract through a recipescan server at this URL")

	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("server", flags.Lookup("server"))
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	urls, _ := cmd.Flags().GetStringSlice("url")
	urls = append(urls, args...)
	file, _ := cmd.Flags().GetString("file")
	if len(urls) == 0 && file == "" {
		return cmd.Help()
	}

	writer, closeOut, err := openWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	defer func() { _ = writer.Close() }()

	serverURL := viper.GetString("server")
	if file != "" {
		return scanFile(ctx, writer, file, urls, serverURL)
	}

	concurrency := viper.GetInt("concurrency")
	logger.Info("starting scan", "urls", len(urls), "concurrency", concurrency, "server", serverURL)

	var results <-chan *recipescan.Result
	if serverURL != "" {
		results = scanRemote(ctx, client.New(serverURL, viper.GetDuration("timeout")), urls)
	} else {
		scanner, err := newScanner(recipescan.WithConcurrency(max(concurrency, 1)))
		if err != nil {
			logger.Error("failed to initialize", "error", err)
			return err
		}
		defer func() { _ = scanner.Close() }()
		logger.Debug("scanner created", "detectors", scanner.Detectors())

		if follow, pattern := flagString(cmd, "follow"), flagString(cmd, "follow-pattern"); follow != "" || pattern != "" {
			maxURLs, _ := cmd.Flags().GetInt("max-urls")
			urls, err = followLinks(ctx, scanner, urls, follow, pattern, maxURLs)
			if err != nil {
				return err
			}
			logger.Info("following links", "urls", len(urls))
		}
		results = scanner.ScanMany(ctx, urls, concurrency)
	}

	count, errorCount := 0, 0
	for result := range results {
		if result.Error != nil {
			errorCount++
			logError("%s: %v", result.URL, result.Error)
			continue
		}
		if err := writer.Write(result); err != nil {
			logger.Error("failed to write output", "error", err)
			return err
		}
		count++
	}

	logger.Info("scan complete", "extracted", count, "errors", errorCount)
	if count == 0 && errorCount > 0 {
		return fmt.Errorf("no recipes extracted from %d url(s)", errorCount)
	}
	return nil
}

// scanFile extracts from a local HTML file. The first URL, if any, is the
// page's source URL.
func scanFile(ctx context.Context, writer output.Writer, path string, urls []string, serverURL string) error {
	html, err := readHTML(path)
	if err != nil {
		logger.Error("failed to read html", "path", path, "error", err)
		return err
	}

	var sourceURL string
	if len(urls) > 0 {
		sourceURL = urls[0]
	}

	var result *recipescan.Result
	if serverURL != "" {
		result, err = client.New(serverURL, viper.GetDuration("timeout")).ScanHTML(ctx, html, sourceURL)
	} else {
		scanner, serr := newScanner()
		if serr != nil {
			return serr
		}
		defer func() { _ = scanner.Close() }()
		result, err = scanner.ScanHTML(html, sourceURL)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return writer.Write(result)
}

// scanRemote scans urls one by one through a recipescan server.
func scanRemote(ctx context.Context, c *client.Client, urls []string) <-chan *recipescan.Result {
	results := make(chan *recipescan.Result, len(urls))
	go func() {
		defer close(results)
		for _, u := range urls {
			if ctx.Err() != nil {
				results <- &recipescan.Result{URL: u, Error: ctx.Err()}
				continue
			}
			result, err := c.Scan(ctx, u)
			if err != nil {
				results <- &recipescan.Result{URL: u, Error: err}
				continue
			}
			results <- result
		}
	}()
	return results
}

// followLinks fetches each page and returns the links it holds.
func followLinks(ctx context.Context, scanner *recipescan.Scanner, pages []string, css, pattern string, limit int) ([]string, error) {
	sel, err := links.NewSelector(css, pattern, limit)
	if err != nil {
		return nil, err
	}

	var found []string
	seen := make(map[string]bool)
	for _, page := range pages {
		content, err := scanner.Fetch(ctx, page)
		if err != nil {
			logError("%s: %v", page, err)
			continue
		}
		base := content.URL
		if base == "" {
			base = page
		}
		pageLinks, err := sel.Find(content.HTML, base)
		if err != nil {
			logError("%s: %v", page, err)
			continue
		}
		logger.Debug("links found", "page", page, "count", len(pageLinks))
		for _, u := range pageLinks {
			if !seen[u] {
				seen[u] = true
				found = append(found, u)
			}
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no links matched on %d page(s)", len(pages))
	}
	return found, nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func readHTML(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path) //#nosec G304 -- CLI reads the user-specified file
	return string(data), err
}

// openWriter creates the output writer from the --output and --format
// flags. The returned func closes the output file.
func openWriter(cmd *cobra.Command) (output.Writer, func(), error) {
	out := os.Stdout
	closeOut := func() {}
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return nil, nil, err
		}
		out = f
		closeOut = func() { _ = f.Close() }
	}

	formatStr, _ := cmd.Flags().GetString("format")
	metadata, _ := cmd.Flags().GetBool("include-metadata")
	writer, err := output.NewWriter(out, output.Format(formatStr), output.WithMetadata(metadata))
	if err != nil {
		closeOut()
		logger.Error("failed to create output writer", "format", formatStr, "error", err)
		return nil, nil, err
	}
	return writer, closeOut, nil
}
