// Command site-lint checks built pages against the markup the interaction
// controller expects and runs each page's entry initialization headlessly.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/contract"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "site-lint: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dir         string
	catalogPath string
	strict      bool
}

func run(args []string, out io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("site-lint", pflag.ContinueOnError)
	flagSet.StringVar(&opts.dir, "dir", "dist", "directory containing the built site")
	flagSet.StringVar(&opts.catalogPath, "catalog", "", "persona/pillar catalog YAML (default: built in)")
	flagSet.BoolVar(&opts.strict, "strict", false, "treat warnings as failures")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	catalog := content.Default()
	if opts.catalogPath != "" {
		loaded, err := content.Load(opts.catalogPath)
		if err != nil {
			return err
		}
		catalog = loaded
	}

	pages, err := findPages(opts.dir)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no .html files under %s", opts.dir)
	}

	issues, err := lint(context.Background(), contract.NewChecker(catalog), catalog, opts.dir, pages)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(out, issue)
	}
	fmt.Fprintf(out, "%d pages, %d issues\n", len(pages), len(issues))

	if contract.HasErrors(issues) || (opts.strict && len(issues) > 0) {
		return fmt.Errorf("contract check failed")
	}
	return nil
}

func findPages(root string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(pages)
	return pages, nil
}

// lint checks pages concurrently and returns issues in page order.
func lint(ctx context.Context, checker *contract.Checker, catalog *content.Catalog, root string, pages []string) ([]contract.Issue, error) {
	results := make([][]contract.Issue, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found, err := lintPage(checker, catalog, root, page)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var issues []contract.Issue
	for _, r := range results {
		issues = append(issues, r...)
	}
	return issues, nil
}

func lintPage(checker *contract.Checker, catalog *content.Catalog, root, page string) ([]contract.Issue, error) {
	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(page)))
	if err != nil {
		return nil, err
	}
	issues, err := checker.Check(page, strings.NewReader(string(src)))
	if err != nil {
		return nil, err
	}

	route := contract.RouteFor(page)
	routes := []string{route}
	if strings.Contains(route, "/projects") {
		for _, p := range catalog.Pillars {
			if p.ID != content.FilterAll {
				routes = append(routes, route+"?pillar="+p.ID)
			}
		}
	}
	for _, r := range routes {
		found, err := checker.Simulate(page, r, src)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}
