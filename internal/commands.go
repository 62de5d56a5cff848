package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/starford/menutree/internal/mcpserver"
	"github.com/starford/menutree/internal/menu"
	"github.com/starford/menutree/internal/parser"
	"github.com/starford/menutree/internal/render"
	"github.com/starford/menutree/internal/storage"
)

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.logger()
	slog.SetDefault(logger)

	svc, closeDB, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if cfg.Tree.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := svc.Watch(watchCtx, cfg.Tree.Path, nil); err != nil {
				logger.Error("tree watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return mcpserver.New(svc, app.version).ServeStdio()
}

// Search prints the result of one query against the configured tree.
func Search(ctx context.Context, query string, showKeys bool, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	svc, closeDB, err := openCatalog(ctx, app.config, app.logger())
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := svc.Search(ctx, query)
	if err != nil {
		return err
	}
	return render.Result(app.output, res, app.theme(), showKeys)
}

// theme picks bracketed highlights when the output has no color support.
func (a *application) theme() render.Theme {
	r := lipgloss.NewRenderer(a.output)
	if r.ColorProfile() == termenv.Ascii {
		return render.PlainTheme(r)
	}
	return render.DefaultTheme(r)
}

// Report is the validation outcome of one tree document.
type Report struct {
	Path  string
	Nodes int
	Err   error
}

// Validate checks target, a tree document or a directory of them, and prints
// one line per document. It fails when any document is invalid.
func Validate(ctx context.Context, target string, opts ...Option) ([]Report, error) {
	app := newApplication(opts)

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	root, paths := filepath.Dir(target), []string{filepath.Base(target)}
	if info.IsDir() {
		root, paths = target, nil
	}
	store, err := storage.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if info.IsDir() {
		metas, err := store.List("")
		if err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
		for _, m := range metas {
			paths = append(paths, m.Path)
		}
	}

	reports := make([]Report, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			tree, err := readTree(store, p)
			reports[i] = Report{Path: p, Nodes: tree.Len(), Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed int
	for _, r := range reports {
		if r.Err != nil {
			failed++
			fmt.Fprintf(app.output, "FAIL %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(app.output, "ok   %s (%d nodes)\n", r.Path, r.Nodes)
	}
	if failed > 0 {
		return reports, fmt.Errorf("validate: %d of %d documents invalid", failed, len(reports))
	}
	if len(reports) == 0 {
		return reports, errors.New("validate: no tree documents found")
	}
	return reports, nil
}

func readTree(store storage.Provider, path string) (menu.Tree, error) {
	data, err := store.Read(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(path, data)
}
