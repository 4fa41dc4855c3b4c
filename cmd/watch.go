package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/codenav/internal/cachemanager"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/presentation"
	"github.com/zjrosen/codenav/internal/tracing"
	"github.com/zjrosen/codenav/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-check indentation every time a file is saved",
		Long: `Check the indentation of each FILE, then watch them and check again
after every save until interrupted. Reports for unchanged files are
served from a cache keyed by path, size and modification time.

Example:
  codenav watch src/main.cpp R/analysis.R`,
		Args: cobra.MinimumNArgs(1),
	}
	c.RunE = a.run("watch", func(ctx context.Context, args []string) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.watch(ctx, c.OutOrStdout(), args)
	})
	return c
}

// checker produces check reports through a cache of parsed files.
type checker struct {
	a       *app
	cache   *cachemanager.InMemoryCacheManager[cachemanager.FileKey, presentation.CheckDTO]
	reports *cachemanager.ReadThroughCache[cachemanager.FileKey, presentation.CheckDTO, string]
}

func newChecker(a *app) *checker {
	ttl := a.cfg.Cache.TTL
	cache := cachemanager.NewInMemoryCacheManager[cachemanager.FileKey, presentation.CheckDTO]("check", ttl, 2*ttl)
	ck := &checker{a: a, cache: cache}
	ck.reports = cachemanager.NewReadThroughCache(cache, ck.load, false)
	return ck
}

func (ck *checker) load(ctx context.Context, path string) (presentation.CheckDTO, error) {
	s, err := ck.a.open(ctx, path)
	if err != nil {
		return presentation.CheckDTO{}, err
	}
	defer s.Close()
	return s.check(ck.a, 0, s.doc.LineCount()-1), nil
}

func (ck *checker) check(ctx context.Context, path string) (presentation.CheckDTO, error) {
	key, err := cachemanager.KeyForFile(path, ck.a.cfg.Lexer.Engine)
	if err != nil {
		return presentation.CheckDTO{}, err
	}
	return ck.reports.Get(ctx, key, path, ck.a.cfg.Cache.TTL)
}

func (a *app) watch(ctx context.Context, out io.Writer, paths []string) error {
	ck := newChecker(a)
	report := func(path string) {
		res, err := ck.check(ctx, path)
		if err != nil {
			log.ErrorErr(log.CatWatcher, "check failed", err, "path", path)
			_, _ = fmt.Fprintf(out, "%s: %v\n", path, err)
			return
		}
		if err := a.emit(out, res, func(r *presentation.Renderer) error { return r.Check(res) }); err != nil {
			log.ErrorErr(log.CatWatcher, "writing report failed", err, "path", path)
		}
	}

	cfg := watcher.DefaultConfig(paths...)
	cfg.DebounceDur = a.cfg.Watch.Debounce
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}
	defer func() { _ = w.Stop() }()

	for _, p := range paths {
		report(p)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info(log.CatWatcher, "watch stopped", "files", len(paths))
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			for _, p := range change.Paths {
				tracing.AddEvent(ctx, tracing.EventFileChanged, attribute.String(tracing.AttrFile, p))
				report(p)
			}
		}
	}
}
