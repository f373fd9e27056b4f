package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/livefir/webflow/internal/build"
	"github.com/livefir/webflow/internal/server"
)

// Serve runs the development server until interrupted
func Serve(args []string) error {
	_, flags, err := splitFlags(args, "--addr", "--dir")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, ok := flags["--addr"]; ok {
		cfg.Serve.Addr = addr
	}
	if dir, ok := flags["--dir"]; ok {
		cfg.SourceDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := server.New(cfg, build.NewCompiler(cfg, nil))
	httpServer := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx)
	})
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	success("Serving %s on %s", cfg.SourceDir, displayAddr(cfg.Serve.Addr))
	printLine(dimStyle.Render("Pages reload when a source file changes. Press Ctrl+C to stop."))

	return g.Wait()
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
