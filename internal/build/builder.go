// Package build compiles webflow source trees to HTML files.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/livefir/webflow"
	"github.com/livefir/webflow/internal/config"
	"github.com/livefir/webflow/internal/metrics"
)

// FileResult describes the outcome for one source file
type FileResult struct {
	Source      string        `json:"source"`
	Output      string        `json:"output,omitempty"`
	SourceBytes int           `json:"source_bytes"`
	OutputBytes int           `json:"output_bytes"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// Report lists the files processed by a build, sorted by source path
type Report struct {
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Succeeded returns the number of files written
func (r *Report) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files that did not compile
func (r *Report) Failed() int {
	return len(r.Files) - r.Succeeded()
}

// Builder compiles batches of files. Files are independent, so up to
// Config.Workers of them are compiled at once.
type Builder struct {
	Config   *config.Config
	Compiler *webflow.Compiler
	Metrics  *metrics.Collector
}

// NewBuilder creates a builder whose compiler follows cfg
func NewBuilder(cfg *config.Config, collector *metrics.Collector) *Builder {
	return &Builder{
		Config:   cfg,
		Compiler: NewCompiler(cfg, collector),
		Metrics:  collector,
	}
}

// NewCompiler creates a compiler with the indentation and minification
// settings of cfg.
func NewCompiler(cfg *config.Config, collector *metrics.Collector) *webflow.Compiler {
	opts := []webflow.Option{
		webflow.WithIndent(cfg.IndentString()),
		webflow.WithMinify(cfg.Minify),
	}
	if collector != nil {
		opts = append(opts, webflow.WithMetrics(collector))
	}
	return webflow.New(opts...)
}

type job struct {
	source string
	root   string // outputs mirror the source path relative to root
}

// Build compiles every file named in paths. Directories are searched with
// Discover. With no paths, Config.SourceDir is built.
//
// A failing file does not stop the others: every successful file is written
// and the failures are returned joined, one "path: error" per file.
func (b *Builder) Build(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()

	if len(paths) == 0 {
		paths = []string{b.Config.SourceDir}
	}
	jobs, err := b.collect(paths)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([]FileResult, 0, len(jobs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := b.buildFile(j)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	waitErr := g.Wait()

	sort.Slice(results, func(i, k int) bool {
		return results[i].Source < results[k].Source
	})
	report := &Report{Files: results, Duration: time.Since(start)}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}
	if waitErr != nil {
		errs = append(errs, waitErr)
	} else if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return report, errors.Join(errs...)
}

func (b *Builder) workers() int {
	if b.Config.Workers < 1 {
		return 1
	}
	return b.Config.Workers
}

func (b *Builder) collect(paths []string) ([]job, error) {
	var jobs []job
	seen := make(map[string]bool)

	add := func(source, root string) {
		if seen[source] {
			return
		}
		seen[source] = true
		jobs = append(jobs, job{source: source, root: root})
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if !info.IsDir() {
			add(filepath.Clean(path), filepath.Dir(path))
			continue
		}

		sources, err := Discover(path, b.Config.Recursive)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			add(source, path)
		}
	}
	return jobs, nil
}

func (b *Builder) buildFile(j job) FileResult {
	start := time.Now()
	result := FileResult{Source: j.source}

	if err := b.writeFile(j, &result); err != nil {
		result.Err = err
		b.count("files_failed")
	} else {
		b.count("files_written")
	}
	result.Duration = time.Since(start)
	return result
}

func (b *Builder) writeFile(j job, result *FileResult) error {
	src, err := os.ReadFile(j.source)
	if err != nil {
		return err
	}
	result.SourceBytes = len(src)

	html, err := b.Compiler.Compile(string(src))
	if err != nil {
		return err
	}

	out, err := OutputPath(b.Config, j.source, j.root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	result.Output = out
	result.OutputBytes = len(html)
	return nil
}

func (b *Builder) count(name string) {
	if b.Metrics != nil {
		b.Metrics.IncrementCustomCounter(name)
	}
}

// OutputPath maps a source file to its compiled file. With an out_dir the
// source path relative to root is mirrored below it; otherwise the output
// sits next to the source.
func OutputPath(cfg *config.Config, source, root string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + cfg.Extension
	if cfg.OutDir == "" {
		return filepath.Join(filepath.Dir(source), name), nil
	}

	rel, err := filepath.Rel(root, filepath.Dir(source))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s against %s: %w", source, root, err)
	}
	return filepath.Join(cfg.OutDir, rel, name), nil
}

// Discover returns the webflow sources below root in lexical order. Hidden
// directories, vendor and node_modules are skipped.
func Discover(root string, recursive bool) ([]string, error) {
	var sources []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == config.SourceExtension {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(sources)
	return sources, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".")
}
