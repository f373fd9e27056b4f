package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/livefir/webflow/internal/build"
	"github.com/livefir/webflow/internal/metrics"
)

// Build compiles the given files and directories, or the configured source
// directory when none are given.
func Build(args []string) error {
	paths, flags, err := splitFlags(args, "--out")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out, ok := flags["--out"]; ok {
		cfg.OutDir = out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := metrics.NewCollector()
	report, err := build.NewBuilder(cfg, collector).Build(ctx, paths)
	if report == nil {
		return err
	}

	for _, f := range report.Files {
		if f.Err != nil {
			failure("%s: %v", f.Source, f.Err)
			continue
		}
		success("%s %s %s", f.Source, dimStyle.Render("→"), f.Output)
	}

	printLine()
	printf("Built %d of %d files in %s\n", report.Succeeded(), len(report.Files), report.Duration.Round(time.Microsecond))

	if flags["--stats"] == "true" {
		printLine()
		printStats(collector)
	}

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed to compile", failed, len(report.Files))
	}
	return err
}

func printStats(collector *metrics.Collector) {
	m := collector.GetMetrics()

	printLine(titleStyle.Render("Compiler statistics"))
	printf("  Compilations:      %d\n", m.Compilations)
	printf("  Failures:          %d (%.1f%%)\n", m.Failures, collector.GetErrorRate())
	printf("  Max concurrent:    %d\n", m.MaxConcurrent)
	printf("  Source bytes:      %d\n", m.SourceBytes)
	printf("  Output bytes:      %d\n", m.OutputBytes)
	printf("  Elements:          %d\n", m.Elements)
	printf("  Avg compile time:  %s\n", collector.GetAverageCompileTime())

	byKind := collector.GetFailuresByKind()
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		printf("    %-22s %d\n", kind+":", byKind[kind])
	}
}
