package commands

import (
	"fmt"
	"os"

	"github.com/livefir/webflow"
	"github.com/livefir/webflow/internal/build"
	"github.com/livefir/webflow/internal/diff"
)

// Check validates a source file without writing any output
func Check(args []string) error {
	files, flags, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("usage: webflow check <file> [--dom]")
	}
	file := files[0]

	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	compiler := build.NewCompiler(cfg, nil)

	elements, err := compiler.Check(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	success("%s: %d elements", file, elements)

	if flags["--dom"] != "true" {
		return nil
	}

	html, err := compiler.Compile(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	count, err := diff.CountBrowserElements(html)
	if err != nil {
		return fmt.Errorf("failed to parse compiled HTML: %w", err)
	}
	printf("  DOM elements after HTML parsing: %d\n", count)
	return nil
}

// Tokens prints the token stream of a source file
func Tokens(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: webflow tokens <file>")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	tokens, err := webflow.Lex(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	for i, tok := range tokens {
		printf("%4d  %6d  %-9s %q\n", i, tok.Offset, tok.Type, tok.Text)
	}
	return nil
}
