package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/livefir/webflow"
	"github.com/livefir/webflow/internal/diff"
)

// Diff compiles two sources and compares the resulting documents
// structurally. Indentation differences are ignored.
func Diff(args []string) error {
	files, flags, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(files) != 2 {
		return fmt.Errorf("usage: webflow diff <old.webf> <new.webf> [--json]")
	}

	oldHTML, err := compileFile(files[0])
	if err != nil {
		return err
	}
	newHTML, err := compileFile(files[1])
	if err != nil {
		return err
	}

	result, err := diff.NewHTMLDiffer().Diff(oldHTML, newHTML)
	if err != nil {
		return err
	}

	if flags["--json"] == "true" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal diff: %w", err)
		}
		printLine(string(data))
		return nil
	}

	if len(result.Changes) == 0 {
		success("no structural changes")
		return nil
	}

	printLine(titleStyle.Render(fmt.Sprintf("%d changes (%s, %s)",
		result.Metadata.ChangeCount, result.Classification, result.Metadata.Complexity)))
	for _, change := range result.Changes {
		printLine("  " + change.String())
	}
	printf("%s\n", dimStyle.Render(fmt.Sprintf("elements: %d → %d",
		result.Metadata.OldElementCount, result.Metadata.NewElementCount)))
	return nil
}

func compileFile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	html, err := webflow.Compile(string(src))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return html, nil
}
