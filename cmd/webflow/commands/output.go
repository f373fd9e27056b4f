package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/webflow/internal/config"
)

// stdout receives all command output
var stdout io.Writer = os.Stdout

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func printf(format string, args ...any) {
	fmt.Fprintf(stdout, format, args...)
}

func printLine(args ...any) {
	fmt.Fprintln(stdout, args...)
}

func success(format string, args ...any) {
	printLine(successStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func failure(format string, args ...any) {
	printLine(errorStyle.Render("✗") + " " + fmt.Sprintf(format, args...))
}

// loadConfig reads webflow.yaml from the working directory
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.ConfigFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// splitFlags separates boolean flags from positional arguments. Value flags
// listed in valued consume the following argument.
func splitFlags(args []string, valued ...string) (positional []string, flags map[string]string, err error) {
	flags = make(map[string]string)
	takesValue := make(map[string]bool, len(valued))
	for _, name := range valued {
		takesValue[name] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case takesValue[arg]:
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("flag %s requires a value", arg)
			}
			flags[arg] = args[i+1]
			i++ // skip value
		case len(arg) > 2 && arg[:2] == "--":
			flags[arg] = "true"
		default:
			positional = append(positional, arg)
		}
	}
	return positional, flags, nil
}
