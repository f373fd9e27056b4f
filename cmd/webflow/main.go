package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/livefir/webflow/cmd/webflow/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "build":
		err = commands.Build(args)
	case "check":
		err = commands.Check(args)
	case "tokens":
		err = commands.Tokens(args)
	case "diff":
		err = commands.Diff(args)
	case "serve":
		err = commands.Serve(args)
	case "config":
		err = commands.Config(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("webflow version %s\n", version)

	if commit != "unknown" {
		fmt.Printf("commit: %s\n", commit)
	}
	if date != "unknown" {
		fmt.Printf("built: %s\n", date)
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && commit == "unknown" {
				rev := setting.Value
				if len(rev) > 12 {
					rev = rev[:12]
				}
				fmt.Printf("commit: %s\n", rev)
			}
		}
		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println("webflow compiles .webf markup to HTML")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  webflow build [<path>...] [--out <dir>] [--stats]   Compile files or directories")
	fmt.Println("  webflow check <file> [--dom]                       Validate a source file")
	fmt.Println("  webflow tokens <file>                              Print the token stream")
	fmt.Println("  webflow diff <old.webf> <new.webf> [--json]        Compare compiled documents")
	fmt.Println("  webflow serve [--addr <addr>] [--dir <dir>]        Run the live-reload dev server")
	fmt.Println("  webflow config init [--force]                      Write a default webflow.yaml")
	fmt.Println("  webflow config show                                Print the effective config")
	fmt.Println("  webflow version                                    Show version information")
	fmt.Println()
	fmt.Println("Configuration is read from webflow.yaml in the working directory.")
}
