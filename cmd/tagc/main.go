package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/livefir/tagcompiler"
	"github.com/livefir/tagcompiler/cmd/tagc/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = tagcompiler.Version
	commit  = "unknown"
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
	case "compile":
		err = commands.Compile(args)
	case "scope":
		err = commands.Scope(args)
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
	fmt.Printf("tagc version %s\n", version)

	if info, ok := debug.ReadBuildInfo(); ok {
		revision := commit
		if revision == "unknown" {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					revision = setting.Value
				}
			}
		}
		if len(revision) > 12 {
			revision = revision[:12]
		}
		if revision != "unknown" && revision != "" {
			fmt.Printf("commit: %s\n", revision)
		}
		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println("Component template compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tagc compile <path>... [flags]   Compile component files or directories")
	fmt.Println("  tagc scope <tag> [file.css]      Scope a stylesheet to a tag (stdin when no file)")
	fmt.Println("  tagc version                     Show version information")
	fmt.Println()
	fmt.Println("Compile Flags:")
	fmt.Println("  --config <file>   Config file (default: ./.tagc.yaml when present)")
	fmt.Println("  --out <dir>       Write output to dir instead of next to the sources")
	fmt.Println("  --minify          Minify the generated CSS")
	fmt.Println("  --no-scope        Leave component styles unscoped")
	fmt.Println("  --map             Write a source map next to every output file")
	fmt.Println("  --debug           Log compiler decisions")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tagc compile src/components --out dist")
	fmt.Println("  tagc compile todo.tag --minify --map")
	fmt.Println("  echo ':host { display: block }' | tagc scope my-tag")
}
