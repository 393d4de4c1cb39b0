// Objective CLI - inspects the class runtime and exercises the foundation classes
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/objective/foundation"
	"github.com/chazu/objective/manifest"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("objective")

func main() {
	configDir := flag.String("config", "", "Directory containing objective.toml (default: search upward from the working directory)")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: objective [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  classes                 Print the class hierarchy\n")
		fmt.Fprintf(os.Stderr, "  describe <Class>        Print a class's slot table and instance variables\n")
		fmt.Fprintf(os.Stderr, "  fetch <url>...          Fetch URLs with data tasks\n")
		fmt.Fprintf(os.Stderr, "  archive <word>...       Archive an Array of Strings and decode it again\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose && cfg.Log.Verbosity < 2 {
		cfg.Log.Verbosity = 2
	}
	cfg.Apply()

	readyClasses()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	switch args[0] {
	case "classes":
		handleClassesCommand()
	case "describe":
		handleDescribeCommand(args[1:])
	case "fetch":
		handleFetchCommand(args[1:], cfg)
	case "archive":
		handleArchiveCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

// loadConfig loads objective.toml from dir, or searches upward from the
// working directory when dir is empty. Without a file the defaults apply.
func loadConfig(dir string) (*manifest.Config, error) {
	if dir != "" {
		return manifest.Load(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := manifest.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return manifest.Default(), nil
	}
	log.Debugf("using %s/%s", cfg.Dir, manifest.FileName)
	return cfg, nil
}

// readyClasses builds every foundation table up front so the registry is
// complete.
func readyClasses() {
	for _, c := range foundation.Classes() {
		c.Ready()
	}
}
