package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/justyntemme/filedrop/internal/app"
	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/replay"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	acceptFlag := flag.String("accept", "", "Accept pattern overriding the config, e.g. \"image/*,.pdf\"")
	replayPath := flag.String("replay", "", "Run a recorded event trace headlessly and print each step")
	genConfig := flag.Bool("gen-config", false, "Back up the config file and write a fresh default")
	flag.Parse()

	if *genConfig {
		backup, err := config.GenerateConfig()
		if err != nil {
			log.Fatalf("gen-config: %v", err)
		}
		if backup != "" {
			fmt.Printf("Backed up existing config to %s\n", backup)
		}
		fmt.Printf("Wrote default config to %s\n", config.ConfigPath())
		return
	}

	if *replayPath != "" {
		if err := runReplay(os.Stdout, *replayPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	manageConsole(*debug)

	opts := app.Options{Debug: *debug}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "accept" {
			opts.Accept = acceptFlag
		}
	})
	app.Main(opts)
}

// runReplay plays the trace at path and writes one line per step
func runReplay(w io.Writer, path string) error {
	trace, err := replay.Load(path)
	if err != nil {
		return err
	}
	name := trace.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(w, "trace %s: frame=%s target=%s accept=%q\n", name, trace.Frame, trace.Target, trace.AcceptType)

	results, err := replay.Run(trace)
	for _, r := range results {
		fmt.Fprintln(w, r)
	}
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	fmt.Fprintf(w, "%d steps\n", len(results))
	return nil
}
