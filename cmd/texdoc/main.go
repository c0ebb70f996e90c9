// Command texdoc builds LaTeX documents from YAML manifests, Markdown or
// HTML and typesets them with a LaTeX engine.
//
// Usage:
//
//	texdoc print  [options] <source>        write the LaTeX source to stdout
//	texdoc export [options] -o out.tex <source>
//	texdoc render [options] [-o out.pdf] <source>
//	texdoc map    [options] <source>        outline the document tree
//	texdoc config [-o texdoc.yaml]          write the default configuration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/texdoc"
	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runWithArgs(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: texdoc <command> [options] <source>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  print     write the LaTeX source to stdout")
	fmt.Fprintln(w, "  export    write the LaTeX source to a file")
	fmt.Fprintln(w, "  render    typeset the document as PDF")
	fmt.Fprintln(w, "  map       outline the document tree")
	fmt.Fprintln(w, "  config    write the default configuration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources are YAML manifests (.yaml), Markdown (.md) or HTML (.html).")
}

func runWithArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	command, args := args[0], args[1:]

	switch command {
	case "print", "export", "render", "map", "config":
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n", command)
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet("texdoc "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file (default texdoc.yaml if present)")
	output := fs.String("o", "", "output file")
	engine := fs.String("engine", "", "LaTeX engine, overrides the configuration")
	keep := fs.Bool("keep", false, "keep the render job directory")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if command == "config" {
		return writeConfig(*output, stdout, stderr)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: exactly one source file is required")
		fs.Usage()
		return 2
	}
	source := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *engine != "" {
		cfg.Render.Engine = *engine
	}
	if *keep {
		cfg.Render.Keep = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	b := texdoc.FromConfig(source, cfg).Logger(logger)

	switch command {
	case "print":
		tex, err := b.Tex()
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprint(stdout, tex)

	case "map":
		if err := b.Map(stdout); err != nil {
			return fail(stderr, err)
		}

	case "export":
		if *output == "" {
			fmt.Fprintln(stderr, "error: -o is required for export")
			return 2
		}
		if err := b.Export(*output); err != nil {
			return fail(stderr, err)
		}
		logger.Info("source written", "path", *output)

	case "render":
		dest := *output
		if dest == "" {
			dest = strings.TrimSuffix(source, filepath.Ext(source)) + ".pdf"
		}
		res, err := b.Progress(stderr).Render(ctx, dest)
		if err != nil {
			var ee *render.EngineError
			if errors.As(err, &ee) && ee.Output != "" {
				fmt.Fprintln(stderr, ee.Output)
			}
			return fail(stderr, err)
		}
		logger.Debug("render finished", "job", res.JobID, "duration", res.Duration)
	}
	return 0
}

// loadConfig reads path, or texdoc.yaml in the working directory when
// path is empty, and applies environment overrides.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault("texdoc.yaml")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeConfig(path string, stdout, stderr io.Writer) int {
	cfg := config.Default()
	if path == "" {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fail(stderr, err)
		}
		if err := enc.Close(); err != nil {
			return fail(stderr, err)
		}
		return 0
	}
	if err := cfg.Save(path); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}
