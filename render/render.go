// Package render turns LaTeX source into a PDF with an external engine.
//
// A render job exports the source into a fresh job directory, runs the
// engine several times so the table of contents and cross-references
// settle, moves the produced PDF to its destination and removes the
// intermediate files.
//
//	r, err := render.New(render.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	res, err := r.Render(ctx, doc, "report.pdf")
//
// Any engine failure aborts the job. The job directory is then kept and
// its path is part of the error, so the engine log can be inspected.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultEngine is the typesetting engine used when none is configured.
	// The default preamble loads fontspec, which needs XeLaTeX or LuaLaTeX.
	DefaultEngine = "xelatex"
	// DefaultPasses is the number of engine runs per job.
	DefaultPasses = 3
	// jobBase is the file name, without extension, of the job's source.
	jobBase = "output"
)

// Byproducts are the intermediate file extensions removed after a job.
var Byproducts = []string{".aux", ".log", ".out", ".toc", ".lof", ".lot", ".tex"}

var (
	// ErrNoOutput is returned when the engine succeeds without producing a PDF.
	ErrNoOutput = errors.New("render: engine produced no PDF")
	// ErrInvalidConfig is returned by New for unusable settings.
	ErrInvalidConfig = errors.New("render: invalid configuration")
)

// Source is anything that can write LaTeX source to a file.
// *latex.Document satisfies it.
type Source interface {
	Export(path string) error
}

// Tex is LaTeX source held in memory.
type Tex string

// Export implements Source.
func (t Tex) Export(path string) error {
	return os.WriteFile(path, []byte(t), 0o644)
}

// Config configures a Renderer.
type Config struct {
	// Engine is the command to run.
	Engine string
	// Args precede the source file name on every engine run.
	Args []string
	// Passes is the number of engine runs, at least one.
	Passes int
	// WorkDir is where job directories are created. Empty means the
	// system temporary directory.
	WorkDir string
	// JobName names the job directory. Empty means a random UUID.
	JobName string
	// Keep leaves the job directory in place after a successful render.
	Keep bool
	// Runner executes the engine. Nil means ExecRunner.
	Runner Runner
	// Logger receives structured progress records. Nil discards them.
	Logger *slog.Logger
	// Progress, when set, receives human readable pass updates.
	Progress io.Writer
	// IsTTY overrides terminal detection for Progress.
	IsTTY *bool
}

// DefaultConfig returns the configuration of a plain XeLaTeX job.
func DefaultConfig() Config {
	return Config{
		Engine: DefaultEngine,
		Args:   []string{"-interaction=nonstopmode", "-halt-on-error"},
		Passes: DefaultPasses,
	}
}

// Result describes a finished job.
type Result struct {
	JobID    string
	JobDir   string
	Output   string
	Passes   int
	Duration time.Duration
}

// EngineError reports a failed engine run.
type EngineError struct {
	Pass   int
	JobDir string
	// Output is the tail of the engine's console output.
	Output string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("render: engine pass %d failed (job dir %s): %v", e.Pass, e.JobDir, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Renderer runs render jobs. A Renderer holds no per-job state and may be
// used for several jobs in turn.
type Renderer struct {
	cfg    Config
	runner Runner
	log    *slog.Logger
}

// New validates cfg and returns a Renderer.
func New(cfg Config) (*Renderer, error) {
	if strings.TrimSpace(cfg.Engine) == "" {
		return nil, fmt.Errorf("%w: engine is empty", ErrInvalidConfig)
	}
	if cfg.Passes < 1 {
		return nil, fmt.Errorf("%w: passes must be at least 1, got %d", ErrInvalidConfig, cfg.Passes)
	}

	r := &Renderer{cfg: cfg, runner: cfg.Runner, log: cfg.Logger}
	if r.runner == nil {
		r.runner = ExecRunner{}
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r, nil
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render exports src, typesets it and moves the PDF to dest.
func (r *Renderer) Render(ctx context.Context, src Source, dest string) (*Result, error) {
	start := time.Now()

	jobID := r.cfg.JobName
	if jobID == "" {
		jobID = uuid.New().String()
	}
	workDir := r.cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	jobDir := filepath.Join(workDir, "texdoc-"+jobID)
	log := r.log.With("job", jobID)

	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating job directory: %w", err)
	}

	texFile := jobBase + ".tex"
	if err := src.Export(filepath.Join(jobDir, texFile)); err != nil {
		os.RemoveAll(jobDir)
		return nil, fmt.Errorf("exporting source: %w", err)
	}
	log.Debug("source exported", "dir", jobDir)

	prog := newProgress(r.cfg.Progress, r.cfg.IsTTY)
	args := append(append([]string(nil), r.cfg.Args...), texFile)

	for pass := 1; pass <= r.cfg.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render: job %s: %w", jobID, err)
		}
		prog.update("%s pass %d/%d", r.cfg.Engine, pass, r.cfg.Passes)
		log.Info("engine pass", "engine", r.cfg.Engine, "pass", pass, "of", r.cfg.Passes)

		out, err := r.runner.Run(ctx, jobDir, r.cfg.Engine, args...)
		if err != nil {
			prog.done("%s pass %d/%d failed", r.cfg.Engine, pass, r.cfg.Passes)
			log.Error("engine pass failed", "pass", pass, "err", err, "dir", jobDir)
			return nil, &EngineError{Pass: pass, JobDir: jobDir, Output: tail(out, 20), Err: err}
		}
	}

	pdf := filepath.Join(jobDir, jobBase+".pdf")
	if _, err := os.Stat(pdf); err != nil {
		return nil, fmt.Errorf("%w (job dir %s)", ErrNoOutput, jobDir)
	}

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating destination directory: %w", err)
		}
	}
	if err := moveFile(pdf, dest); err != nil {
		return nil, fmt.Errorf("moving PDF: %w", err)
	}
	log.Info("pdf written", "dest", dest)

	if !r.cfg.Keep {
		if err := cleanup(jobDir); err != nil {
			log.Warn("cleanup failed", "dir", jobDir, "err", err)
		}
	}

	res := &Result{
		JobID:    jobID,
		JobDir:   jobDir,
		Output:   dest,
		Passes:   r.cfg.Passes,
		Duration: time.Since(start),
	}
	prog.done("%s: %d passes in %.1fs", dest, res.Passes, res.Duration.Seconds())
	return res, nil
}

// cleanup removes the known byproducts, tolerating missing ones, then the
// job directory itself.
func cleanup(jobDir string) error {
	for _, ext := range Byproducts {
		err := os.Remove(filepath.Join(jobDir, jobBase+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return os.RemoveAll(jobDir)
}

// moveFile renames src to dst, copying when a rename is not possible,
// for example across file systems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// tail returns the last n lines of out.
func tail(out []byte, n int) string {
	lines := bytes.Split(bytes.TrimRight(out, "\n"), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
