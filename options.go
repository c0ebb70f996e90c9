package texdoc

import (
	"io"
	"log/slog"

	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/render"
)

// BuildOptions holds the configuration of a Builder.
type BuildOptions struct {
	config *config.Config

	// Render plumbing
	logger   *slog.Logger
	progress io.Writer
	runner   render.Runner
}

// defaultOptions returns the default build options.
func defaultOptions() BuildOptions {
	return BuildOptions{
		config: config.Default(),
	}
}

// clone creates a deep copy of BuildOptions.
func (o BuildOptions) clone() BuildOptions {
	newOpts := BuildOptions{
		logger:   o.logger,
		progress: o.progress,
		runner:   o.runner,
	}

	// Deep copy the configuration and its slices
	if o.config != nil {
		cfg := *o.config
		cfg.Render.Args = append([]string(nil), o.config.Render.Args...)
		newOpts.config = &cfg
	}

	return newOpts
}
