package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Platform string `short:"p" help:"Platform whose implementation files are listed" default:"macos" enum:"macos,ios,linux,windows,android,ohos"`
	Kind     string `short:"k" help:"File set to list" default:"sources" enum:"sources,headers,capi"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	return l.list(os.Stdout, cfg, pipeline.New(cfg, pipeline.WithLogger(g.logger())).Classifier())
}

func (l *ListCmd) list(w io.Writer, cfg *config.Config, c *classify.Classifier) error {
	dir := cfg.SourceDir()
	var (
		files []classify.SourceFile
		err   error
	)
	switch l.Kind {
	case "headers":
		files, err = c.Headers(dir)
	case "capi":
		files, err = c.CAPIHeaders(dir)
	default:
		platform, perr := classify.ParsePlatform(l.Platform)
		if perr != nil {
			return errors.ValidationError("unknown platform").WithCause(perr).WithContext("platform", l.Platform).Build()
		}
		files, err = c.Sources(dir, platform)
	}
	if err != nil {
		return errors.FileSystemError("cannot list source files").WithCause(err).WithContext("path", dir).Build()
	}

	if len(files) > 0 {
		table := newTable(w, "CATEGORY", "PLATFORM", "PATH")
		for _, f := range files {
			table.Append([]string{string(f.Category), f.Platform.String(), f.RelPath})
		}
		table.Render()
	}
	counts := classify.Counts(files)
	_, _ = fmt.Fprintf(w, "%d files", len(files))
	for _, cat := range append(append([]classify.Category(nil), classify.ImplementationOrder...), classify.CategoryCPPHeader) {
		if n := counts[cat]; n > 0 {
			_, _ = fmt.Fprintf(w, ", %s: %d", cat, n)
		}
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
