package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/glueregen/internal/logfields"
)

// Default extension sets and capi conventions.
var (
	DefaultImplementationExtensions = []string{".cpp", ".mm"}
	DefaultHeaderExtensions         = []string{".h"}
)

const (
	DefaultCAPIDir    = "capi"
	DefaultCAPISuffix = "_c.h"
)

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	ImplementationExtensions []string
	HeaderExtensions         []string
	CAPIDir                  string // relative to the source root
	CAPISuffix               string
	Exclude                  []string // extra directory names excluded next to "examples"
	Logger                   *slog.Logger
}

// Classifier discovers and classifies files beneath a source root.
type Classifier struct {
	implExts   []string
	headerExts []string
	capiDir    string
	capiSuffix string
	exclude    []string
	logger     *slog.Logger
}

// New creates a Classifier with defaults filled in.
func New(opts Options) *Classifier {
	c := &Classifier{
		implExts:   opts.ImplementationExtensions,
		headerExts: opts.HeaderExtensions,
		capiDir:    opts.CAPIDir,
		capiSuffix: opts.CAPISuffix,
		exclude:    opts.Exclude,
		logger:     opts.Logger,
	}
	if len(c.implExts) == 0 {
		c.implExts = DefaultImplementationExtensions
	}
	if len(c.headerExts) == 0 {
		c.headerExts = DefaultHeaderExtensions
	}
	if c.capiDir == "" {
		c.capiDir = DefaultCAPIDir
	}
	if c.capiSuffix == "" {
		c.capiSuffix = DefaultCAPISuffix
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Sources returns the implementation files to include for platform, ordered
// capi, platform, foundation, core and by RelPath within each category.
func (c *Classifier) Sources(root string, platform Platform) ([]SourceFile, error) {
	if !platform.IsKnown() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, string(platform))
	}
	files, err := c.walk(root, c.implExts, ImplementationRules(platform, c.exclude...))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Classified implementation sources",
		logfields.Path(root),
		logfields.Platform(string(platform)),
		logfields.Count(len(files)))
	return files, nil
}

// Headers returns the C++ interface headers beneath root, excluding capi and
// platform directories.
func (c *Classifier) Headers(root string) ([]SourceFile, error) {
	files, err := c.walk(root, c.headerExts, HeaderRules(c.exclude...))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Classified C++ headers", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

// CAPIHeaders lists the capi headers directly inside <root>/<CAPIDir> whose
// names end in the capi suffix. Subdirectories are not searched.
func (c *Classifier) CAPIHeaders(root string) ([]SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
	}
	dir := filepath.Join(absRoot, filepath.FromSlash(c.capiDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, dir, err)
	}

	var files []SourceFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isHidden(name) || !strings.HasSuffix(name, c.capiSuffix) {
			continue
		}
		p := filepath.Join(dir, name)
		rel, _ := filepath.Rel(absRoot, p)
		files = append(files, SourceFile{
			Path:      p,
			RelPath:   filepath.ToSlash(rel),
			Extension: filepath.Ext(name),
			Category:  CategoryCAPI,
		})
	}
	Sort(files)
	c.logger.Debug("Classified C API headers", logfields.Path(dir), logfields.Count(len(files)))
	return files, nil
}

// walk enumerates files under root with one of exts and keeps those rules
// accept. A missing root yields an empty result.
func (c *Classifier) walk(root string, exts []string, rules RuleSet) ([]SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
	}
	if _, statErr := os.Stat(absRoot); errors.Is(statErr, fs.ErrNotExist) {
		c.logger.Debug("Source root not found", logfields.Path(absRoot))
		return nil, nil
	}

	seen := make(map[string]struct{})
	var files []SourceFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != absRoot && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(d.Name(), exts) {
			return nil
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		rule, ok := rules.Classify(rel)
		if !ok {
			if rule.Name != "" {
				c.logger.Debug("Excluded file", logfields.File(rel), logfields.Name(rule.Name))
			}
			return nil
		}
		files = append(files, SourceFile{
			Path:      path,
			RelPath:   rel,
			Extension: filepath.Ext(path),
			Category:  rule.Category,
			Platform:  rule.Platform,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, absRoot, err)
	}
	Sort(files)
	return files, nil
}

// Sort orders files by category rank, then RelPath.
func Sort(files []SourceFile) {
	sort.SliceStable(files, func(i, j int) bool {
		ri, rj := categoryRank(files[i].Category), categoryRank(files[j].Category)
		if ri != rj {
			return ri < rj
		}
		return files[i].RelPath < files[j].RelPath
	})
}

// Partition groups files by category, preserving order.
func Partition(files []SourceFile) map[Category][]SourceFile {
	out := make(map[Category][]SourceFile)
	for _, f := range files {
		out[f.Category] = append(out[f.Category], f)
	}
	return out
}

// Counts returns the number of files per category.
func Counts(files []SourceFile) map[Category]int {
	out := make(map[Category]int)
	for _, f := range files {
		out[f.Category]++
	}
	return out
}

func categoryRank(c Category) int {
	for i, o := range ImplementationOrder {
		if o == c {
			return i
		}
	}
	return len(ImplementationOrder)
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
