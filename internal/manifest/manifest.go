// Package manifest renders classified source files into the text fragments
// spliced into generated files. Rendering is pure: the same files and target
// directory always produce byte-identical output.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/relpath"
)

// Header block comments.
const (
	CPPGuardOpen  = "#ifdef __cplusplus"
	CPPGuardClose = "#endif"
	CPPComment    = "// C++ API headers"
	CAPIComment   = "// C API headers (available for both C and C++)"
)

// Manifest is the rendered form of a file set relative to one target directory.
type Manifest struct {
	Lines  []string
	Counts map[classify.Category]int
}

// Text joins the lines, each terminated by a newline.
func (m Manifest) Text() string {
	if len(m.Lines) == 0 {
		return ""
	}
	return strings.Join(m.Lines, "\n") + "\n"
}

// Len is the number of files rendered.
func (m Manifest) Len() int {
	n := 0
	for _, c := range m.Counts {
		n += c
	}
	return n
}

// Hash fingerprints the rendered text.
func (m Manifest) Hash() string {
	sum := sha256.Sum256([]byte(m.Text()))
	return hex.EncodeToString(sum[:])
}

// Synthesizer renders manifests. Rel constrains the paths it will relativize.
type Synthesizer struct {
	Rel relpath.Relativizer
}

// Implementation renders one #include line per file in the fixed category
// order capi, platform, foundation, core, path-sorted within each category.
func (s Synthesizer) Implementation(files []classify.SourceFile, targetDir string) (Manifest, error) {
	ordered := append([]classify.SourceFile(nil), files...)
	classify.Sort(ordered)

	m := Manifest{Counts: make(map[classify.Category]int)}
	for _, f := range ordered {
		line, err := s.include(targetDir, f)
		if err != nil {
			return Manifest{}, err
		}
		m.Lines = append(m.Lines, line)
		m.Counts[f.Category]++
	}
	return m, nil
}

// Header renders the umbrella header body: C++ headers behind a __cplusplus
// guard followed by the unconditional capi headers.
func (s Synthesizer) Header(cpp, capi []classify.SourceFile, targetDir string) (Manifest, error) {
	cppLines, err := s.includes(targetDir, cpp)
	if err != nil {
		return Manifest{}, err
	}
	capiLines, err := s.includes(targetDir, capi)
	if err != nil {
		return Manifest{}, err
	}

	lines := []string{"", CPPGuardOpen, CPPComment}
	lines = append(lines, orBlank(cppLines)...)
	lines = append(lines, CPPGuardClose, "", CAPIComment)
	lines = append(lines, orBlank(capiLines)...)

	return Manifest{
		Lines: lines,
		Counts: map[classify.Category]int{
			classify.CategoryCPPHeader: len(cppLines),
			classify.CategoryCAPI:      len(capiLines),
		},
	}, nil
}

// orBlank keeps an empty include list as one blank line, the layout
// existing umbrella headers were generated with.
func orBlank(lines []string) []string {
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// ListItems renders each file as a double-quoted relative path, the value
// of one YAML list item.
func (s Synthesizer) ListItems(files []classify.SourceFile, baseDir string) (Manifest, error) {
	ordered := append([]classify.SourceFile(nil), files...)
	classify.Sort(ordered)

	m := Manifest{Counts: make(map[classify.Category]int)}
	for _, f := range ordered {
		rel, err := s.Rel.Rel(baseDir, f.Path)
		if err != nil {
			return Manifest{}, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		m.Lines = append(m.Lines, strconv.Quote(rel))
		m.Counts[f.Category]++
	}
	return m, nil
}

func (s Synthesizer) includes(targetDir string, files []classify.SourceFile) ([]string, error) {
	ordered := append([]classify.SourceFile(nil), files...)
	classify.Sort(ordered)
	lines := make([]string, 0, len(ordered))
	for _, f := range ordered {
		line, err := s.include(targetDir, f)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s Synthesizer) include(targetDir string, f classify.SourceFile) (string, error) {
	rel, err := s.Rel.Rel(targetDir, f.Path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.RelPath, err)
	}
	return IncludeLine(rel), nil
}

// IncludeLine formats a quoted include directive.
func IncludeLine(rel string) string {
	return `#include "` + rel + `"`
}

// Implementation renders with an unconstrained Synthesizer.
func Implementation(files []classify.SourceFile, targetDir string) (Manifest, error) {
	return Synthesizer{}.Implementation(files, targetDir)
}

// Header renders with an unconstrained Synthesizer.
func Header(cpp, capi []classify.SourceFile, targetDir string) (Manifest, error) {
	return Synthesizer{}.Header(cpp, capi, targetDir)
}

// ListItems renders with an unconstrained Synthesizer.
func ListItems(files []classify.SourceFile, baseDir string) (Manifest, error) {
	return Synthesizer{}.ListItems(files, baseDir)
}
