package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Anchor locates the editable region of a file and renders replacement
// lines into it.
type Anchor interface {
	// Pattern describes the anchor for error messages and logs.
	Pattern() string
	locate(src string) (span, error)
	render(s span, lines []string) string
}

// span is a half-open byte range of the source plus rendering hints.
type span struct {
	start, end int
	indent     string
	needsBreak bool // region starts at EOF right after a line without newline
}

// LineMarker anchors on the unique line equal to Text (trailing blanks
// ignored). The region runs from the line after it to EOF, or to the start
// of the unique Until line when Until is set.
type LineMarker struct {
	Text  string
	Until string
}

func (m LineMarker) Pattern() string {
	if m.Until == "" {
		return m.Text
	}
	return m.Text + " .. " + m.Until
}

func (m LineMarker) locate(src string) (span, error) {
	loc, err := uniqueLine(src, lineRegexp("", m.Text))
	if err != nil {
		return span{}, &AnchorError{Anchor: m.Text, Err: err}
	}
	s := span{start: loc[1], end: len(src)}
	if s.start == len(src) && !strings.HasSuffix(src[:loc[1]], "\n") {
		s.needsBreak = true
	}
	if m.Until != "" {
		rest := src[s.start:]
		until, err := uniqueLine(rest, lineRegexp("", m.Until))
		if err != nil {
			return span{}, &AnchorError{Anchor: m.Until, Err: err}
		}
		s.end = s.start + until[0]
	}
	return s, nil
}

func (m LineMarker) render(s span, lines []string) string {
	var b strings.Builder
	if s.needsBreak {
		b.WriteByte('\n')
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// ListSection anchors on the unique YAML-like header line "<Name>:" and
// covers the run of "- " list items directly beneath it. When Until is set
// the first non-blank line after the items must be the "<Until>:" key.
type ListSection struct {
	Name  string
	Until string
}

func (l ListSection) Pattern() string {
	if l.Until == "" {
		return l.Name + ":"
	}
	return l.Name + ": .. " + l.Until + ":"
}

func (l ListSection) locate(src string) (span, error) {
	loc, err := uniqueLine(src, lineRegexp(`[ \t]*`, l.Name+":"))
	if err != nil {
		return span{}, &AnchorError{Anchor: l.Name + ":", Err: err}
	}
	header := src[loc[0]:loc[1]]
	headerIndent := header[:len(header)-len(strings.TrimLeft(header, " \t"))]

	s := span{start: loc[1], indent: headerIndent + "  "}
	if s.start == len(src) && !strings.HasSuffix(header, "\n") {
		s.needsBreak = true
	}

	pos := s.start
	first := true
	for pos < len(src) {
		line, next := nextLine(src, pos)
		trimmed := strings.TrimLeft(line, " \t")
		if !isListItem(trimmed) {
			break
		}
		if first {
			s.indent = line[:len(line)-len(trimmed)]
			first = false
		}
		pos = next
	}
	s.end = pos

	if l.Until != "" {
		for pos < len(src) {
			line, next := nextLine(src, pos)
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				pos = next
				continue
			}
			if strings.HasPrefix(trimmed, l.Until+":") {
				return s, nil
			}
			break
		}
		return span{}, &AnchorError{
			Anchor: l.Pattern(),
			Err:    fmt.Errorf("%w: %q does not follow %q", ErrMarkerNotFound, l.Until+":", l.Name+":"),
		}
	}
	return s, nil
}

func (l ListSection) render(s span, lines []string) string {
	var b strings.Builder
	if s.needsBreak {
		b.WriteByte('\n')
	}
	for _, item := range lines {
		b.WriteString(s.indent)
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	return b.String()
}

func isListItem(trimmed string) bool {
	t := strings.TrimRight(trimmed, "\r\n")
	return t == "-" || strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "-\t")
}

// lineRegexp matches a whole line consisting of indent, text and optional
// trailing blanks, including its newline.
func lineRegexp(indent, text string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + indent + regexp.QuoteMeta(text) + `[ \t]*\r?(?:\n|\z)`)
}

func uniqueLine(src string, re *regexp.Regexp) ([]int, error) {
	matches := re.FindAllStringIndex(src, 2)
	switch len(matches) {
	case 0:
		return nil, ErrMarkerNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrAmbiguousMarker
	}
}

// nextLine returns the line starting at pos (including its newline) and the
// offset of the following line.
func nextLine(src string, pos int) (string, int) {
	i := strings.IndexByte(src[pos:], '\n')
	if i < 0 {
		return src[pos:], len(src)
	}
	return src[pos : pos+i+1], pos + i + 1
}
