package javalang

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// EditScope stages byte-range edits against the file it was opened on and
// applies them in one splice. All offsets reference the original source;
// staged spans must not overlap. Commit validates the spliced result by
// reparsing it, so a scope either yields a structurally sound file or
// leaves the original untouched.
type EditScope struct {
	file    *File
	parser  *Parser
	edits   []edit
	imports map[string]bool
}

type edit struct {
	span Span
	text string
}

// NewEditScope opens an edit scope over the file.
func (f *File) NewEditScope(p *Parser) *EditScope {
	return &EditScope{file: f, parser: p, imports: make(map[string]bool)}
}

// Empty reports whether nothing has been staged.
func (s *EditScope) Empty() bool { return len(s.edits) == 0 }

// InsertAt stages text at a byte offset.
func (s *EditScope) InsertAt(off int, text string) {
	s.edits = append(s.edits, edit{span: Span{Start: off, End: off}, text: text})
}

// InsertAfter stages text immediately after the span.
func (s *EditScope) InsertAfter(sp Span, text string) { s.InsertAt(sp.End, text) }

// InsertBefore stages text immediately before the span.
func (s *EditScope) InsertBefore(sp Span, text string) { s.InsertAt(sp.Start, text) }

// Remove stages removal of the span.
func (s *EditScope) Remove(sp Span) {
	s.edits = append(s.edits, edit{span: sp})
}

// ReplaceRange stages replacement of the span with text.
func (s *EditScope) ReplaceRange(sp Span, text string) {
	s.edits = append(s.edits, edit{span: sp, text: text})
}

// RemoveMethod stages removal of a method together with its javadoc and
// the whitespace run before it, back to the previous token. Pairing this
// with an insertion that supplies its own leading blank line keeps
// remove-and-reinsert byte-stable.
func (s *EditScope) RemoveMethod(m *Method) {
	start := m.Span.Start
	if m.Javadoc != nil {
		start = m.Javadoc.Span.Start
	}
	floor := 0
	if m.Owner != nil {
		floor = m.Owner.LBrace + 1
	}
	src := s.file.Source
	for start > floor && isSpaceByte(src[start-1]) {
		start--
	}
	s.Remove(Span{Start: start, End: m.Span.End})
}

// AddImport stages an import declaration unless the path is already
// imported, covered by a wildcard, or staged in this scope. Reports
// whether an edit was staged.
func (s *EditScope) AddImport(path string) bool {
	if path == "" || s.imports[path] || s.file.HasImport(path) {
		return false
	}
	if !strings.HasSuffix(path, ".*") && packageOf(path) == "java.lang" {
		return false
	}
	s.imports[path] = true

	stmt := "import " + path + ";"
	switch {
	case len(s.file.Imports) > 0:
		last := s.file.Imports[len(s.file.Imports)-1]
		s.InsertAt(last.Span.End, "\n"+stmt)
	case !s.file.packageSpan.IsZero():
		s.InsertAt(s.file.packageSpan.End, "\n\n"+stmt)
	default:
		s.InsertAt(0, stmt+"\n\n")
	}
	return true
}

// Commit applies the staged edits and reparses the result. Overlapping
// edits and splices that break the file's structure are rejected with an
// error and no change. The returned File is the post-edit model; the
// caller owns writing it out.
func (s *EditScope) Commit() (*File, error) {
	if len(s.edits) == 0 {
		return s.file, nil
	}

	edits := make([]edit, len(s.edits))
	copy(edits, s.edits)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].span.Start != edits[j].span.Start {
			return edits[i].span.Start < edits[j].span.Start
		}
		return edits[i].span.Len() < edits[j].span.Len()
	})

	src := s.file.Source
	for i, e := range edits {
		if e.span.Start < 0 || e.span.End > len(src) || e.span.Start > e.span.End {
			return nil, fmt.Errorf("editing %s: edit span [%d,%d) out of range", s.file.Path, e.span.Start, e.span.End)
		}
		if i > 0 && edits[i-1].span.End > e.span.Start {
			return nil, fmt.Errorf("editing %s: overlapping edits at offset %d", s.file.Path, e.span.Start)
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + grownBy(edits))
	pos := 0
	for _, e := range edits {
		buf.Write(src[pos:e.span.Start])
		buf.WriteString(e.text)
		pos = e.span.End
	}
	buf.Write(src[pos:])

	next, err := s.parser.Parse(s.file.Path, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("editing %s: %w", s.file.Path, err)
	}
	if s.file.Valid() && !next.Valid() {
		return nil, fmt.Errorf("editing %s: edits produce syntactically invalid source", s.file.Path)
	}
	return next, nil
}

func grownBy(edits []edit) int {
	n := 0
	for _, e := range edits {
		n += len(e.text) - e.span.Len()
	}
	if n < 0 {
		return 0
	}
	return n
}

// MemberIndent returns the leading whitespace for members of the class,
// taken from the first existing member's line, or the class's own
// indentation plus four spaces for an empty body.
func (f *File) MemberIndent(c *Class) string {
	for _, m := range c.Members {
		if ind, ok := f.indentOfLine(m.StartWithDoc()); ok {
			return ind
		}
	}
	ind, _ := f.indentOfLine(c.Span.Start)
	return ind + "    "
}

// indentOfLine returns the whitespace prefix of the line containing off.
// ok is false when a token precedes off on its line, meaning the offset
// does not start the line.
func (f *File) indentOfLine(off int) (string, bool) {
	if off > len(f.Source) {
		off = len(f.Source)
	}
	lineStart := off
	for lineStart > 0 && f.Source[lineStart-1] != '\n' {
		lineStart--
	}
	i := lineStart
	for i < len(f.Source) && (f.Source[i] == ' ' || f.Source[i] == '\t') {
		i++
	}
	return string(f.Source[lineStart:i]), i >= off
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
