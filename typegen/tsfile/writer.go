package tsfile

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Writer builds indented TypeScript source one line at a time.
type Writer struct {
	b     strings.Builder
	depth int
}

// Line writes one line at the current depth. An empty format writes a blank line.
func (w *Writer) Line(format string, args ...interface{}) {
	if format == "" {
		w.b.WriteString("\n")
		return
	}
	w.b.WriteString(strings.Repeat(indentUnit, w.depth))
	if len(args) == 0 {
		w.b.WriteString(format)
	} else {
		fmt.Fprintf(&w.b, format, args...)
	}
	w.b.WriteString("\n")
}

// Block writes open, runs body one level deeper, then writes close.
func (w *Writer) Block(open, close string, body func()) {
	w.Line(open)
	w.depth++
	body()
	w.depth--
	w.Line(close)
}

// Indent runs body one level deeper.
func (w *Writer) Indent(body func()) {
	w.depth++
	body()
	w.depth--
}

// Embed writes pre-rendered code line by line at the current depth.
func (w *Writer) Embed(code string) {
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		w.Line(line)
	}
}

// Docs writes a JSDoc comment when docs is non-empty.
func (w *Writer) Docs(docs string) {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return
	}
	lines := strings.Split(docs, "\n")
	if len(lines) == 1 {
		w.Line("/** %s */", escapeComment(lines[0]))
		return
	}
	w.Line("/**")
	for _, l := range lines {
		l = strings.TrimRight(escapeComment(l), " ")
		if l == "" {
			w.Line(" *")
		} else {
			w.Line(" * %s", l)
		}
	}
	w.Line(" */")
}

func escapeComment(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func (w *Writer) String() string { return w.b.String() }
