package base

import (
	"bytes"
	"fmt"
	"io"
)

const STRUCTUREDFILE_DEFAULT_TAB = "  "

type StructuredFileFlags int32

const (
	STRUCTUREDFILE_NONE   StructuredFileFlags = 0
	STRUCTUREDFILE_MINIFY StructuredFileFlags = 1 << 0
)

type FileSite struct {
	Line   int
	Column int
}

func (si *FileSite) LineBreak() {
	si.Line++
	si.Column = 1
}

// StructuredFile is an indentation aware text writer. The first write error
// is kept and every later write becomes a no-op, check Err() when done.
type StructuredFile struct {
	indent string
	tab    string
	flags  StructuredFileFlags
	site   FileSite
	writer io.Writer
	err    error
}

func NewStructuredFile(writer io.Writer, tab string, minify bool) *StructuredFile {
	flags := STRUCTUREDFILE_NONE
	if minify {
		flags |= STRUCTUREDFILE_MINIFY
	}
	return &StructuredFile{
		indent: "",
		tab:    tab,
		flags:  flags,
		site: FileSite{
			Line:   1,
			Column: 1,
		},
		writer: writer,
	}
}

func (sf *StructuredFile) Minify() bool {
	return (sf.flags & STRUCTUREDFILE_MINIFY) == STRUCTUREDFILE_MINIFY
}
func (sf *StructuredFile) Err() error { return sf.err }

func (sf *StructuredFile) IndentIFN() {
	if sf.site.Column == 1 && len(sf.indent) > 0 {
		sf.site.Column += len(sf.indent)
		sf.emit(sf.indent)
	}
}
func (sf *StructuredFile) BeginIndent() {
	sf.indent += sf.tab
}
func (sf *StructuredFile) EndIndent() {
	sf.indent = sf.indent[:len(sf.indent)-len(sf.tab)]
}
func (sf *StructuredFile) ScopeIndent(infix func()) {
	if infix != nil {
		sf.LineBreak()
		sf.BeginIndent()
		infix()
		sf.LineBreak()
		sf.EndIndent()
	}
}

func (sf *StructuredFile) Print(format string, args ...interface{}) {
	sf.IndentIFN()
	sf.Print_NoIndent(format, args...)
}
func (sf *StructuredFile) Println(format string, args ...interface{}) {
	sf.IndentIFN()
	sf.Println_NoIndent(format, args...)
}
func (sf *StructuredFile) LineBreak() {
	if sf.site.Column > 1 {
		sf.site.LineBreak()
		sf.emit("\n")
	}
}
func (sf *StructuredFile) EmptyLine() {
	sf.LineBreak()
	sf.site.LineBreak()
	sf.emit("\n")
}

func (sf *StructuredFile) Print_NoIndent(format string, args ...interface{}) {
	txt := format
	if len(args) > 0 {
		txt = fmt.Sprintf(format, args...)
	}
	sf.site.Column += len(txt)
	sf.emit(txt)
}
func (sf *StructuredFile) Println_NoIndent(format string, args ...interface{}) {
	txt := format
	if len(args) > 0 {
		txt = fmt.Sprintf(format, args...)
	}
	sf.site.LineBreak()
	sf.emit(txt)
	sf.emit("\n")
}

// Write implements io.Writer, so raw text can be streamed in while keeping
// the current indentation after each line break.
func (sf *StructuredFile) Write(buf []byte) (int, error) {
	n := len(buf)
	for len(buf) > 0 {
		line := buf
		eol := bytes.IndexByte(buf, '\n')
		if eol >= 0 {
			line = buf[:eol]
		}
		if len(line) > 0 {
			sf.IndentIFN()
			sf.site.Column += len(line)
			sf.emit(UnsafeStringFromBytes(line))
		}
		if eol < 0 {
			break
		}
		sf.site.LineBreak()
		sf.emit("\n")
		buf = buf[eol+1:]
	}
	return n, sf.err
}

func (sf *StructuredFile) emit(txt string) {
	if sf.err == nil {
		_, sf.err = io.WriteString(sf.writer, txt)
	}
}
