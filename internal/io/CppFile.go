package io

import (
	"io"
	"strings"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

// CppFile writes C/C++ source text through a base.StructuredFile.
type CppFile struct {
	*base.StructuredFile
}

func NewCppFile(dst io.Writer, minify bool) *CppFile {
	return &CppFile{
		StructuredFile: base.NewStructuredFile(dst, base.STRUCTUREDFILE_DEFAULT_TAB, minify),
	}
}

func (cpp *CppFile) Comment(format string, args ...interface{}) {
	if !cpp.Minify() {
		cpp.Println("// "+format, args...)
	}
}

func (cpp *CppFile) Define(name, value string) {
	cpp.Println("#define %s %s", name, value)
}
func (cpp *CppFile) Include(path string) {
	cpp.Println(`#include "%s"`, path)
}
func (cpp *CppFile) IncludeSystem(path string) {
	cpp.Println(`#include <%s>`, path)
}

// IncludeGuard wraps inner with #ifndef/#define/#endif on token.
func (cpp *CppFile) IncludeGuard(token string, inner func()) {
	cpp.Println_NoIndent("#ifndef " + token)
	cpp.Println_NoIndent("#define " + token)
	inner()
	cpp.LineBreak()
	cpp.Println_NoIndent("#endif // " + token)
}

func (cpp *CppFile) Statement(format string, args ...interface{}) {
	cpp.Println(format+";", args...)
}

func (cpp *CppFile) Closure(inner func(), suff ...string) {
	if inner != nil {
		if cpp.Minify() {
			cpp.Print("{")
		} else {
			cpp.Print(" {")
		}
		cpp.ScopeIndent(inner)
		cpp.Println(strings.Join(append([]string{"}"}, suff...), ""))
	} else {
		cpp.Println(";")
	}
}

// Namespace opens one C++ namespace per "::" separated part of name, an
// empty name writes inner at global scope.
func (cpp *CppFile) Namespace(name string, inner func()) {
	if len(name) == 0 {
		inner()
		return
	}
	parts := strings.Split(name, "::")
	for _, it := range parts {
		cpp.Println("namespace " + it + " {")
	}
	inner()
	cpp.LineBreak()
	for i := len(parts) - 1; i >= 0; i-- {
		cpp.Println("} //!namespace " + parts[i])
	}
}

// FuncDecl declares a function prototype.
func (cpp *CppFile) FuncDecl(name, result string, args ...string) {
	cpp.Func(name, result, args, "", nil)
}

func (cpp *CppFile) Func(name, result string, args []string, suffix string, inner func()) {
	if len(suffix) > 0 && suffix[0] != ' ' {
		suffix = " " + suffix
	}
	cpp.Print("%s %s(%s)%s", result, name, strings.Join(args, ", "), suffix)
	cpp.Closure(inner)
}

// StaticArray defines a file-local constant array, inner writes the
// initializer list content.
func (cpp *CppFile) StaticArray(name, elementType string, capacity int, multiline bool, inner func()) {
	cpp.Print("static const %s %s[%d] = {", elementType, name, capacity)
	if multiline {
		cpp.ScopeIndent(inner)
	} else {
		inner()
	}
	cpp.Println("};")
}
