package embed

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/poppolopoppo/bin2cpp/internal/base"
	"github.com/poppolopoppo/bin2cpp/internal/io"
)

const (
	EMBED_BYTE_TYPE = "unsigned char"
	EMBED_DATA_TYPE = "const unsigned char*"
	EMBED_SIZE_TYPE = "std::size_t"
)

/***************************************
 * Embedded Resource
 ***************************************/

// EmbeddedResource is the unit consumed by Emit. Data holds the bytes to
// embed: the input file content, or its encoding when Compression is enabled.
type EmbeddedResource struct {
	Symbol           Symbol
	Source           string
	Data             []byte
	Digest           base.Fingerprint
	Compression      base.CompressionFormat
	UncompressedSize int
}

func NewEmbeddedResource(symbol Symbol, source string, raw []byte, options ...base.CompressionOptionFunc) (EmbeddedResource, error) {
	co := base.NewCompressionOptions(options...)
	data, err := base.CompressBytes(raw, base.CompressionOptionFormat(co.Format), base.CompressionOptionLevel(co.Level))
	if err != nil {
		return EmbeddedResource{}, fmt.Errorf("compress %q: %w", source, err)
	}

	if co.Format.Enabled() {
		base.LogVerbose(base.LogCompression, "compressed %q with %v: %v -> %v (%.1f%%)", source, co.Format,
			base.MakeSizeInBytes(len(raw)), base.MakeSizeInBytes(len(data)), base.Ratio(len(data), len(raw)))
	}

	return EmbeddedResource{
		Symbol:           symbol,
		Source:           source,
		Data:             data,
		Digest:           base.BytesFingerprint(raw),
		Compression:      co.Format,
		UncompressedSize: len(raw),
	}, nil
}

// Size is the value returned by the generated size accessor.
func (x EmbeddedResource) Size() int {
	return len(x.Data)
}

// Capacity is the declared array length: zero-length arrays are not valid
// C++, so empty resources are padded with one unreachable byte.
func (x EmbeddedResource) Capacity() int {
	if len(x.Data) == 0 {
		return 1
	}
	return len(x.Data)
}

/***************************************
 * Generated Artifact Pair
 ***************************************/

type GeneratedArtifactPair struct {
	Declarations string
	Definitions  string
}

/***************************************
 * Emitter
 ***************************************/

type EmitterOptions struct {
	Namespace    string
	BytesPerLine int
	Minify       bool
}

type EmitterOptionFunc func(*EmitterOptions)

func EmitterOptionNamespace(namespace string) EmitterOptionFunc {
	return func(eo *EmitterOptions) {
		eo.Namespace = namespace
	}
}
func EmitterOptionBytesPerLine(n int) EmitterOptionFunc {
	return func(eo *EmitterOptions) {
		eo.BytesPerLine = n
	}
}
func EmitterOptionMinify(enabled bool) EmitterOptionFunc {
	return func(eo *EmitterOptions) {
		eo.Minify = enabled
	}
}

func NewEmitterOptions(options ...EmitterOptionFunc) (result EmitterOptions) {
	for _, opt := range options {
		opt(&result)
	}
	return
}

// IncludeGuard derives the header guard token from the header base name only.
func IncludeGuard(headerBasename string) string {
	return "__" + strings.ToUpper(base.SanitizeIdentifier(headerBasename)) + "__"
}

// CompressionMacro is the name of the macro holding the codec of a header.
func CompressionMacro(headerBasename string) string {
	return strings.Trim(IncludeGuard(headerBasename), "_") + "_COMPRESSION"
}

func ValidateNamespace(namespace string) error {
	if len(namespace) == 0 {
		return nil
	}
	for _, it := range strings.Split(namespace, "::") {
		if !base.IsIdentifier(it) {
			return MakeArgumentError("invalid C++ namespace %q", namespace)
		}
	}
	return nil
}

// Emit composes the declarations and definitions artifacts, in the order of
// resources.
func Emit(resources []EmbeddedResource, headerBasename string, options ...EmitterOptionFunc) (GeneratedArtifactPair, error) {
	eo := NewEmitterOptions(options...)

	if len(headerBasename) == 0 {
		return GeneratedArtifactPair{}, MakeArgumentError("empty header file name")
	}
	if err := ValidateNamespace(eo.Namespace); err != nil {
		return GeneratedArtifactPair{}, err
	}

	compression, err := checkEmbeddedResources(resources)
	if err != nil {
		return GeneratedArtifactPair{}, err
	}

	declarations := strings.Builder{}
	if err := emitDeclarations(&declarations, resources, headerBasename, compression, eo); err != nil {
		return GeneratedArtifactPair{}, err
	}

	definitions := strings.Builder{}
	if err := emitDefinitions(&definitions, resources, headerBasename, eo); err != nil {
		return GeneratedArtifactPair{}, err
	}

	return GeneratedArtifactPair{
		Declarations: declarations.String(),
		Definitions:  definitions.String(),
	}, nil
}

func checkEmbeddedResources(resources []EmbeddedResource) (compression base.CompressionFormat, err error) {
	if len(resources) > 0 {
		compression = resources[0].Compression
	}

	symbols := NewSymbolTable(SymbolTableOptionCompressed(compression.Enabled()))
	for _, it := range resources {
		if !it.Symbol.Valid() {
			return compression, fmt.Errorf("resource %q has an invalid symbol %q", it.Source, it.Symbol)
		}
		if it.Compression != compression {
			return compression, fmt.Errorf("resource %q is encoded with %v while previous resources use %v", it.Source, it.Compression, compression)
		}
		if err := symbols.register(it.Symbol, it.Source); err != nil {
			return compression, err
		}
	}
	return compression, nil
}

func emitHeaderComment(cpp *io.CppFile, resources []EmbeddedResource) {
	cpp.Comment("generated by bin2cpp from %d resource(s), do not edit", len(resources))
}

func emitDeclarations(dst *strings.Builder, resources []EmbeddedResource, headerBasename string, compression base.CompressionFormat, eo EmitterOptions) error {
	cpp := io.NewCppFile(dst, eo.Minify)
	emitHeaderComment(cpp, resources)

	cpp.IncludeGuard(IncludeGuard(headerBasename), func() {
		cpp.EmptyLine()
		cpp.IncludeSystem("cstddef")
		cpp.EmptyLine()

		if compression.Enabled() {
			cpp.Define(CompressionMacro(headerBasename), strconv.Quote(compression.String()))
			cpp.EmptyLine()
		}

		cpp.Namespace(eo.Namespace, func() {
			for i, it := range resources {
				if i > 0 && !eo.Minify {
					cpp.EmptyLine()
				}
				cpp.Comment("%s", commentSafe(it.Symbol.Raw))
				cpp.FuncDecl(it.Symbol.DataAccessor(), EMBED_DATA_TYPE)
				cpp.FuncDecl(it.Symbol.SizeAccessor(), EMBED_SIZE_TYPE)
				if it.Compression.Enabled() {
					cpp.FuncDecl(it.Symbol.UncompressedSizeAccessor(), EMBED_SIZE_TYPE)
				}
			}
		})

		if !eo.Minify {
			cpp.EmptyLine()
		}
	})

	return cpp.Err()
}

func emitDefinitions(dst *strings.Builder, resources []EmbeddedResource, headerBasename string, eo EmitterOptions) error {
	cpp := io.NewCppFile(dst, eo.Minify)
	emitHeaderComment(cpp, resources)

	cpp.Include(headerBasename)
	cpp.EmptyLine()

	formatter := ByteFormatter{BytesPerLine: eo.BytesPerLine}

	cpp.Namespace(eo.Namespace, func() {
		for i, it := range resources {
			resource := it
			if i > 0 && !eo.Minify {
				cpp.EmptyLine()
			}
			if resource.Compression.Enabled() {
				cpp.Comment("%s: %d bytes, %v of %d bytes, sha256 %s", commentSafe(resource.Symbol.Raw),
					resource.Size(), resource.Compression, resource.UncompressedSize, resource.Digest.ShortString())
			} else {
				cpp.Comment("%s: %d bytes, sha256 %s", commentSafe(resource.Symbol.Raw),
					resource.Size(), resource.Digest.ShortString())
			}

			cpp.StaticArray(resource.Symbol.ArrayName(), EMBED_BYTE_TYPE, resource.Capacity(), formatter.Multiline(resource.Size()), func() {
				if resource.Size() > 0 {
					formatter.Format(cpp, resource.Data)
				} else {
					cpp.Print("0x00")
				}
			})

			cpp.Func(resource.Symbol.DataAccessor(), EMBED_DATA_TYPE, nil, "", func() {
				cpp.Statement("return %s", resource.Symbol.ArrayName())
			})
			cpp.Func(resource.Symbol.SizeAccessor(), EMBED_SIZE_TYPE, nil, "", func() {
				cpp.Statement("return %d", resource.Size())
			})
			if resource.Compression.Enabled() {
				cpp.Func(resource.Symbol.UncompressedSizeAccessor(), EMBED_SIZE_TYPE, nil, "", func() {
					cpp.Statement("return %d", resource.UncompressedSize)
				})
			}
		}
	})

	return cpp.Err()
}

// commentSafe keeps file names printable inside a // comment.
func commentSafe(in string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, in)
}

/***************************************
 * Definitions parser
 ***************************************/

// ExtractEmbeddedBytes reads back the bytes exposed for symbol by a
// definitions artifact: the array initializer truncated to the value
// returned by the size accessor.
func ExtractEmbeddedBytes(definitions string, symbol Symbol) ([]byte, error) {
	arrayDecl := " " + symbol.ArrayName() + "["
	start := strings.Index(definitions, arrayDecl)
	if start < 0 {
		return nil, fmt.Errorf("array %q not found", symbol.ArrayName())
	}
	rest := definitions[start+len(arrayDecl):]

	open := strings.Index(rest, "= {")
	end := strings.Index(rest, "};")
	if open < 0 || end < open {
		return nil, fmt.Errorf("array %q has no initializer", symbol.ArrayName())
	}
	data, err := ParseBytes(rest[open+len("= {") : end])
	if err != nil {
		return nil, fmt.Errorf("array %q: %w", symbol.ArrayName(), err)
	}

	size, err := extractReturnedInt(rest[end:], symbol.SizeAccessor())
	if err != nil {
		return nil, err
	}
	if size > len(data) {
		return nil, fmt.Errorf("accessor %q returns %d, but array %q only holds %d bytes", symbol.SizeAccessor(), size, symbol.ArrayName(), len(data))
	}
	return data[:size], nil
}

func extractReturnedInt(text, accessor string) (int, error) {
	start := strings.Index(text, " "+accessor+"()")
	if start < 0 {
		return 0, fmt.Errorf("accessor %q not found", accessor)
	}
	text = text[start:]

	ret := strings.Index(text, "return ")
	semi := strings.Index(text, ";")
	if ret < 0 || semi < ret {
		return 0, fmt.Errorf("accessor %q has no return statement", accessor)
	}
	return strconv.Atoi(strings.TrimSpace(text[ret+len("return ") : semi]))
}
