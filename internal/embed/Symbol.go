package embed

import (
	"strings"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

var LogEmbed = base.NewLogCategory("Embed")

/***************************************
 * Symbol
 ***************************************/

// Symbol is the identifier under which one resource is exposed: Raw is the
// base name of the input path, Sanitized the C identifier derived from it.
type Symbol struct {
	Raw       string
	Sanitized string
}

// DeriveSymbol is pure: the same path always gives the same symbol.
func DeriveSymbol(path string) (Symbol, error) {
	if len(path) == 0 {
		return Symbol{}, MakeArgumentError("empty input path")
	}

	raw := PathBasename(path)
	return Symbol{
		Raw:       raw,
		Sanitized: base.SanitizeIdentifier(raw),
	}, nil
}

// PathBasename returns the last component of path, honoring both '/' and '\'
// separators. Trailing separators are ignored, a path made only of separators
// gives its first character.
func PathBasename(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if len(trimmed) == 0 {
		return path[:1]
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func (x Symbol) Valid() bool       { return base.IsIdentifier(x.Sanitized) }
func (x Symbol) String() string    { return x.Sanitized }
func (x Symbol) ArrayName() string { return "embedded_" + x.Sanitized }

func (x Symbol) DataAccessor() string { return "get_" + x.Sanitized + "_data" }
func (x Symbol) SizeAccessor() string { return "get_" + x.Sanitized + "_size" }
func (x Symbol) UncompressedSizeAccessor() string {
	return "get_" + x.Sanitized + "_uncompressed_size"
}

// Identifiers lists every C++ name defined for x, compressed resources get an
// extra accessor.
func (x Symbol) Identifiers(compressed bool) []string {
	result := []string{x.ArrayName(), x.DataAccessor(), x.SizeAccessor()}
	if compressed {
		result = append(result, x.UncompressedSizeAccessor())
	}
	return result
}

/***************************************
 * Symbol Table
 ***************************************/

// SymbolTable maps every derived symbol, and every identifier generated from
// it, to the input path which claimed it first. It lives for one invocation
// only.
type SymbolTable struct {
	compressed  bool
	sources     map[string]string
	identifiers map[string]string
	symbols     []Symbol
}

type SymbolTableOptionFunc func(*SymbolTable)

// SymbolTableOptionCompressed reserves the uncompressed size accessor of each
// symbol too.
func SymbolTableOptionCompressed(enabled bool) SymbolTableOptionFunc {
	return func(st *SymbolTable) {
		st.compressed = enabled
	}
}

func NewSymbolTable(options ...SymbolTableOptionFunc) *SymbolTable {
	result := &SymbolTable{
		sources:     make(map[string]string),
		identifiers: make(map[string]string),
	}
	for _, opt := range options {
		opt(result)
	}
	return result
}

func (x *SymbolTable) Len() int          { return len(x.symbols) }
func (x *SymbolTable) Symbols() []Symbol { return x.symbols }

// Add derives the symbol of path and registers it, or returns a
// CollisionError naming both inputs if the symbol, or one of the identifiers
// generated for it, is already taken.
func (x *SymbolTable) Add(path string) (Symbol, error) {
	symbol, err := DeriveSymbol(path)
	if err != nil {
		return Symbol{}, err
	}
	if err := x.register(symbol, path); err != nil {
		return Symbol{}, err
	}

	base.LogDebug(LogEmbed, "derived symbol %q from %q", symbol, path)
	return symbol, nil
}

func (x *SymbolTable) register(symbol Symbol, source string) error {
	if first, ok := x.sources[symbol.Sanitized]; ok {
		return &CollisionError{
			Symbol: symbol.Sanitized,
			First:  first,
			Second: source,
		}
	}

	identifiers := symbol.Identifiers(x.compressed)
	for _, it := range identifiers {
		if first, ok := x.identifiers[it]; ok {
			return &CollisionError{
				Symbol:     symbol.Sanitized,
				Identifier: it,
				First:      first,
				Second:     source,
			}
		}
	}

	x.sources[symbol.Sanitized] = source
	for _, it := range identifiers {
		x.identifiers[it] = source
	}
	x.symbols = append(x.symbols, symbol)
	return nil
}

// Source returns the input path which registered symbol.
func (x *SymbolTable) Source(symbol string) (string, bool) {
	path, ok := x.sources[symbol]
	return path, ok
}
