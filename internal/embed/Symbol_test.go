package embed

import (
	"errors"
	"testing"
)

func TestDeriveSymbol(t *testing.T) {
	tests := []struct {
		path string
		raw  string
		want string
	}{
		{"shader_a.spv", "shader_a.spv", "shader_a_spv"},
		{"build/shaders/shader_b.spv", "shader_b.spv", "shader_b_spv"},
		{`C:\build\shaders\matmul.comp.spv`, "matmul.comp.spv", "matmul_comp_spv"},
		{"my-file.bin", "my-file.bin", "my_file_bin"},
		{"0weights.bin", "0weights.bin", "_0weights_bin"},
		{"dir/", "dir", "dir"},
		{"/", "/", "_"},
	}
	for _, tt := range tests {
		symbol, err := DeriveSymbol(tt.path)
		if err != nil {
			t.Fatalf("DeriveSymbol(%q) failed: %v", tt.path, err)
		}
		if symbol.Raw != tt.raw {
			t.Errorf("DeriveSymbol(%q).Raw = %q, want %q", tt.path, symbol.Raw, tt.raw)
		}
		if symbol.Sanitized != tt.want {
			t.Errorf("DeriveSymbol(%q).Sanitized = %q, want %q", tt.path, symbol.Sanitized, tt.want)
		}
		if !symbol.Valid() {
			t.Errorf("DeriveSymbol(%q) = %q is not a valid identifier", tt.path, symbol)
		}
	}
}

func TestDeriveSymbolIsDeterministic(t *testing.T) {
	a, _ := DeriveSymbol("shaders/shader_a.spv")
	b, _ := DeriveSymbol("shaders/shader_a.spv")
	if a != b {
		t.Errorf("expected identical symbols, got %v and %v", a, b)
	}
}

func TestDeriveSymbolEmptyPath(t *testing.T) {
	_, err := DeriveSymbol("")
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("expected an ArgumentError, got %v", err)
	}
}

func TestSymbolNames(t *testing.T) {
	symbol, _ := DeriveSymbol("shader_a.spv")
	if got := symbol.ArrayName(); got != "embedded_shader_a_spv" {
		t.Errorf("ArrayName() = %q", got)
	}
	if got := symbol.DataAccessor(); got != "get_shader_a_spv_data" {
		t.Errorf("DataAccessor() = %q", got)
	}
	if got := symbol.SizeAccessor(); got != "get_shader_a_spv_size" {
		t.Errorf("SizeAccessor() = %q", got)
	}
	if got := symbol.UncompressedSizeAccessor(); got != "get_shader_a_spv_uncompressed_size" {
		t.Errorf("UncompressedSizeAccessor() = %q", got)
	}
}

func TestSymbolTableCollision(t *testing.T) {
	table := NewSymbolTable()
	if _, err := table.Add("a/shader.spv"); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Add("a/other.spv"); err != nil {
		t.Fatal(err)
	}

	_, err := table.Add("b/shader.spv")
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected a CollisionError, got %v", err)
	}
	if collision.Symbol != "shader_spv" || collision.First != "a/shader.spv" || collision.Second != "b/shader.spv" {
		t.Errorf("unexpected collision: %+v", collision)
	}

	if table.Len() != 2 {
		t.Errorf("expected the colliding input to be rejected, got %d symbols", table.Len())
	}
	if source, ok := table.Source("shader_spv"); !ok || source != "a/shader.spv" {
		t.Errorf("Source(shader_spv) = %q, %v", source, ok)
	}
}

func TestSymbolTableSanitizedCollision(t *testing.T) {
	table := NewSymbolTable()
	table.Add("a.b")
	_, err := table.Add("a-b")

	var collision *CollisionError
	if !errors.As(err, &collision) || collision.Symbol != "a_b" {
		t.Errorf("expected a collision on a_b, got %v", err)
	}
}

func TestSymbolTableSamePathTwice(t *testing.T) {
	table := NewSymbolTable()
	table.Add("shader.spv")
	_, err := table.Add("shader.spv")

	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected a CollisionError, got %v", err)
	}
	if collision.Error() != `symbol collision: "shader.spv" is given twice (symbol "shader_spv")` {
		t.Errorf("unexpected message: %v", collision)
	}
}

func TestSymbolTableKeepsOrder(t *testing.T) {
	table := NewSymbolTable()
	inputs := []string{"z.bin", "a.bin", "m.bin"}
	for _, it := range inputs {
		if _, err := table.Add(it); err != nil {
			t.Fatal(err)
		}
	}
	for i, it := range table.Symbols() {
		if it.Raw != inputs[i] {
			t.Errorf("symbol #%d = %q, want %q", i, it.Raw, inputs[i])
		}
	}
}

func TestSymbolTableAccessorCollision(t *testing.T) {
	table := NewSymbolTable(SymbolTableOptionCompressed(true))
	if _, err := table.Add("a"); err != nil {
		t.Fatal(err)
	}
	_, err := table.Add("a_uncompressed")

	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected a CollisionError, got %v", err)
	}
	if collision.Identifier != "get_a_uncompressed_size" || collision.First != "a" || collision.Second != "a_uncompressed" {
		t.Errorf("unexpected collision: %+v", collision)
	}

	// without codec there is no uncompressed size accessor to share
	plain := NewSymbolTable()
	plain.Add("a")
	if _, err := plain.Add("a_uncompressed"); err != nil {
		t.Errorf("expected no collision without compression, got %v", err)
	}
}
