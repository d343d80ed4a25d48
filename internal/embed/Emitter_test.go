package embed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

func newTestResource(t *testing.T, path string, data []byte, options ...base.CompressionOptionFunc) EmbeddedResource {
	t.Helper()
	symbol, err := DeriveSymbol(path)
	if err != nil {
		t.Fatal(err)
	}
	resource, err := NewEmbeddedResource(symbol, path, data, options...)
	if err != nil {
		t.Fatal(err)
	}
	return resource
}

func newShaderResources(t *testing.T) []EmbeddedResource {
	return []EmbeddedResource{
		newTestResource(t, "shader_a.spv", []byte{0x01, 0x02, 0x03, 0x04}),
		newTestResource(t, "shader_b.spv", []byte{0xFF}),
	}
}

func TestEmitShaders(t *testing.T) {
	artifacts, err := Emit(newShaderResources(t), "vkllama_comp_shaders.h")
	if err != nil {
		t.Fatal(err)
	}

	wantDeclarations := `// generated by bin2cpp from 2 resource(s), do not edit
#ifndef __VKLLAMA_COMP_SHADERS_H__
#define __VKLLAMA_COMP_SHADERS_H__

#include <cstddef>

// shader_a.spv
const unsigned char* get_shader_a_spv_data();
std::size_t get_shader_a_spv_size();

// shader_b.spv
const unsigned char* get_shader_b_spv_data();
std::size_t get_shader_b_spv_size();

#endif // __VKLLAMA_COMP_SHADERS_H__
`
	if artifacts.Declarations != wantDeclarations {
		t.Errorf("declarations mismatch, got:\n%s\nwant:\n%s", artifacts.Declarations, wantDeclarations)
	}

	wantDefinitions := `// generated by bin2cpp from 2 resource(s), do not edit
#include "vkllama_comp_shaders.h"

// shader_a.spv: 4 bytes, sha256 9f64a747e1b97f13
static const unsigned char embedded_shader_a_spv[4] = {0x01,0x02,0x03,0x04};
const unsigned char* get_shader_a_spv_data() {
  return embedded_shader_a_spv;
}
std::size_t get_shader_a_spv_size() {
  return 4;
}

// shader_b.spv: 1 bytes, sha256 a8100ae6aa1940d0
static const unsigned char embedded_shader_b_spv[1] = {0xFF};
const unsigned char* get_shader_b_spv_data() {
  return embedded_shader_b_spv;
}
std::size_t get_shader_b_spv_size() {
  return 1;
}
`
	if artifacts.Definitions != wantDefinitions {
		t.Errorf("definitions mismatch, got:\n%s\nwant:\n%s", artifacts.Definitions, wantDefinitions)
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	first, err := Emit(newShaderResources(t), "shaders.h", EmitterOptionNamespace("vk::shaders"), EmitterOptionBytesPerLine(2))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Emit(newShaderResources(t), "shaders.h", EmitterOptionNamespace("vk::shaders"), EmitterOptionBytesPerLine(2))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected identical artifacts for identical inputs")
	}
}

func TestEmitPreservesOrder(t *testing.T) {
	paths := []string{"zeta.bin", "alpha.bin", "mid.bin"}
	resources := make([]EmbeddedResource, len(paths))
	for i, it := range paths {
		resources[i] = newTestResource(t, it, []byte{byte(i)})
	}

	artifacts, err := Emit(resources, "order.h")
	if err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{artifacts.Declarations, artifacts.Definitions} {
		last := -1
		for _, it := range resources {
			pos := strings.Index(text, it.Symbol.DataAccessor())
			if pos <= last {
				t.Errorf("%q is out of order", it.Symbol)
			}
			last = pos
		}
	}
}

func TestEmitZeroLengthResource(t *testing.T) {
	resources := []EmbeddedResource{newTestResource(t, "empty.bin", nil)}
	artifacts, err := Emit(resources, "empty.h")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(artifacts.Definitions, "static const unsigned char embedded_empty_bin[1] = {0x00};") {
		t.Errorf("expected a padded array, got:\n%s", artifacts.Definitions)
	}
	if !strings.Contains(artifacts.Definitions, "std::size_t get_empty_bin_size() {\n  return 0;\n}") {
		t.Errorf("expected size accessor to return 0, got:\n%s", artifacts.Definitions)
	}

	data, err := ExtractEmbeddedBytes(artifacts.Definitions, resources[0].Symbol)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected no byte, got %v", data)
	}
}

func TestEmitRoundTrip(t *testing.T) {
	var resources []EmbeddedResource
	for n := 0; n < 64; n += 9 {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(n*31 + i)
		}
		resources = append(resources, newTestResource(t, fmt.Sprintf("blob_%d.bin", n), data))
	}

	for _, perLine := range []int{0, 4} {
		artifacts, err := Emit(resources, "blobs.h", EmitterOptionBytesPerLine(perLine))
		if err != nil {
			t.Fatal(err)
		}
		for _, it := range resources {
			data, err := ExtractEmbeddedBytes(artifacts.Definitions, it.Symbol)
			if err != nil {
				t.Fatalf("%v: %v", it.Symbol, err)
			}
			if !bytes.Equal(data, it.Data) {
				t.Errorf("%v: round trip mismatch, got %v want %v", it.Symbol, data, it.Data)
			}
		}
	}
}

func TestEmitGuardDependsOnBasenameOnly(t *testing.T) {
	if got := IncludeGuard("vkllama_comp_shaders.h"); got != "__VKLLAMA_COMP_SHADERS_H__" {
		t.Errorf("IncludeGuard() = %q", got)
	}

	artifacts, err := Emit(newShaderResources(t), "my-shaders.h")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(artifacts.Declarations, "#ifndef __MY_SHADERS_H__\n#define __MY_SHADERS_H__\n") {
		t.Errorf("unexpected guard in:\n%s", artifacts.Declarations)
	}
	if !strings.Contains(artifacts.Definitions, `#include "my-shaders.h"`) {
		t.Errorf("expected definitions to include the header, got:\n%s", artifacts.Definitions)
	}
}

func TestEmitNamespace(t *testing.T) {
	artifacts, err := Emit(newShaderResources(t), "shaders.h", EmitterOptionNamespace("vk::shaders"))
	if err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{artifacts.Declarations, artifacts.Definitions} {
		if !strings.Contains(text, "namespace vk {\nnamespace shaders {\n") {
			t.Errorf("expected nested namespaces, got:\n%s", text)
		}
		if !strings.Contains(text, "} //!namespace shaders\n} //!namespace vk\n") {
			t.Errorf("expected closed namespaces, got:\n%s", text)
		}
	}

	for _, invalid := range []string{"vk::", "1vk", "vk shaders", "::vk"} {
		_, err := Emit(newShaderResources(t), "shaders.h", EmitterOptionNamespace(invalid))
		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("namespace %q: expected an ArgumentError, got %v", invalid, err)
		}
	}
}

func TestEmitMinify(t *testing.T) {
	artifacts, err := Emit(newShaderResources(t), "shaders.h", EmitterOptionMinify(true))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(artifacts.Declarations, "//") && !strings.Contains(artifacts.Declarations, "#endif // ") {
		t.Errorf("expected comments to be stripped, got:\n%s", artifacts.Declarations)
	}
	if strings.Contains(artifacts.Definitions, "// ") {
		t.Errorf("expected comments to be stripped, got:\n%s", artifacts.Definitions)
	}

	data, err := ExtractEmbeddedBytes(artifacts.Definitions, newShaderResources(t)[0].Symbol)
	if err != nil || !bytes.Equal(data, []byte{1, 2, 3, 4}) {
		t.Errorf("expected minified definitions to stay parsable, got %v, %v", data, err)
	}
}

func TestEmitCollision(t *testing.T) {
	resources := []EmbeddedResource{
		newTestResource(t, "a/shader.spv", []byte{1}),
		newTestResource(t, "b/shader.spv", []byte{2}),
	}
	_, err := Emit(resources, "shaders.h")

	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Errorf("expected a CollisionError, got %v", err)
	}
}

func TestEmitAccessorCollision(t *testing.T) {
	table := NewSymbolTable()
	resources := make([]EmbeddedResource, 0, 2)
	for _, path := range []string{"a", "a_uncompressed"} {
		symbol, err := table.Add(path)
		if err != nil {
			t.Fatal(err)
		}
		resource, err := NewEmbeddedResource(symbol, path, []byte(path),
			base.CompressionOptionFormat(base.COMPRESSION_FORMAT_ZSTD))
		if err != nil {
			t.Fatal(err)
		}
		resources = append(resources, resource)
	}

	artifacts, err := Emit(resources, "shaders.h")

	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected a CollisionError, got %v", err)
	}
	if collision.Identifier != "get_a_uncompressed_size" || collision.First != "a" || collision.Second != "a_uncompressed" {
		t.Errorf("unexpected collision: %+v", collision)
	}
	if artifacts != (GeneratedArtifactPair{}) {
		t.Error("expected no artifact on collision")
	}
}

func TestEmitCompressed(t *testing.T) {
	raw := bytes.Repeat([]byte("SPIR-V"), 100)
	resources := []EmbeddedResource{
		newTestResource(t, "shader.spv", raw, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_LZ4)),
	}
	if resources[0].UncompressedSize != len(raw) || resources[0].Size() >= len(raw) {
		t.Fatalf("unexpected sizes: %d -> %d", resources[0].UncompressedSize, resources[0].Size())
	}

	artifacts, err := Emit(resources, "packed.h")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(artifacts.Declarations, `#define PACKED_H_COMPRESSION "LZ4"`) {
		t.Errorf("expected compression macro, got:\n%s", artifacts.Declarations)
	}
	if !strings.Contains(artifacts.Declarations, "std::size_t get_shader_spv_uncompressed_size();") {
		t.Errorf("expected uncompressed size accessor, got:\n%s", artifacts.Declarations)
	}
	if !strings.Contains(artifacts.Definitions, fmt.Sprintf("return %d;", len(raw))) {
		t.Errorf("expected uncompressed size, got:\n%s", artifacts.Definitions)
	}

	data, err := ExtractEmbeddedBytes(artifacts.Definitions, resources[0].Symbol)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := base.DecompressBytes(data, base.COMPRESSION_FORMAT_LZ4)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("decompressed bytes differ from input")
	}
}

func TestEmitMixedCompression(t *testing.T) {
	resources := []EmbeddedResource{
		newTestResource(t, "a.bin", []byte{1}),
		newTestResource(t, "b.bin", []byte{2}, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_ZSTD)),
	}
	if _, err := Emit(resources, "mixed.h"); err == nil {
		t.Error("expected an error for mixed codecs")
	}
}

func TestEmitEmptyHeaderName(t *testing.T) {
	_, err := Emit(newShaderResources(t), "")
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("expected an ArgumentError, got %v", err)
	}
}
