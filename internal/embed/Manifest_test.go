package embed

import (
	"bytes"
	"testing"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

func TestManifestRoundTrip(t *testing.T) {
	resources := newShaderResources(t)
	manifest := NewManifest("vkllama_comp_shaders.h", resources, EmitterOptionNamespace("vk"))

	if manifest.Guard != "__VKLLAMA_COMP_SHADERS_H__" || manifest.Namespace != "vk" {
		t.Errorf("unexpected manifest header: %+v", manifest)
	}
	if len(manifest.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(manifest.Resources))
	}
	if it := manifest.Resources[0]; it.Symbol != "shader_a_spv" || it.Size != 4 || it.DataAccessor != "get_shader_a_spv_data" {
		t.Errorf("unexpected first entry: %+v", it)
	}
	if it := manifest.Resources[1]; it.Digest != base.BytesFingerprint([]byte{0xFF}) {
		t.Errorf("unexpected digest: %v", it.Digest)
	}

	var buf bytes.Buffer
	if err := manifest.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"compression": "NONE"`)) {
		t.Errorf("expected text enums, got:\n%s", buf.String())
	}

	parsed, err := ReadManifest(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Header != manifest.Header || len(parsed.Resources) != len(manifest.Resources) {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
	for i := range parsed.Resources {
		if parsed.Resources[i] != manifest.Resources[i] {
			t.Errorf("entry #%d: got %+v, want %+v", i, parsed.Resources[i], manifest.Resources[i])
		}
	}
}
