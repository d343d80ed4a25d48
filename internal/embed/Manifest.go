package embed

import (
	"io"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

/***************************************
 * Manifest
 ***************************************/

// Manifest describes a generated artifact pair for other build steps, it is
// written as JSON next to the artifacts when requested.
type Manifest struct {
	Header    string          `json:"header"`
	Guard     string          `json:"guard"`
	Namespace string          `json:"namespace,omitempty"`
	Resources []ManifestEntry `json:"resources"`
}

type ManifestEntry struct {
	Symbol           string                 `json:"symbol"`
	Source           string                 `json:"source"`
	DataAccessor     string                 `json:"dataAccessor"`
	SizeAccessor     string                 `json:"sizeAccessor"`
	Size             int                    `json:"size"`
	UncompressedSize int                    `json:"uncompressedSize"`
	Compression      base.CompressionFormat `json:"compression"`
	Digest           base.Fingerprint       `json:"sha256"`
}

func NewManifest(headerBasename string, resources []EmbeddedResource, options ...EmitterOptionFunc) Manifest {
	eo := NewEmitterOptions(options...)
	result := Manifest{
		Header:    headerBasename,
		Guard:     IncludeGuard(headerBasename),
		Namespace: eo.Namespace,
		Resources: make([]ManifestEntry, len(resources)),
	}
	for i, it := range resources {
		result.Resources[i] = ManifestEntry{
			Symbol:           it.Symbol.Sanitized,
			Source:           it.Source,
			DataAccessor:     it.Symbol.DataAccessor(),
			SizeAccessor:     it.Symbol.SizeAccessor(),
			Size:             it.Size(),
			UncompressedSize: it.UncompressedSize,
			Compression:      it.Compression,
			Digest:           it.Digest,
		}
	}
	return result
}

func (x *Manifest) Write(dst io.Writer) error {
	return base.JsonSerialize(x, dst, base.OptionJsonPrettyPrint(true))
}

func ReadManifest(src io.Reader) (result Manifest, err error) {
	err = base.JsonDeserialize(&result, src, base.OptionJsonStrict(true))
	return
}
