package base

import (
	"bytes"
	"io"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
)

var LogCompression = NewLogCategory("Compression")

/***************************************
 * Compression options
 ***************************************/

type CompressionOptions struct {
	Format CompressionFormat
	Level  CompressionLevel
}

type CompressionOptionFunc func(*CompressionOptions)

func CompressionOptionFormat(format CompressionFormat) CompressionOptionFunc {
	return func(co *CompressionOptions) {
		co.Format = format
	}
}
func CompressionOptionLevel(level CompressionLevel) CompressionOptionFunc {
	return func(co *CompressionOptions) {
		co.Level = level
	}
}

func NewCompressionOptions(options ...CompressionOptionFunc) CompressionOptions {
	result := CompressionOptions{
		Format: COMPRESSION_FORMAT_NONE,
		Level:  COMPRESSION_LEVEL_BALANCED,
	}
	for _, opt := range options {
		opt(&result)
	}
	return result
}

// CompressBytes encodes src with the requested format, the output only
// depends on src and options. COMPRESSION_FORMAT_NONE returns src as is.
func CompressBytes(src []byte, options ...CompressionOptionFunc) ([]byte, error) {
	co := NewCompressionOptions(options...)
	codec, err := co.Format.codec()
	if err != nil {
		return nil, err
	}
	return codec.Encode(src, co.Level)
}

// DecompressBytes is the inverse of CompressBytes.
func DecompressBytes(src []byte, format CompressionFormat) ([]byte, error) {
	codec, err := format.codec()
	if err != nil {
		return nil, err
	}
	return codec.Decode(src)
}

/***************************************
 * Codecs
 ***************************************/

type compressionCodec struct {
	Name   string
	Encode func(src []byte, level CompressionLevel) ([]byte, error)
	Decode func(src []byte) ([]byte, error)
}

var compressionCodecs = [...]compressionCodec{
	COMPRESSION_FORMAT_NONE: {
		Name:   "NONE",
		Encode: func(src []byte, _ CompressionLevel) ([]byte, error) { return src, nil },
		Decode: func(src []byte) ([]byte, error) { return src, nil },
	},
	COMPRESSION_FORMAT_LZ4: {
		Name:   "LZ4",
		Encode: lz4Encode,
		Decode: func(src []byte) ([]byte, error) {
			return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
		},
	},
	COMPRESSION_FORMAT_ZSTD: {
		Name: "ZSTD",
		Encode: func(src []byte, level CompressionLevel) ([]byte, error) {
			return zstd.CompressLevel(nil, src, pick(level, zstd.BestSpeed, zstd.DefaultCompression, zstd.BestCompression))
		},
		Decode: func(src []byte) ([]byte, error) {
			return zstd.Decompress(nil, src)
		},
	},
	COMPRESSION_FORMAT_DEFLATE: {
		Name:   "DEFLATE",
		Encode: flateEncode,
		Decode: func(src []byte) ([]byte, error) {
			rd := flate.NewReader(bytes.NewReader(src))
			defer rd.Close()
			return io.ReadAll(rd)
		},
	},
}

func lz4Encode(src []byte, level CompressionLevel) ([]byte, error) {
	var dst bytes.Buffer
	wr := lz4.NewWriter(&dst)
	// frames written by a single goroutine are reproducible
	if err := wr.Apply(
		lz4.ConcurrencyOption(1),
		lz4.CompressionLevelOption(pick(level, lz4.Fast, lz4.Level4, lz4.Level9))); err != nil {
		return nil, err
	}
	if _, err := wr.Write(src); err != nil {
		return nil, err
	}
	if err := wr.Close(); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

func flateEncode(src []byte, level CompressionLevel) ([]byte, error) {
	var dst bytes.Buffer
	wr, err := flate.NewWriter(&dst, pick(level, flate.BestSpeed, flate.DefaultCompression, flate.BestCompression))
	if err != nil {
		return nil, err
	}
	if _, err := wr.Write(src); err != nil {
		return nil, err
	}
	if err := wr.Close(); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

/***************************************
 * CompressionFormat
 ***************************************/

type CompressionFormat int32

const (
	COMPRESSION_FORMAT_NONE CompressionFormat = iota
	COMPRESSION_FORMAT_LZ4
	COMPRESSION_FORMAT_ZSTD
	COMPRESSION_FORMAT_DEFLATE
)

func CompressionFormats() []CompressionFormat {
	result := make([]CompressionFormat, len(compressionCodecs))
	for i := range result {
		result[i] = CompressionFormat(i)
	}
	return result
}

func (x CompressionFormat) Enabled() bool {
	return x != COMPRESSION_FORMAT_NONE
}
func (x CompressionFormat) codec() (*compressionCodec, error) {
	if x < 0 || int(x) >= len(compressionCodecs) {
		return nil, MakeUnexpectedValueError(x, int32(x))
	}
	return &compressionCodecs[x], nil
}
func (x CompressionFormat) String() string {
	codec, err := x.codec()
	if err != nil {
		UnexpectedValue(x)
	}
	return codec.Name
}
func (x *CompressionFormat) Set(in string) error {
	for i, it := range compressionCodecs {
		if strings.EqualFold(in, it.Name) {
			*x = CompressionFormat(i)
			return nil
		}
	}
	return MakeUnexpectedValueError(x, in)
}
func (x CompressionFormat) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *CompressionFormat) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}

/***************************************
 * CompressionLevel
 ***************************************/

type CompressionLevel int32

const (
	COMPRESSION_LEVEL_FAST CompressionLevel = iota
	COMPRESSION_LEVEL_BALANCED
	COMPRESSION_LEVEL_BEST
)

var compressionLevelNames = [...]string{
	COMPRESSION_LEVEL_FAST:     "FAST",
	COMPRESSION_LEVEL_BALANCED: "BALANCED",
	COMPRESSION_LEVEL_BEST:     "BEST",
}

func CompressionLevels() []CompressionLevel {
	return []CompressionLevel{
		COMPRESSION_LEVEL_FAST,
		COMPRESSION_LEVEL_BALANCED,
		COMPRESSION_LEVEL_BEST,
	}
}

// pick maps the level onto the native settings of a codec.
func pick[T any](x CompressionLevel, fast, balanced, best T) T {
	switch x {
	case COMPRESSION_LEVEL_FAST:
		return fast
	case COMPRESSION_LEVEL_BEST:
		return best
	default:
		return balanced
	}
}

func (x CompressionLevel) String() string {
	if x < 0 || int(x) >= len(compressionLevelNames) {
		UnexpectedValue(x)
	}
	return compressionLevelNames[x]
}
func (x *CompressionLevel) Set(in string) error {
	for i, it := range compressionLevelNames {
		if strings.EqualFold(in, it) {
			*x = CompressionLevel(i)
			return nil
		}
	}
	return MakeUnexpectedValueError(x, in)
}
func (x CompressionLevel) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *CompressionLevel) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}
