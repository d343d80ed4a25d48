package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/poppolopoppo/bin2cpp/internal/base"
	"github.com/poppolopoppo/bin2cpp/internal/embed"
	"github.com/poppolopoppo/bin2cpp/utils"
)

/***************************************
 * Embed options
 ***************************************/

// EmbedOptions holds everything needed by one invocation. Tagged fields can
// also be read from a JSON or YAML config file.
type EmbedOptions struct {
	Definitions  utils.Filename `json:"-" yaml:"-"`
	Declarations utils.Filename `json:"-" yaml:"-"`
	Inputs       []string       `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	Namespace    utils.StringVar        `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Compression  base.CompressionFormat `json:"compression" yaml:"compression"`
	Level        base.CompressionLevel  `json:"level" yaml:"level"`
	BytesPerLine utils.IntVar           `json:"bytesPerLine,omitempty" yaml:"bytesPerLine,omitempty"`
	Manifest     utils.OptionalFilename `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Incremental  utils.BoolVar          `json:"incremental,omitempty" yaml:"incremental,omitempty"`
	Verify       utils.BoolVar          `json:"verify,omitempty" yaml:"verify,omitempty"`
	Minify       utils.BoolVar          `json:"minify,omitempty" yaml:"minify,omitempty"`
	LockTimeout  utils.DurationVar      `json:"lockTimeout,omitempty" yaml:"lockTimeout,omitempty"`
}

func NewEmbedOptions() EmbedOptions {
	return EmbedOptions{
		Compression: base.COMPRESSION_FORMAT_NONE,
		Level:       base.COMPRESSION_LEVEL_BALANCED,
	}
}

func (x *EmbedOptions) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Variable("Namespace", "wrap generated code in a C++ namespace, nested namespaces are separated by '::'", &x.Namespace)
	cfv.Variable("Compression", "encode embedded bytes with NONE, LZ4, ZSTD or DEFLATE", &x.Compression)
	cfv.Variable("Level", "compression level: FAST, BALANCED or BEST", &x.Level)
	cfv.Variable("BytesPerLine", "wrap byte literals after N values, 0 keeps arrays on a single line", &x.BytesPerLine)
	cfv.Variable("Manifest", "also write a JSON manifest describing embedded resources", &x.Manifest)
	cfv.Variable("Incremental", "leave outputs untouched when their content did not change", &x.Incremental)
	cfv.Variable("Verify", "parse generated arrays back before writing outputs", &x.Verify)
	cfv.Variable("Minify", "strip comments and indentation from generated code", &x.Minify)
	cfv.Variable("LockTimeout", "give up waiting for the output lock after this duration, 0 waits forever", &x.LockTimeout)
}

func (x *EmbedOptions) Validate() error {
	switch {
	case !x.Definitions.Valid():
		return embed.MakeArgumentError("missing definitions output file")
	case !x.Declarations.Valid():
		return embed.MakeArgumentError("missing declarations output file")
	case len(x.Inputs) == 0:
		return embed.MakeArgumentError("no input file given")
	case x.Definitions.Equals(x.Declarations):
		return embed.MakeArgumentError("definitions and declarations can't be written to the same file %q", x.Definitions)
	case x.Manifest.Valid() && (x.Manifest.Equals(x.Definitions) || x.Manifest.Equals(x.Declarations)):
		return embed.MakeArgumentError("manifest can't overwrite generated code %q", x.Manifest)
	case x.BytesPerLine < 0:
		return embed.MakeArgumentError("invalid bytes per line: %d", x.BytesPerLine)
	case x.LockTimeout < 0:
		return embed.MakeArgumentError("invalid lock timeout: %v", x.LockTimeout)
	}
	return embed.ValidateNamespace(x.Namespace.Get())
}

func (x *EmbedOptions) emitterOptions() []embed.EmitterOptionFunc {
	return []embed.EmitterOptionFunc{
		embed.EmitterOptionNamespace(x.Namespace.Get()),
		embed.EmitterOptionBytesPerLine(x.BytesPerLine.Get()),
		embed.EmitterOptionMinify(x.Minify.Get()),
	}
}

/***************************************
 * Embed
 ***************************************/

type generatedFile struct {
	Destination utils.Filename
	Content     []byte
}

// Embed reads every input, composes the generated artifacts and commits all
// of them at once. Nothing is written when an error is returned.
func Embed(ctx context.Context, opts *EmbedOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	defer base.LogBenchmark(utils.LogCommand, "embed %d file(s) in %q", len(opts.Inputs), opts.Declarations).Close()

	resources, err := readEmbeddedResources(opts)
	if err != nil {
		return err
	}

	artifacts, err := embed.Emit(resources, opts.Declarations.Basename, opts.emitterOptions()...)
	if err != nil {
		return err
	}

	if opts.Verify.Get() {
		if err := verifyArtifacts(artifacts, resources); err != nil {
			return err
		}
	}

	files := []generatedFile{
		{Destination: opts.Declarations, Content: []byte(artifacts.Declarations)},
		{Destination: opts.Definitions, Content: []byte(artifacts.Definitions)},
	}

	if opts.Manifest.Valid() {
		manifest := embed.NewManifest(opts.Declarations.Basename, resources, opts.emitterOptions()...)

		var buf bytes.Buffer
		if err := manifest.Write(&buf); err != nil {
			return fmt.Errorf("manifest %q: %w", opts.Manifest, err)
		}
		files = append(files, generatedFile{Destination: opts.Manifest.Filename, Content: buf.Bytes()})
	}

	return commitGeneratedFiles(ctx, opts, files)
}

func readEmbeddedResources(opts *EmbedOptions) ([]embed.EmbeddedResource, error) {
	// symbols are all derived before reading, a collision must not depend on
	// which inputs are readable
	symbols := embed.NewSymbolTable(embed.SymbolTableOptionCompressed(opts.Compression.Enabled()))
	for _, input := range opts.Inputs {
		if _, err := symbols.Add(input); err != nil {
			return nil, err
		}
	}

	resources := make([]embed.EmbeddedResource, len(opts.Inputs))
	for i, input := range opts.Inputs {
		raw, err := utils.UFS.ReadAll(utils.MakeFilename(input))
		if err != nil {
			return nil, &embed.IOError{Op: "read", Path: input, Err: err}
		}

		resources[i], err = embed.NewEmbeddedResource(symbols.Symbols()[i], input, raw,
			base.CompressionOptionFormat(opts.Compression),
			base.CompressionOptionLevel(opts.Level))
		if err != nil {
			return nil, err
		}

		base.LogVerbose(utils.LogCommand, "embed %q as %q (%v)", input, resources[i].Symbol, base.MakeSizeInBytes(len(raw)))
	}
	return resources, nil
}

func verifyArtifacts(artifacts embed.GeneratedArtifactPair, resources []embed.EmbeddedResource) error {
	for _, it := range resources {
		data, err := embed.ExtractEmbeddedBytes(artifacts.Definitions, it.Symbol)
		if err != nil {
			return fmt.Errorf("verify %q: %w", it.Source, err)
		}
		if !bytes.Equal(data, it.Data) {
			return fmt.Errorf("verify %q: generated array differs from embedded bytes", it.Source)
		}

		raw, err := base.DecompressBytes(data, it.Compression)
		if err != nil {
			return fmt.Errorf("verify %q: %w", it.Source, err)
		}
		if digest := base.BytesFingerprint(raw); digest != it.Digest {
			return fmt.Errorf("verify %q: expected sha256 %v, got %v", it.Source, it.Digest.ShortString(), digest.ShortString())
		}
	}

	base.LogVerbose(utils.LogCommand, "verified %d embedded array(s)", len(resources))
	return nil
}

func commitGeneratedFiles(ctx context.Context, opts *EmbedOptions, files []generatedFile) error {
	if timeout := opts.LockTimeout.Get(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	lock, err := utils.UFS.Lock(ctx, opts.Declarations)
	if err != nil {
		return &embed.IOError{Op: "lock", Path: utils.LockFileFor(opts.Declarations).String(), Err: err}
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			base.LogWarning(utils.LogCommand, "failed to release output lock: %v", err)
		}
	}()

	tx := utils.UFS.NewTransaction()
	for _, it := range files {
		if opts.Incremental.Get() && utils.UFS.SameContent(it.Destination, it.Content) {
			if modTime, err := utils.UFS.ModTime(it.Destination); err == nil {
				base.LogVerbose(utils.LogCommand, "%q is up-to-date (last modified %v)", it.Destination, modTime)
			}
			continue
		}

		content := it.Content
		if err := tx.Create(it.Destination, func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}); err != nil {
			return base.AnyError(&embed.IOError{Op: "write", Path: it.Destination.String(), Err: err}, tx.Rollback())
		}
	}

	if tx.Len() == 0 {
		base.LogInfo(utils.LogCommand, "%q is up-to-date", opts.Declarations)
		return nil
	}

	if err := tx.Commit(); err != nil {
		return &embed.IOError{Op: "write", Path: opts.Declarations.String(), Err: err}
	}

	base.LogClaim(utils.LogCommand, "generated %q and %q", opts.Declarations, opts.Definitions)
	return nil
}
