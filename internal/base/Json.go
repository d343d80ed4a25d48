package base

import (
	"io"

	"github.com/goccy/go-json"
)

/***************************************
 * JSON
 ***************************************/

type JsonOptions struct {
	PrettyPrint bool
	Strict      bool
}

type JsonOptionFunc = func(*JsonOptions)

// OptionJsonPrettyPrint indents output with two spaces.
func OptionJsonPrettyPrint(enabled bool) JsonOptionFunc {
	return func(jo *JsonOptions) { jo.PrettyPrint = enabled }
}

// OptionJsonStrict makes JsonDeserialize reject unknown fields.
func OptionJsonStrict(enabled bool) JsonOptionFunc {
	return func(jo *JsonOptions) { jo.Strict = enabled }
}

func newJsonOptions(options []JsonOptionFunc) (result JsonOptions) {
	for _, opt := range options {
		opt(&result)
	}
	return
}

// JsonSerialize keeps file names verbatim: no HTML escaping nor UTF-8
// normalization.
func JsonSerialize(x interface{}, dst io.Writer, options ...JsonOptionFunc) error {
	encoder := json.NewEncoder(dst)
	if newJsonOptions(options).PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.EncodeWithOption(x,
		json.DisableHTMLEscape(),
		json.DisableNormalizeUTF8())
}

func JsonDeserialize(x interface{}, src io.Reader, options ...JsonOptionFunc) error {
	decoder := json.NewDecoder(src)
	if newJsonOptions(options).Strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(x)
}
