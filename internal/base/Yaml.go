package base

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

/***************************************
 * YAML
 ***************************************/

// YamlDeserialize accepts the same options as JsonDeserialize, only Strict
// is meaningful. An empty document leaves x untouched.
func YamlDeserialize(x interface{}, src io.Reader, options ...JsonOptionFunc) error {
	decoder := yaml.NewDecoder(src)
	decoder.KnownFields(newJsonOptions(options).Strict)
	if err := decoder.Decode(x); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
