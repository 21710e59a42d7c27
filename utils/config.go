package utils

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// DecodeAttributes decodes a loosely typed attribute map into the struct pointed to by out, matching
// keys against the struct's json tags. Fields absent from attrs keep their current values, so
// callers typically pass a struct already populated with defaults.
func DecodeAttributes(attrs map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "error creating attribute decoder")
	}
	if err := decoder.Decode(attrs); err != nil {
		return errors.Wrap(err, "error decoding attributes")
	}
	return nil
}
