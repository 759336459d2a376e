package config

import (
	"github.com/mitchellh/mapstructure"
)

// decode unmarshals a raw config map into a factory struct.
// Durations can be provided as strings (eg. "50ms").
func decode(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
