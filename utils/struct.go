// Package utils plumbs option structs between their tags, the config
// file, and the command line.
package utils

import (
	"os"
	"reflect"
	"strconv"

	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"github.com/yudai/hcl"
)

// ApplyDefaultValues sets every field carrying a `default` tag to that
// value. Call it before layering the config file and flags on top.
func ApplyDefaultValues(options interface{}) error {
	for _, field := range structs.Fields(options) {
		defaultValue := field.Tag("default")
		if defaultValue == "" {
			continue
		}

		var value interface{}
		switch field.Kind() {
		case reflect.String:
			value = defaultValue
		case reflect.Bool:
			parsed, err := strconv.ParseBool(defaultValue)
			if err != nil {
				return errors.Wrapf(err, "invalid bool default for field %s", field.Name())
			}
			value = parsed
		case reflect.Int:
			parsed, err := strconv.Atoi(defaultValue)
			if err != nil {
				return errors.Wrapf(err, "invalid int default for field %s", field.Name())
			}
			value = parsed
		default:
			return errors.Errorf("unsupported default for field %s", field.Name())
		}

		if err := field.Set(value); err != nil {
			return errors.Wrapf(err, "failed to set default for field %s", field.Name())
		}
	}
	return nil
}

// ApplyConfigFile decodes an HCL config file over the given option
// structs; fields the file does not mention keep their values.
func ApplyConfigFile(filePath string, options ...interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", filePath)
	}

	for _, option := range options {
		if err := hcl.Decode(option, string(data)); err != nil {
			return errors.Wrapf(err, "failed to parse config file %s", filePath)
		}
	}
	return nil
}
