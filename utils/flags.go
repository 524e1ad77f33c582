package utils

import (
	"reflect"
	"strings"

	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// GenerateFlags builds CLI flags from the `flagName` tags of the given
// option structs. Defaults must already be applied so the generated
// flags advertise them.
func GenerateFlags(options ...interface{}) ([]cli.Flag, error) {
	var flags []cli.Flag

	for _, struct_ := range options {
		for _, field := range structs.Fields(struct_) {
			flagName := field.Tag("flagName")
			if flagName == "" {
				continue
			}

			var aliases []string
			if short := field.Tag("flagSName"); short != "" {
				aliases = []string{short}
			}
			usage := field.Tag("flagDescribe")
			envVars := []string{envVarName(flagName)}

			switch field.Kind() {
			case reflect.String:
				flags = append(flags, &cli.StringFlag{
					Name:    flagName,
					Aliases: aliases,
					Value:   field.Value().(string),
					Usage:   usage,
					EnvVars: envVars,
				})
			case reflect.Bool:
				flags = append(flags, &cli.BoolFlag{
					Name:    flagName,
					Aliases: aliases,
					Value:   field.Value().(bool),
					Usage:   usage,
					EnvVars: envVars,
				})
			case reflect.Int:
				flags = append(flags, &cli.IntFlag{
					Name:    flagName,
					Aliases: aliases,
					Value:   field.Value().(int),
					Usage:   usage,
					EnvVars: envVars,
				})
			default:
				return nil, errors.Errorf("unsupported flag type for field %s", field.Name())
			}
		}
	}

	return flags, nil
}

// ApplyFlags copies flags the user actually set back onto the option
// structs, overriding defaults and config file values.
func ApplyFlags(c *cli.Context, options ...interface{}) error {
	for _, struct_ := range options {
		for _, field := range structs.Fields(struct_) {
			flagName := field.Tag("flagName")
			if flagName == "" || !c.IsSet(flagName) {
				continue
			}

			var value interface{}
			switch field.Kind() {
			case reflect.String:
				value = c.String(flagName)
			case reflect.Bool:
				value = c.Bool(flagName)
			case reflect.Int:
				value = c.Int(flagName)
			default:
				return errors.Errorf("unsupported flag type for field %s", field.Name())
			}

			if err := field.Set(value); err != nil {
				return errors.Wrapf(err, "failed to apply flag %s", flagName)
			}
		}
	}
	return nil
}

func envVarName(flagName string) string {
	return "WEBTTYD_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
