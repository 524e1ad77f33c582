package localcommand

import (
	"time"

	"github.com/pkg/errors"

	"webttyd/webtty"
)

// Factory spawns one LocalCommand per session at the size requested by
// the client.
type Factory struct {
	command string
	argv    []string
	options *Options
}

func NewFactory(command string, argv []string, options *Options) (*Factory, error) {
	if command == "" {
		return nil, errors.New("command may not be empty")
	}
	return &Factory{
		command: command,
		argv:    argv,
		options: options,
	}, nil
}

// Command returns the argv the factory spawns, for display.
func (factory *Factory) Command() []string {
	return append([]string{factory.command}, factory.argv...)
}

func (factory *Factory) New(cols uint16, rows uint16) (webtty.Slave, error) {
	opts := []Option{
		WithCloseSignal(factory.options.CloseSignal),
		WithCloseTimeout(time.Duration(factory.options.CloseTimeout) * time.Second),
	}
	if factory.options.Cwd != "" {
		opts = append(opts, WithCwd(factory.options.Cwd))
	}
	return New(factory.command, factory.argv, Size{Cols: cols, Rows: rows}, opts...)
}
