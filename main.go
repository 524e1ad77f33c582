package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/urfave/cli/v2"

	"webttyd/backend/localcommand"
	"webttyd/pkg/homedir"
	"webttyd/server"
	"webttyd/utils"
)

func main() {
	serverOptions := &server.Options{}
	backendOptions := &localcommand.Options{}

	if err := utils.ApplyDefaultValues(serverOptions); err != nil {
		exit(err)
	}
	if err := utils.ApplyDefaultValues(backendOptions); err != nil {
		exit(err)
	}

	flags, err := utils.GenerateFlags(serverOptions, backendOptions)
	if err != nil {
		exit(err)
	}
	flags = append(flags, &cli.StringFlag{
		Name:    "config",
		Value:   "~/.webttyd",
		Usage:   "Config file path",
		EnvVars: []string{"WEBTTYD_CONFIG"},
	})

	app := &cli.App{
		Name:      "webttyd",
		Usage:     "Share your terminal over the web",
		ArgsUsage: "[command] [arguments...]",
		Flags:     flags,
		Action:    run(serverOptions, backendOptions),
	}

	if err := app.Run(os.Args); err != nil {
		exit(err)
	}
}

func run(serverOptions *server.Options, backendOptions *localcommand.Options) cli.ActionFunc {
	return func(c *cli.Context) error {
		configPath, err := homedir.Expand(c.String("config"))
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(configPath); statErr == nil {
			if err := utils.ApplyConfigFile(configPath, serverOptions, backendOptions); err != nil {
				return err
			}
		} else if c.IsSet("config") {
			// An explicitly named config file must exist.
			return statErr
		}

		if err := utils.ApplyFlags(c, serverOptions, backendOptions); err != nil {
			return err
		}
		if err := serverOptions.Validate(); err != nil {
			return err
		}

		command, argv := defaultCommand()
		if args := c.Args().Slice(); len(args) > 0 {
			command, argv = args[0], args[1:]
		}

		factory, err := localcommand.NewFactory(command, argv, backendOptions)
		if err != nil {
			return err
		}

		srv, err := server.New(factory, factory.Command(), serverOptions)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	}
}

func defaultCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", nil
	}
	return "bash", nil
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
