package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rhino1998/lox/pkg/config"
	"github.com/rhino1998/lox/pkg/driver"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:      "lox",
		Usage:     "The Lox interpreter",
		ArgsUsage: "[script.lox]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load settings from a YAML file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "log evaluator events to stderr",
			},
			&cli.BoolFlag{
				Name:  "permissive",
				Usage: "read undefined names as nil instead of failing",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			switch c.Args().Len() {
			case 0:
				return startREPL(ctx, c)
			case 1:
				return runFile(ctx, c, c.Args().First())
			default:
				return cli.Exit("usage: lox [script.lox]", driver.ExitUsage)
			}
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a Lox script",
				ArgsUsage: "<script.lox>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return cli.Exit("must provide exactly one lox file as argument", driver.ExitUsage)
					}

					return runFile(ctx, c, c.Args().First())
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session",
				Action: func(ctx context.Context, c *cli.Command) error {
					return startREPL(ctx, c)
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream of a Lox script",
				ArgsUsage: "<script.lox>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return dump(c, driver.Tokens)
				},
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a Lox script",
				ArgsUsage: "<script.lox>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return dump(c, driver.AST)
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitErr.ExitCode())
		}

		log.Fatalln(err)
	}
}

func setup(c *cli.Command) (config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, nil, cli.Exit(err.Error(), driver.ExitUsage)
		}
	}

	if c.Bool("permissive") {
		cfg.Interpreter.Permissive = true
	}

	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return cfg, nil, cli.Exit(err.Error(), driver.ExitUsage)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return cfg, logger, nil
}

func readScript(path string) (string, error) {
	if filepath.Ext(path) != ".lox" {
		return "", cli.Exit(fmt.Sprintf("%s: lox scripts must have a .lox extension", path), driver.ExitUsage)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("failed to read script: %v", err), driver.ExitNoInput)
	}

	return string(src), nil
}

func runFile(ctx context.Context, c *cli.Command, path string) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	src, err := readScript(path)
	if err != nil {
		return err
	}

	d, err := driver.New(logger, cfg, os.Stdout)
	if err != nil {
		return cli.Exit(err.Error(), driver.ExitUsage)
	}

	err = d.Run(path, src)
	if err != nil {
		return cli.Exit(err.Error(), driver.ExitCode(err))
	}

	return nil
}

func dump(c *cli.Command, render func(string) (string, error)) error {
	if c.Args().Len() != 1 {
		return cli.Exit("must provide exactly one lox file as argument", driver.ExitUsage)
	}

	src, err := readScript(c.Args().First())
	if err != nil {
		return err
	}

	out, err := render(src)
	fmt.Print(out)
	if err != nil {
		return cli.Exit(err.Error(), driver.ExitData)
	}

	return nil
}
