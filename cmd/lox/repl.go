package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rhino1998/lox/pkg/config"
	"github.com/rhino1998/lox/pkg/driver"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/urfave/cli/v3"
)

func startREPL(ctx context.Context, c *cli.Command) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	d, err := driver.New(logger, cfg, os.Stdout)
	if err != nil {
		return cli.Exit(err.Error(), driver.ExitUsage)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := cfg.HistoryPath(home)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				logger.Warn("failed to save history", slog.String("path", histPath), slog.Any("error", err))
				return
			}
			defer f.Close()

			_, _ = ln.WriteHistory(f)
		}()
	}

	return repl(ctx, d, ln, cfg.REPL, os.Stdout, os.Stderr)
}

// prompter is the part of *liner.State the loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func repl(ctx context.Context, d *driver.Driver, ln prompter, cfg config.REPLConfig, stdout, stderr io.Writer) error {
	cont := cfg.Continuation
	if cont == "" {
		cont = cfg.Prompt
	}

	for ctx.Err() == nil {
		src, ok := readByParseProbe(ln, cfg.Prompt, cont)
		if !ok {
			fmt.Fprintln(stdout)
			return nil
		}

		code := strings.TrimSpace(src)
		if code == "" {
			continue
		}

		if code == "exit" {
			return nil
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		val, err := d.Eval(src)
		if err != nil {
			fmt.Fprintln(stderr, err)
			continue
		}

		if val != nil {
			fmt.Fprintln(stdout, val)
		}
	}

	return nil
}

// readByParseProbe keeps prompting until the accumulated input either
// parses or fails for a reason other than ending early. It reports false
// on end of input.
func readByParseProbe(ln prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "exit" {
			return src, true
		}

		_, perr := parser.ParseString(src)
		if perr == nil || !driver.IsIncomplete(perr) {
			return src, true
		}
	}
}
