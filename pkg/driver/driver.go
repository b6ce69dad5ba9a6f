package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rhino1998/lox/pkg/config"
	"github.com/rhino1998/lox/pkg/interpreter"
	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/parser"
)

const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitData    = 65
	ExitNoInput = 66
	ExitRuntime = 70
)

// Driver runs source text through the lexer, the parser and one persistent
// interpreter. Successive Run and Eval calls share globals.
type Driver struct {
	logger *slog.Logger
	config config.Config
	interp *interpreter.Interpreter
}

func New(logger *slog.Logger, cfg config.Config, stdout io.Writer) (*Driver, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	err := cfg.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	interp, err := interpreter.New(logger, cfg.InterpreterConfig(stdout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	return &Driver{
		logger: logger,
		config: cfg,
		interp: interp,
	}, nil
}

// Run parses and executes src. Statements that parsed cleanly still run when
// others failed to parse; the returned error joins the syntax errors with
// the runtime error, if any.
func (d *Driver) Run(name, src string) error {
	stmts, parseErr := parser.ParseString(src)

	d.logger.Debug("run",
		slog.String("name", name),
		slog.Int("statements", len(stmts)),
		slog.Bool("syntax_errors", parseErr != nil),
	)

	runErr := d.interp.Interpret(stmts)

	return errors.Join(parseErr, runErr)
}

// Eval is Run for interactive input: when src is a single expression
// statement that parsed cleanly its value is returned so the caller can
// echo it. Otherwise the returned value is nil. Incomplete input runs
// nothing.
func (d *Driver) Eval(src string) (interpreter.Value, error) {
	stmts, parseErr := parser.ParseString(src)
	if parseErr != nil && IsIncomplete(parseErr) {
		return nil, parseErr
	}

	if parseErr == nil && len(stmts) == 1 {
		if stmt, ok := stmts[0].(*parser.ExprStmt); ok {
			return d.interp.Evaluate(stmt.Expr)
		}
	}

	runErr := d.interp.Interpret(stmts)

	return nil, errors.Join(parseErr, runErr)
}

// Tokens renders the token stream of src, one token per line.
func Tokens(src string) (string, error) {
	tokens, err := lexer.Scan(src)

	var b strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&b, "%d:%d %s\n", tok.Line, tok.Col, tok)
	}

	return b.String(), err
}

// AST renders the parsed statements of src as S-expressions.
func AST(src string) (string, error) {
	stmts, err := parser.ParseString(src)
	return parser.Print(stmts), err
}

// IsIncomplete reports whether err was caused only by input ending early,
// meaning more lines could complete it.
func IsIncomplete(err error) bool {
	var set *parser.ErrorSet
	if !errors.As(err, &set) || set.Len() == 0 {
		return errors.Is(err, parser.ErrIncomplete) || errors.Is(err, lexer.ErrUnterminated)
	}

	for _, e := range set.Errs {
		if !errors.Is(e, parser.ErrIncomplete) && !errors.Is(e, lexer.ErrUnterminated) {
			return false
		}
	}

	return true
}

// ExitCode maps an error returned by Run to a process exit status. Syntax
// errors take precedence over runtime errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var set *parser.ErrorSet
	if errors.As(err, &set) {
		return ExitData
	}

	return ExitRuntime
}
