package interpreter_test

import (
	"bytes"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/lox/pkg/interpreter"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/stretchr/testify/require"
)

// TestPrograms runs every testdata/*.txt program. Each file holds the source
// and the expected output separated by a line containing only "---". A
// runtime error is appended to the output as "error: <message>".
func TestPrograms(t *testing.T) {
	t.Parallel()

	dir := os.DirFS("./testdata/")
	testFiles, err := fs.Glob(dir, "*.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, testFile := range testFiles {
		name := strings.Split(testFile, ".")[0]
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			testData, err := fs.ReadFile(dir, testFile)
			r.NoError(err)

			parts := bytes.SplitN(testData, []byte("\n---\n"), 2)
			r.Len(parts, 2, "missing --- separator")
			source := string(bytes.TrimSpace(parts[0]))
			expected := strings.TrimSpace(string(parts[1]))

			stmts, err := parser.ParseString(source)
			r.NoError(err)

			var output bytes.Buffer
			interp, err := interpreter.New(slogt.New(t), interpreter.Config{Stdout: &output})
			r.NoError(err)

			err = interp.Interpret(stmts)
			if err != nil {
				output.WriteString("error: " + err.Error() + "\n")
			}

			r.Equal(expected, strings.TrimSpace(output.String()))
		})
	}
}
