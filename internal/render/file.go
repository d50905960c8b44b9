package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
	tplerrors "github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/pathutil"
)

// ErrUnresolved is wrapped by RenderFile in strict mode when tokens remain.
var ErrUnresolved = errors.New("unresolved template variables")

// Options control RenderFile.
type Options struct {
	// Strict refuses to write output while any token is left unresolved.
	Strict bool
}

// Result describes a completed render.
type Result struct {
	Template   string
	Output     string
	Resolved   []string
	Unresolved []string
	Bytes      int
}

// RenderFile reads templatePath, substitutes tokens from vars and writes the
// result to outputPath. A missing template is an InputError; a missing output
// directory is created.
func RenderFile(templatePath, outputPath string, vars env.Map, opts Options) (*Result, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tplerrors.NewInputError(templatePath, "template file not found", nil)
		}
		return nil, tplerrors.NewInputError(templatePath, "failed to read template", err)
	}
	if !utf8.Valid(data) {
		return nil, tplerrors.NewInputError(templatePath, "template is not valid UTF-8", nil)
	}

	text := string(data)
	result := &Result{
		Template:   templatePath,
		Output:     outputPath,
		Resolved:   Resolved(text, vars),
		Unresolved: Unresolved(text, vars),
	}

	if opts.Strict && len(result.Unresolved) > 0 {
		return result, tplerrors.NewRuntimeError(
			fmt.Sprintf("refusing to write %s", outputPath),
			fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(result.Unresolved, ", ")),
		)
	}

	rendered := Substitute(text, vars)
	if err := pathutil.WriteFileAtomic(outputPath, []byte(rendered), 0o644); err != nil {
		return result, tplerrors.NewRuntimeError("failed to write rendered output", err)
	}
	result.Bytes = len(rendered)
	return result, nil
}
