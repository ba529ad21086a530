package pkg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Step is one shell phase of the pipeline (configure, build, install).
type Step struct {
	Name   string
	Script string
	Dir    string
	Env    map[string]string
}

func getStepEnv(step Step) expand.Environ {
	envVars := os.Environ()

	for name, value := range step.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", name, value))
	}

	return expand.ListEnviron(envVars...)
}

// RunStep executes a step's script statement by statement with -e semantics:
// the first failing command aborts the step. Each statement is logged before
// it runs.
func RunStep(ctx context.Context, step Step) error {
	runner, err := interp.New(
		interp.Dir(step.Dir),
		interp.Env(getStepEnv(step)),
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrapf(err, "Failed to initialize runner for step %s", step.Name)
	}

	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(step.Script), step.Name)
	if err != nil {
		return eris.Wrapf(err, "Failed to parse commands for step %s", step.Name)
	}

	printer := syntax.NewPrinter(
		syntax.Minify(true),
	)
	strBuffer := strings.Builder{}

	for _, stmt := range file.Stmts {
		strBuffer.Reset()
		printer.Print(&strBuffer, stmt)
		log(ctx).Info().
			Str("step", step.Name).
			Bool("command", true).
			Msg(strBuffer.String())

		err = runner.Run(ctx, stmt)
		if err != nil {
			return eris.Wrapf(err, "Step %s failed", step.Name)
		}

		if runner.Exited() {
			return nil
		}

		if err = ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
