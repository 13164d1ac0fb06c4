package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alnah/go-msgrender/internal/fileutil"
	"github.com/alnah/go-msgrender/internal/hints"
	"github.com/alnah/go-msgrender/internal/yamlutil"
)

// stdinArg selects standard input as the input file.
const stdinArg = "-"

// readFixture decodes the YAML fixture at path ("-" for stdin) into v.
// kind names the fixture in hints.
func readFixture(path, kind string, env *Environment, v any) error {
	var err error
	if path == stdinArg {
		err = yamlutil.ReadStrict(env.Stdin, v)
	} else {
		err = yamlutil.ReadFileStrict(path, v)
	}
	if err == nil {
		return nil
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return fmt.Errorf("%w: %v%s", ErrFixture, err, hints.ForFixture(kind))
}

// readText reads the file at path ("-" for stdin).
func readText(path string, env *Environment) (string, error) {
	var data []byte
	var err error
	if path == stdinArg {
		data, err = io.ReadAll(io.LimitReader(env.Stdin, int64(yamlutil.MaxInputSize)+1))
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- input path is user-provided
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if len(data) > yamlutil.MaxInputSize {
		return "", fmt.Errorf("%w: %s: %d bytes (max %d)", ErrUsage, path, len(data), yamlutil.MaxInputSize)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte, env *Environment) error {
	if path == "" || path == stdinArg {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	return nil
}

// singleInput returns the only positional argument, defaulting to stdin.
func singleInput(args []string) (string, error) {
	switch len(args) {
	case 0:
		return stdinArg, nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
}

// status prints a progress line to stderr unless quiet.
func status(env *Environment, quiet bool, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(env.Stderr, format+"\n", args...)
}
