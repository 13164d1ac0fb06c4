package main

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	msgrender "github.com/alnah/go-msgrender"
)

// exportPool exports gallery documents to PDF with bounded concurrency.
type exportPool interface {
	ExportAll(ctx context.Context, jobs []msgrender.ExportJob) []msgrender.ExportResult
	Size() int
	Close() error
}

var _ exportPool = (*msgrender.ExporterPool)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now       func() time.Time
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	// NewExportPool creates the PDF exporter pool used by gallery --pdf.
	NewExportPool func(workers int, opts ...msgrender.ExporterOption) exportPool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		NewExportPool: func(workers int, opts ...msgrender.ExporterOption) exportPool {
			return msgrender.NewExporterPool(workers, opts...)
		},
	}
}

// lookupEnv returns env.LookupEnv, or a lookup that finds nothing.
func (e *Environment) lookupEnv() func(string) (string, bool) {
	if e.LookupEnv == nil {
		return func(string) (string, bool) { return "", false }
	}
	return e.LookupEnv
}

// now returns the current time from env.Now, falling back to time.Now.
func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// newLogger builds the CLI logger: a development console logger at debug
// level when verbose, otherwise a JSON logger that only reports warnings.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel), zap.Development())
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.WarnLevel))
}
