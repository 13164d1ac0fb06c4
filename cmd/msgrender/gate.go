package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	msgrender "github.com/alnah/go-msgrender"
)

// supportedLine is printed when no unsupported page applies.
const supportedLine = "supported\n"

// runGate prints the unsupported-environment page for a user agent or an
// environment fixture.
func runGate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	logger := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	var info msgrender.EnvironmentInfo
	if flags.userAgent != "" {
		if len(positional) > 0 {
			return fmt.Errorf("%w: --user-agent and an environment file are exclusive", ErrUsage)
		}
		info = msgrender.DetectEnvironment(flags.userAgent, supportMatrix(cfg))
	} else {
		input, err := singleInput(positional)
		if err != nil {
			return err
		}
		if err := readFixture(input, "environment", env, &info); err != nil {
			return err
		}
	}
	logger.Debug("environment",
		zap.String("platform", info.Platform),
		zap.String("browser", info.Browser),
		zap.String("browser_version", info.BrowserVersion),
		zap.Bool("platform_supported", info.IsSupportedPlatform),
		zap.Bool("browser_supported", info.IsSupportedBrowser),
		zap.Bool("version_supported", info.IsSupportedBrowserVersion),
	)

	page, err := msgrender.SelectUnsupportedPage(&info)
	if errors.Is(err, msgrender.ErrEnvironmentSupported) {
		return writeOutput(flags.output, []byte(supportedLine), env)
	}
	if err != nil {
		return err
	}
	status(env, flags.common.quiet, "Unsupported environment: %s", page)

	gate, err := newGate(cfg, "")
	if err != nil {
		return err
	}
	var out string
	if flags.document {
		out, err = gate.Document(ctx, &info)
	} else {
		out, err = gate.Render(&info)
	}
	if err != nil {
		return err
	}
	return writeOutput(flags.output, []byte(out+"\n"), env)
}
