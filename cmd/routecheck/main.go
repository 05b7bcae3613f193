// Package main is the entry point for routecheck, an offline checker for
// route definition files: it builds a route table from a YAML file and
// evaluates a single match query against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routematch/internal/config"
	"github.com/vyrodovalexey/routematch/internal/observability"
	"github.com/vyrodovalexey/routematch/internal/routing"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Exit codes.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// cliFlags holds command line flags.
type cliFlags struct {
	routesPath  string
	path        string
	method      string
	host        string
	remoteAddr  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the checker and returns the process exit code. Logs go to
// stderr; stdout carries only the matched metadata.
func run(args []string, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return exitError
	}

	if flags.showVersion {
		printVersion(stdout)
		return exitMatch
	}

	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	if flags.path == "" {
		logger.Error("a query path is required (-path)")
		return exitError
	}

	file, err := config.Load(flags.routesPath)
	if err != nil {
		logger.Error("failed to load route file", observability.Error(err))
		return exitError
	}

	if err := config.Validate(file); err != nil {
		logger.Error("route file validation failed", observability.Error(err))
		return exitError
	}

	table, err := routing.Build(file.Routes, routing.WithLogger(logger))
	if err != nil {
		logger.Error("failed to build route table", observability.Error(err))
		return exitError
	}
	defer func() {
		if err := table.Close(); err != nil {
			logger.Error("failed to release route table", observability.Error(err))
		}
	}()

	meta, ok, err := table.Match(flags.path, routing.Query{
		Method:     flags.method,
		Host:       flags.host,
		RemoteAddr: flags.remoteAddr,
	})
	if err != nil {
		logger.Error("match failed", observability.Error(err))
		return exitError
	}
	if !ok {
		logger.Info("no route matched",
			observability.String("path", flags.path),
			observability.String("method", flags.method))
		return exitNoMatch
	}

	logger.Info("route matched", observability.String("path", flags.path))

	out, err := yaml.Marshal(meta)
	if err != nil {
		logger.Error("failed to encode metadata", observability.Error(err))
		return exitError
	}
	fmt.Fprint(stdout, string(out))
	return exitMatch
}

// parseFlags parses command line flags.
func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	fs := flag.NewFlagSet("routecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	routesPath := fs.String("routes", getEnvOrDefault("ROUTECHECK_ROUTES", "routes.yaml"),
		"Path to the route definition file")
	path := fs.String("path", "", "Request path to match")
	method := fs.String("method", "GET", "Request method")
	host := fs.String("host", "", "Request host header")
	remoteAddr := fs.String("remote-addr", "", "Client address")
	logLevel := fs.String("log-level", getEnvOrDefault("ROUTECHECK_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", getEnvOrDefault("ROUTECHECK_LOG_FORMAT", "console"),
		"Log format (json, console)")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	return cliFlags{
		routesPath:  *routesPath,
		path:        *path,
		method:      *method,
		host:        *host,
		remoteAddr:  *remoteAddr,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}, nil
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "routecheck %s (built %s, commit %s)\n", version, buildTime, gitCommit)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
