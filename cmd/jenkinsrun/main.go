package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jenkinsrun/internal/config"
	"jenkinsrun/internal/logger"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// exitError carries an exit code for a failure whose output was already written
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootOptions holds the flags shared by every command
type rootOptions struct {
	configPath string
	url        string
	username   string
	password   string
	jobToken   string
	noCrumb    bool
	timeout    int
	history    string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "jenkinsrun",
		Short:         "Launch Jenkins jobs and follow them to completion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the configuration file")
	flags.StringVar(&opts.url, "url", "", "Jenkins base URL")
	flags.StringVar(&opts.username, "user", "", "Jenkins username")
	flags.StringVar(&opts.password, "password", "", "Jenkins password or API token")
	flags.StringVar(&opts.jobToken, "job-token", "", "Remote trigger token of the job")
	flags.BoolVar(&opts.noCrumb, "no-crumb", false, "Do not fetch a CSRF crumb before launching")
	flags.IntVar(&opts.timeout, "request-timeout", 0, "Per-request timeout in seconds (0: no bound)")
	flags.StringVar(&opts.history, "history", "", "Path to the run history database")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (json, text)")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))

	return cmd
}

// load reads the configuration with the flags that were set on cmd applied on
// top, and initializes the logger on the command's stderr.
func (o *rootOptions) load(cmd *cobra.Command, validate bool, extra ...func(*config.Config)) (*config.Config, error) {
	flags := cmd.Flags()
	overrides := append([]func(*config.Config){func(c *config.Config) {
		if flags.Changed("url") {
			c.Jenkins.URL = o.url
		}
		if flags.Changed("user") {
			c.Jenkins.Username = o.username
		}
		if flags.Changed("password") {
			c.Jenkins.Password = o.password
		}
		if flags.Changed("job-token") {
			c.Jenkins.JobToken = o.jobToken
		}
		if flags.Changed("no-crumb") {
			crumb := !o.noCrumb
			c.Jenkins.Crumb = &crumb
		}
		if flags.Changed("request-timeout") {
			c.Jenkins.Timeout = o.timeout
		}
		if flags.Changed("history") {
			c.History.Path = o.history
		}
		if flags.Changed("log-level") {
			c.Log.Level = o.logLevel
		}
		if flags.Changed("log-format") {
			c.Log.Format = o.logFormat
		}
	}}, extra...)

	var (
		cfg *config.Config
		err error
	)
	if validate {
		cfg, err = config.Load(o.configPath, overrides...)
	} else {
		cfg, err = config.Read(o.configPath, overrides...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
