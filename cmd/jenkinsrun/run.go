package main

import (
	"encoding/json"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/spf13/cobra"

	"jenkinsrun/internal/config"
	"jenkinsrun/internal/engine/jenkins"
	"jenkinsrun/internal/jobrun"
	"jenkinsrun/internal/logger"
	"jenkinsrun/internal/storage"
	"jenkinsrun/internal/storage/models"
)

type runOptions struct {
	job            string
	buildID        string
	params         []string
	paramsFile     string
	state          string
	searchInterval int
	searchTimeout  int
	minInterval    int
	minTimeout     int
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch a job, or follow an existing build",
		Long: `Launch a parameterized Jenkins job and optionally wait for its result.

With --state present the build is launched and the command returns at once.
With --state finished the launched build is located by its correlation token
and monitored until Jenkins reports a result. --build-id skips launching and
monitors an existing build.

Launching requires the job's remote trigger token (--job-token or
jenkins.job_token): Jenkins only records the correlation note of remotely
triggered builds.

The monitor interval and window are derived from the build's estimated
duration. Jenkins reports no estimate for the first build of a job, which
leaves no time to monitor it; set --monitor-min-interval and
--monitor-min-timeout (monitor.min_interval and monitor.min_timeout in the
configuration file) to give such builds a minimum window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.job, "job", "", "Name of the job (folders separated by /)")
	flags.StringVar(&opts.buildID, "build-id", "", "Existing build to monitor instead of launching")
	flags.StringArrayVar(&opts.params, "param", nil, "Build parameter as name=value (repeatable)")
	flags.StringVar(&opts.paramsFile, "params-file", "", "YAML file with a list of {name, value} parameters")
	flags.StringVar(&opts.state, "state", string(jobrun.Present), "Desired state (present, finished)")
	flags.IntVar(&opts.searchInterval, "search-interval", 0, "Seconds between build search probes (0: default 5)")
	flags.IntVar(&opts.searchTimeout, "search-timeout", 0, "Seconds before the build search gives up (0: default 70)")
	flags.IntVar(&opts.minInterval, "monitor-min-interval", 0, "Lower bound in seconds of the derived monitor interval")
	flags.IntVar(&opts.minTimeout, "monitor-min-timeout", 0, "Lower bound in seconds of the derived monitor window")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}

func runJob(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	flags := cmd.Flags()
	cfg, err := root.load(cmd, true, func(c *config.Config) {
		if flags.Changed("search-interval") {
			c.Search.Interval = opts.searchInterval
		}
		if flags.Changed("search-timeout") {
			c.Search.Timeout = opts.searchTimeout
		}
		if flags.Changed("monitor-min-interval") {
			c.Monitor.MinInterval = opts.minInterval
		}
		if flags.Changed("monitor-min-timeout") {
			c.Monitor.MinTimeout = opts.minTimeout
		}
	})
	if err != nil {
		return err
	}

	// Monitoring an existing build never posts to Jenkins
	if opts.buildID == "" {
		if err := cfg.Jenkins.ValidateLaunch(); err != nil {
			return err
		}
	}

	desired, err := jobrun.ParseDesiredState(opts.state)
	if err != nil {
		return err
	}

	params, err := collectParams(opts.params, opts.paramsFile)
	if err != nil {
		return err
	}

	req := jobrun.Request{
		JobName:    opts.job,
		BuildID:    opts.buildID,
		Parameters: params,
		Desired:    desired,
	}

	client := jenkins.NewClient(cfg.Jenkins)
	runner := jobrun.NewRunner(client, clock.NewClock(), jobrun.TimingFromConfig(cfg))

	result, runErr := runner.Run(cmd.Context(), req)

	if cfg.History.Path != "" {
		recordRun(cfg.History.Path, req, result, runErr)
	}

	return writeResult(cmd.OutOrStdout(), desired, result, runErr)
}

// recordRun appends the run to the history database. A history failure never
// changes the outcome of the run.
func recordRun(path string, req jobrun.Request, result *jobrun.Result, runErr error) {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("Failed to open run history", "path", path, "error", err)
		return
	}
	defer store.Close()

	if _, err := store.InsertRun(newRunRecord(req, result, runErr)); err != nil {
		logger.Warn("Failed to record run", "path", path, "error", err)
	}
}

func newRunRecord(req jobrun.Request, result *jobrun.Result, runErr error) models.Run {
	run := models.Run{
		Timestamp: time.Now(),
		JobName:   req.JobName,
		Mode:      "launch",
		Desired:   string(req.Desired),
		BuildID:   req.BuildID,
		State:     string(jobrun.StateFailed),
		Params:    "[]",
	}
	if req.BuildID != "" {
		run.Mode = "monitor"
	}

	if len(req.Parameters) > 0 {
		if data, err := json.Marshal(req.Parameters); err == nil {
			run.Params = string(data)
		}
	}

	if result != nil {
		run.State = string(result.State)
		run.Token = result.Token
		run.Success = result.Success
		run.Message = result.Message()
		if result.Build != nil {
			run.BuildID = result.Build.ID
		}
	}
	if runErr != nil {
		run.Success = false
		run.Error = runErr.Error()
	}

	return run
}
