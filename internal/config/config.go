package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	yaml "gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Jenkins JenkinsConfig `yaml:"jenkins"`
	Search  SearchConfig  `yaml:"search"`
	Monitor MonitorConfig `yaml:"monitor"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// JenkinsConfig represents the Jenkins server configuration
type JenkinsConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`  // Password or API token used for basic auth
	JobToken string `yaml:"job_token"` // Remote trigger token of the job (optional)
	Crumb    *bool  `yaml:"crumb"`     // Fetch a CSRF crumb before launching (default: true)
	Timeout  int    `yaml:"timeout"`   // Per-request timeout in seconds (0: transport default)
}

// SearchConfig holds the timing of the phase that looks for the launched build.
// Zero selects the default.
type SearchConfig struct {
	Interval int `yaml:"interval"` // Seconds between build list probes (0: default 5)
	Timeout  int `yaml:"timeout"`  // Seconds before giving up on the search (0: default 70)
}

// MonitorConfig holds optional lower bounds for the derived monitor timing
type MonitorConfig struct {
	MinInterval int `yaml:"min_interval"`
	MinTimeout  int `yaml:"min_timeout"`
}

// HistoryConfig represents the run history database configuration
type HistoryConfig struct {
	Path string `yaml:"path"` // Empty disables run history
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ErrJobTokenRequired is returned when a build would be launched without the
// job's remote trigger token. Jenkins only keeps the cause note of a remotely
// triggered build, so the launched build could never be found again.
var ErrJobTokenRequired = errors.New("jenkins.job_token is required to launch a build")

// ValidateLaunch checks the settings needed to launch a build
func (c JenkinsConfig) ValidateLaunch() error {
	if c.JobToken == "" {
		return ErrJobTokenRequired
	}
	return nil
}

// CrumbEnabled reports whether a crumb should be fetched before launching
func (c JenkinsConfig) CrumbEnabled() bool {
	return c.Crumb == nil || *c.Crumb
}

// Load reads the configuration with Read and validates it
func Load(filePath string, overrides ...func(*Config)) (*Config, error) {
	config, err := Read(filePath, overrides...)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Read loads the configuration from the given file path without validating it.
// An empty path skips the file. Overrides are applied after the environment and
// before defaults.
func Read(filePath string, overrides ...func(*Config)) (*Config, error) {
	config := &Config{}

	if filePath != "" {
		data, err := os.ReadFile(filePath) //nolint:gosec // Trusted file path input
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
	}

	applyEnvVars(config)

	for _, override := range overrides {
		override(config)
	}

	setDefaults(config)

	return config, nil
}

// applyEnvVars applies environment variables to the configuration
func applyEnvVars(config *Config) {
	// Jenkins configuration
	if url := os.Getenv("JENKINSRUN_JENKINS_URL"); url != "" {
		config.Jenkins.URL = url
	}
	if username := os.Getenv("JENKINSRUN_JENKINS_USERNAME"); username != "" {
		config.Jenkins.Username = username
	}
	if password := os.Getenv("JENKINSRUN_JENKINS_PASSWORD"); password != "" {
		config.Jenkins.Password = password
	}
	if token := os.Getenv("JENKINSRUN_JENKINS_JOB_TOKEN"); token != "" {
		config.Jenkins.JobToken = token
	}
	if crumb := os.Getenv("JENKINSRUN_JENKINS_CRUMB"); crumb != "" {
		if b, err := strconv.ParseBool(crumb); err == nil {
			config.Jenkins.Crumb = &b
		}
	}
	if timeout := os.Getenv("JENKINSRUN_JENKINS_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t >= 0 {
			config.Jenkins.Timeout = t
		}
	}

	// Search timing
	if interval := os.Getenv("JENKINSRUN_SEARCH_INTERVAL"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			config.Search.Interval = i
		}
	}
	if timeout := os.Getenv("JENKINSRUN_SEARCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Search.Timeout = t
		}
	}

	// History configuration
	if path := os.Getenv("JENKINSRUN_HISTORY_PATH"); path != "" {
		config.History.Path = path
	}

	// Logging configuration
	if level := os.Getenv("JENKINSRUN_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if format := os.Getenv("JENKINSRUN_LOG_FORMAT"); format != "" {
		config.Log.Format = format
	}
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	if config.Search.Interval == 0 {
		config.Search.Interval = 5
	}
	if config.Search.Timeout == 0 {
		config.Search.Timeout = 70
	}

	if config.Jenkins.Crumb == nil {
		crumb := true
		config.Jenkins.Crumb = &crumb
	}

	config.Log.Level = normalizeLogLevel(config.Log.Level)
	if config.Log.Format == "" {
		config.Log.Format = "json"
	}
}

// normalizeLogLevel maps unknown levels to info
func normalizeLogLevel(level string) string {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if _, ok := validLevels[level]; ok {
		return level
	}

	return "info"
}

// Validate checks the configuration and reports every problem found
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Jenkins.URL == "" {
		errs = multierror.Append(errs, errors.New("jenkins.url is required"))
	} else if u, err := url.Parse(c.Jenkins.URL); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid jenkins.url: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = multierror.Append(errs, fmt.Errorf("invalid jenkins.url: unsupported scheme %q", u.Scheme))
	}
	if c.Jenkins.Username == "" {
		errs = multierror.Append(errs, errors.New("jenkins.username is required"))
	}
	if c.Jenkins.Password == "" {
		errs = multierror.Append(errs, errors.New("jenkins.password is required"))
	}
	if c.Jenkins.Timeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid jenkins.timeout: %d (must be non-negative)", c.Jenkins.Timeout))
	}

	if c.Search.Interval <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid search.interval: %d (must be positive)", c.Search.Interval))
	}
	if c.Search.Timeout <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid search.timeout: %d (must be positive)", c.Search.Timeout))
	}

	if c.Monitor.MinInterval < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid monitor.min_interval: %d (must be non-negative)", c.Monitor.MinInterval))
	}
	if c.Monitor.MinTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid monitor.min_timeout: %d (must be non-negative)", c.Monitor.MinTimeout))
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = multierror.Append(errs, fmt.Errorf("invalid log.format: %q (must be json or text)", c.Log.Format))
	}

	return errs.ErrorOrNil()
}
