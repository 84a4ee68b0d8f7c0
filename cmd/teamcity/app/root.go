// Package app implements the teamcity command line tool on top of the api
// and utils packages.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamwoolhether/teamcity/internal/config"
	"github.com/adamwoolhether/teamcity/internal/logging"
)

const cliName = "teamcity"

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// errStatus marks a command that got a non-2xx answer. The status line has
// already been printed when it is returned.
var errStatus = errors.New("server answered with a non-success status")

// GlobalOptions holds the persistent flags and the state derived from them
// before any subcommand runs.
type GlobalOptions struct {
	configPath string
	url        string
	user       string
	password   string
	insecure   bool
	timeout    time.Duration
	rps        int
	burst      int
	logLevel   string
	logFile    string
	query      string
	noColor    bool

	stdout io.Writer
	stderr io.Writer

	cfg     config.Config
	logger  *slog.Logger
	cleanup func() error
}

// Execute runs the command line with args and returns the process exit
// code: 0 on success, 2 when the server answered with a non-2xx status and
// 1 for every other failure.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &GlobalOptions{stdout: stdout, stderr: stderr}

	cmd := NewTeamCityCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	if opts.cleanup != nil {
		if cerr := opts.cleanup(); cerr != nil && opts.logger != nil {
			opts.logger.Error("closing log file", "error", cerr)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errStatus):
		return 2
	default:
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

// NewTeamCityCommand creates the root command with every subcommand.
func NewTeamCityCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     cliName,
		Short:   "Query a TeamCity server over its REST API",
		Version: Version,
		Long: `teamcity issues single requests against a TeamCity server's REST API and
prints the raw response body.

Settings come from an optional YAML file (--config), then TEAMCITY_*
environment variables, then flags. Without --user every command logs in as
guest first; with --user it logs in with HTTP basic auth.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.complete(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.StringVar(&opts.url, "url", "", "server URL; only the host is used and requests go over http ($TEAMCITY_URL)")
	f.StringVarP(&opts.user, "user", "u", "", "basic auth user; guest auth when empty ($TEAMCITY_USER)")
	f.StringVarP(&opts.password, "password", "p", "", "basic auth password ($TEAMCITY_PASSWORD)")
	f.BoolVar(&opts.insecure, "insecure", false, "skip TLS certificate verification ($TEAMCITY_INSECURE)")
	f.DurationVar(&opts.timeout, "timeout", 0, "overall request timeout, 0 for none ($TEAMCITY_TIMEOUT)")
	f.IntVar(&opts.rps, "rps", 0, "max requests per second, 0 for unlimited ($TEAMCITY_RPS)")
	f.IntVar(&opts.burst, "burst", 0, "throttle burst size, defaults to --rps ($TEAMCITY_BURST)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error; info logs every request and response ($TEAMCITY_LOG_LEVEL)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to a rotated file instead of stderr ($TEAMCITY_LOG_FILE)")
	f.StringVarP(&opts.query, "query", "q", "", "gjson path applied to JSON response bodies")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newResourceCommands(opts)...)
	cmd.AddCommand(
		NewArtifactCommand(opts),
		NewSaveCommand(opts),
		NewAuthCommand(opts),
	)

	return cmd
}

// complete resolves the configuration layers and sets up logging.
func (o *GlobalOptions) complete(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = o.url
	}
	if flags.Changed("user") {
		cfg.User = o.user
	}
	if flags.Changed("password") {
		cfg.Password = o.password
	}
	if flags.Changed("insecure") {
		cfg.Insecure = o.insecure
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("rps") {
		cfg.RPS = o.rps
	}
	if flags.Changed("burst") {
		cfg.Burst = o.burst
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if o.noColor {
		color.NoColor = true
	}

	logger, cleanup, err := logging.Setup(cfg.Log, o.stderr)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	o.cleanup = cleanup

	return nil
}
