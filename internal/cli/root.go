// Package cli implements clusterctl, a command line client for the cluster
// API built on the SDK.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/internal/queue"
	"github.com/birbparty/clusterapi/internal/telemetry"
	"github.com/birbparty/clusterapi/sdk"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type options struct {
	configFile string
	envFile    string
	url        string
	token      string
	timeout    time.Duration
	output     string
	publish    bool
	debug      bool
}

// app carries what the commands share. The client is built in the root
// PersistentPreRunE, after flags are parsed.
type app struct {
	opts   options
	out    io.Writer
	errOut io.Writer

	format   string
	logger   *logrus.Logger
	client   *sdk.Client
	queue    *queue.Client
	reporter *queue.Reporter
	affected sdk.AffectedClusters
}

// Execute runs clusterctl with the process arguments and returns the exit
// code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, errOut: os.Stderr}
	err := run(ctx, a, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	err := cmd.ExecuteContext(ctx)
	a.close()
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "clusterctl",
		Short:         "Manage cluster API resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default $"+EnvConfigFile+" or ~/.clusterctl.yaml)")
	flags.StringVar(&a.opts.envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")
	flags.StringVar(&a.opts.url, "url", "", "cluster API base URL")
	flags.StringVar(&a.opts.token, "token", "", "cluster API token")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "request timeout")
	flags.StringVarP(&a.opts.output, "output", "o", "", "output format: json|yaml")
	flags.BoolVar(&a.opts.publish, "publish", false, "publish affected clusters to NATS")
	flags.BoolVar(&a.opts.debug, "debug", false, "log every request")

	root.AddCommand(
		newCmsesCmd(a),
		newMailAccountsCmd(a),
		newVirtualHostsCmd(a),
		newPassengerAppsCmd(a),
		newDomainRoutersCmd(a),
		newClustersCmd(a),
		newBorgCmd(a),
		newReportsCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup builds the client. Settings apply in this order, later ones
// winning: SDK defaults, environment (after the dotenv file), config file,
// flags.
func (a *app) setup(cmd *cobra.Command) error {
	if err := loadEnvFile(a.opts.envFile); err != nil {
		return err
	}

	configPath, required := a.opts.configFile, a.opts.configFile != ""
	if !required {
		configPath = DefaultConfigPath()
	}
	file, err := LoadFileConfig(configPath, required)
	if err != nil {
		return err
	}

	a.format = formatJSON
	if file.Output != "" {
		a.format = file.Output
	}
	if a.opts.output != "" {
		a.format = a.opts.output
	}
	if a.format != formatJSON && a.format != formatYAML {
		return fmt.Errorf("unsupported output format %q: use json or yaml", a.format)
	}

	tcfg := telemetry.NewConfigFromEnv("clusterctl")
	if os.Getenv("LOG_LEVEL") == "" {
		tcfg.LogLevel = "warn"
	}
	if a.opts.debug {
		tcfg.LogLevel = "debug"
	}
	a.logger = telemetry.NewLogger(tcfg, a.errOut)

	tp, err := telemetry.InitTracing(cmd.Context(), tcfg)
	if err != nil {
		return err
	}

	cfg, err := sdk.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	if err := file.Apply(cfg); err != nil {
		return err
	}
	if a.opts.url != "" {
		cfg.WithBaseURL(a.opts.url)
	}
	if a.opts.token != "" {
		cfg.WithToken(a.opts.token)
	}
	if a.opts.timeout > 0 {
		cfg.WithTimeout(a.opts.timeout)
	}

	observer := sdk.Observer(&sdk.LogObserver{Logger: a.logger})
	if a.opts.publish || file.Publish {
		qcfg, err := queue.NewConfigFromEnv()
		if err != nil {
			return err
		}
		a.queue, err = queue.NewClient(qcfg, a.logger, nil)
		if err != nil {
			return err
		}
		a.reporter = queue.NewReporter(a.queue, "clusterctl", qcfg.PublishTimeout, a.logger)
		observer = sdk.NewCompositeObserver(observer, a.reporter)
	}

	a.client, err = sdk.NewClient(cfg.
		WithLogger(a.logger).
		WithTracerProvider(tp).
		WithObserver(observer))
	return err
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// close flushes pending reports and releases the connections
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.reporter != nil {
		if err := a.reporter.Close(ctx); err != nil {
			a.logger.WithError(err).Warn("Failed to flush affected cluster reports")
		}
		stats := a.reporter.Stats()
		if stats.Failed > 0 || stats.Dropped > 0 {
			fmt.Fprintf(a.errOut, "warning: %d cluster reports failed, %d dropped\n", stats.Failed, stats.Dropped)
		}
	}
	if a.queue != nil {
		_ = a.queue.Close()
	}
	if a.client != nil {
		_ = a.client.Close()
	}
	_ = telemetry.CloseTracing(ctx)
}
