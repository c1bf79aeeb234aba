package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"jobboard/internal/apierror"
	"jobboard/internal/client"
	intconfig "jobboard/internal/config"
	"jobboard/internal/listquery"
	"jobboard/internal/mutation"
	"jobboard/internal/query"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares. It is built in PersistentPreRunE.
type app struct {
	env      intconfig.ClientEnv
	client   *client.Client
	cache    *query.Cache
	exec     *mutation.Executor
	notifier *printNotifier
}

var (
	current app

	flagBaseURL string
	flagToken   string
	flagTimeout time.Duration
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "jobboardctl",
	Short:         "Browse and edit the job board",
	Long:          `jobboardctl talks to the job board API. Configuration comes from .env and JOBBOARD_* variables; flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.ErrOrStderr())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (default JOBBOARD_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (default JOBBOARD_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "request timeout (default JOBBOARD_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log requests")
}

func setup(stderr io.Writer) error {
	env, err := intconfig.LoadClientEnv()
	if err != nil {
		return err
	}
	if flagBaseURL != "" {
		env.BaseURL = flagBaseURL
	}
	if flagToken != "" {
		env.Token = flagToken
	}
	if flagTimeout > 0 {
		env.Timeout = flagTimeout
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	c, err := client.New(env.BaseURL,
		client.WithToken(env.Token),
		client.WithHTTPClient(&http.Client{Timeout: env.Timeout}),
		client.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	cache, err := query.NewCache(query.CacheOptions{FreshFor: env.FreshFor, FetchTimeout: env.Timeout})
	if err != nil {
		return err
	}
	notifier := &printNotifier{w: stderr}
	current = app{
		env:      env,
		client:   c,
		cache:    cache,
		notifier: notifier,
		exec: mutation.NewExecutor(c, cache,
			mutation.WithNotifier(notifier),
			mutation.WithLogger(logger),
			mutation.WithTimeout(env.Timeout),
		),
	}
	return nil
}

// printNotifier writes toast messages to the terminal.
type printNotifier struct {
	w      io.Writer
	failed bool
}

func (n *printNotifier) Success(message string) {
	fmt.Fprintln(n.w, "ok:", message)
}

func (n *printNotifier) Error(err *apierror.DisplayError) {
	n.failed = true
	fmt.Fprintln(n.w, "error:", err.Message)
	for field, msg := range err.FieldErrors {
		fmt.Fprintf(n.w, "  %s: %s\n", field, msg)
	}
}

func entityArg(name string) (listquery.Schema, error) {
	schema, ok := listquery.SchemaFor(listquery.Entity(name))
	if !ok {
		return listquery.Schema{}, fmt.Errorf("unknown entity %q", name)
	}
	return schema, nil
}
