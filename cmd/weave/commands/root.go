// Package commands implements the CLI commands for weave.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/app"
	"go.trai.ch/weave/internal/build"
	"go.trai.ch/weave/internal/core/ports"
)

// Application represents the application logic interface.
type Application interface {
	Generate(ctx context.Context, opts app.RunOptions) error
	Check(ctx context.Context, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context) error
}

// logSettings is implemented by loggers whose format and level can change at runtime.
type logSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// CLI represents the command line interface for weave.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	injectors  []string
	jobs       int
	jsonLogs   bool
	verbose    bool
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	c := &CLI{app: a, logger: log}

	rootCmd := &cobra.Command{
		Use:           "weave",
		Short:         "Resolve dependency bindings and generate injector plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if s, ok := c.logger.(logSettings); ok {
				s.SetJSON(c.jsonLogs)
				s.SetVerbose(c.verbose)
			}
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "weave.yaml", "Path to the declaration file")
	flags.StringSliceVar(&c.injectors, "injector", nil, "Only process the named injectors")
	flags.IntVarP(&c.jobs, "jobs", "j", 0, "Number of injectors processed in parallel (0 means one per CPU)")
	flags.BoolVar(&c.jsonLogs, "json", false, "Write logs as JSON")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log implicit bindings and skipped modules")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) runOptions() app.RunOptions {
	return app.RunOptions{
		ConfigPath: c.configPath,
		Injectors:  c.injectors,
		Jobs:       c.jobs,
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
