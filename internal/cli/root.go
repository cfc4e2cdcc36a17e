// Package cli defines the command-line interface for langfusectl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/langfuse-k8s/langfusectl/internal/argocd"
	"github.com/langfuse-k8s/langfusectl/internal/config"
	"github.com/langfuse-k8s/langfusectl/internal/env"
	"github.com/langfuse-k8s/langfusectl/internal/kube"
	"github.com/langfuse-k8s/langfusectl/internal/logging"
	"github.com/langfuse-k8s/langfusectl/internal/registry"
	"github.com/langfuse-k8s/langfusectl/internal/render"
	"github.com/langfuse-k8s/langfusectl/internal/runner"
	"github.com/langfuse-k8s/langfusectl/internal/steps"
)

// Options stores global CLI options shared between commands.
type Options struct {
	RegistryPath string
	SecretsPath  string
	Env          string
	Vars         string
	All          bool
	LogLevel     logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with its flags.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langfusectl",
		Short: "langfusectl drives Langfuse GitOps deployments across environments",
		Long: "langfusectl is an operator workflow runner that installs Argo CD, provisions secrets " +
			"and deploys Langfuse to every environment declared in environments.yaml. " +
			"Without flags it presents an interactive step menu; with --all it runs the full batch once.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&opts.RegistryPath, "config", "c", "", "Path to the environments.yaml registry (default: environments.yaml)")
	cmd.Flags().StringVar(&opts.SecretsPath, "secrets-file", "", "Path to the Langfuse secrets document")
	cmd.Flags().StringVar(&opts.Env, "env", "", "Environment name for single-environment steps (default: first registry record)")
	cmd.Flags().StringVar(&opts.Vars, "vars", "", "Additional template variables in k=v,k2=v2 format")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Run every step in order non-interactively and exit")

	return cmd
}

// run wires the collaborators together and dispatches to batch or menu mode.
func run(cmd *cobra.Command, opts *Options) error {
	logger := LoggerFromContext(cmd.Context())

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if opts.RegistryPath != "" {
		settings.RegistryPath = opts.RegistryPath
	}
	if opts.SecretsPath != "" {
		settings.SecretsPath = opts.SecretsPath
	}

	// Registry load failures are fatal before any step runs.
	reg, err := registry.Load(settings.RegistryPath)
	if err != nil {
		return err
	}
	logger.Debug("registry loaded", "path", settings.RegistryPath, "environments", len(reg.Records))

	inlineVars, err := env.ParseInlineVars(opts.Vars)
	if err != nil {
		return err
	}
	fileVars, err := env.LoadEnvFiles(reg.BaseDir, reg.EnvFiles)
	if err != nil {
		return err
	}
	vars := env.Merge(env.FromOS(), fileVars, inlineVars)

	out := cmd.OutOrStdout()
	toolbox := &steps.Toolbox{
		Kube:      kube.NewClient(settings.Kubeconfig, settings.KubeContext),
		Argo:      argocd.NewClient(settings.ArgoNamespace),
		Renderer:  render.NewRenderer(settings.ArgoNamespace, vars),
		Registry:  reg,
		Settings:  settings,
		Logger:    logger,
		Out:       out,
		LookPath:  exec.LookPath,
		TargetEnv: opts.Env,
	}

	ctrl := runner.New(steps.Catalog(toolbox), logger, printOutcome(out))

	if opts.All {
		toolbox.Confirm = declineConfirm(logger)
		res, err := ctrl.Run(cmd.Context(), runner.FullBatch())
		if err != nil {
			return err
		}
		if res.State != runner.StateCompleted {
			return fmt.Errorf("batch ended %s", res.State)
		}
		logger.Info("batch completed", "steps", len(res.Outcomes))
		return nil
	}

	menu, err := newMenu(out, logger)
	if err != nil {
		return err
	}
	defer menu.Close()
	toolbox.Confirm = menu.Confirm

	return menu.Loop(cmd.Context(), ctrl)
}

// printOutcome echoes each step outcome to the operator as it arrives.
func printOutcome(out io.Writer) func(steps.Outcome) {
	return func(o steps.Outcome) {
		switch o.Status {
		case steps.StatusSuccess:
			fmt.Fprintf(out, "[ ok ] %s: %s\n", o.StepID, o.Message)
		case steps.StatusSkipped:
			fmt.Fprintf(out, "[skip] %s: %s\n", o.StepID, o.Message)
		default:
			fmt.Fprintf(out, "[fail] %s: %s\n", o.StepID, o.Message)
		}
	}
}

// declineConfirm answers confirmation prompts in non-interactive mode.
// It declines, which skips the asking step rather than halting the batch.
func declineConfirm(logger *slog.Logger) steps.ConfirmFunc {
	return func(prompt string) (bool, error) {
		logger.Warn("confirmation required but running non-interactively; declining", "prompt", prompt)
		return false, nil
	}
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
