package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"conda-project/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "CONDA_PROJECT"

type RootConfig struct {
	Directory string
	LogLevel  string
	Verbose   bool
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "conda-project",
		Short:         "Tool for encapsulating, running, and reproducing conda environments",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			initConfig()
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.Directory, "directory", ".", "Project directory")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", false, "Stream subprocess output instead of a spinner")
	_ = viper.BindPFlag("directory", cmd.PersistentFlags().Lookup("directory"))
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newLockCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newRemoveCommand())
	cmd.AddCommand(newCleanCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newActivateCommand())
	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newAppService() app.Service {
	return app.NewService(app.Config{
		CondaExe:  viper.GetString("conda_exe"),
		SolverExe: viper.GetString("solver_exe"),
		EnvsPath:  splitEnvsPath(viper.GetString("envs_path")),
	})
}

// splitEnvsPath parses the CONDA_PROJECT_ENVS_PATH override, an
// os.PathListSeparator separated list of candidate roots.
func splitEnvsPath(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var candidates []string
	for _, entry := range strings.Split(value, string(os.PathListSeparator)) {
		if entry = strings.TrimSpace(entry); entry != "" {
			candidates = append(candidates, entry)
		}
	}
	return candidates
}

func projectDirectory() string {
	return viper.GetString("directory")
}

func verboseOutput() bool {
	return viper.GetBool("verbose")
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
