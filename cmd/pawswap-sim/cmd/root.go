package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "PAWSWAP"

	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// settings carries the resolved configuration and logger into subcommands.
type settings struct {
	v      *viper.Viper
	logger log.Logger
}

// NewRootCmd creates the pawswap-sim root command. Configuration is read, in
// increasing priority, from an optional config file, PAWSWAP_* environment
// variables and flags.
func NewRootCmd() *cobra.Command {
	s := &settings{v: viper.New(), logger: log.NewNopLogger()}

	rootCmd := &cobra.Command{
		Use:   "pawswap-sim",
		Short: "Run constant-product AMM scenarios against an in-memory store",
		Long: `pawswap-sim executes scripted liquidity, swap and oracle scenarios against the
amm keeper backed by an in-memory multistore, then reports pair state and
checks the module invariants.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := s.load(cmd); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), s.v.GetString(flagLogLevel), s.v.GetString(flagLogFormat))
			if err != nil {
				return err
			}
			s.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error|disabled)")
	rootCmd.PersistentFlags().String(flagLogFormat, "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		RunCmd(s),
		QuoteCmd(),
	)
	return rootCmd
}

func (s *settings) load(cmd *cobra.Command) error {
	s.v.SetEnvPrefix(envPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	s.v.AutomaticEnv()

	if err := s.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := s.v.GetString(flagConfig); path != "" {
		s.v.SetConfigFile(path)
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(out io.Writer, level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	switch format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
		opts = append(opts, log.ColorOption(out == os.Stderr))
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return log.NewLogger(out, opts...), nil
}
