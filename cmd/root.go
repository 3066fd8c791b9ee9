package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"weaktrace/internal/banner"
	"weaktrace/internal/cli"
	"weaktrace/internal/config"
	"weaktrace/internal/styles"
)

var cfgFile string

var rootCmd = newRootCmd(viper.GetViper())

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weaktrace [output_dir] [duration_seconds] [min_kbps] [max_kbps]",
		Short: "weaktrace - mahimahi weak network trace generator",
		Long: `
weaktrace writes a pair of mahimahi mm-link trace files (uplink and downlink)
whose bandwidth swings between min_kbps and max_kbps on a 30 second sine,
with random variation on top. Each line is the millisecond timestamp of one
1500 byte delivery opportunity.

Defaults: output_dir=~/mahimahi/traces duration_seconds=300 min_kbps=500 max_kbps=2000

Values starting with '-' must follow a '--' separator.`,
		Example: `  weaktrace
  weaktrace ./traces 60 300 1200
  WEAKTRACE_VARIATION=0.1 weaktrace /tmp/traces`,
		Args:          cobra.MaximumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromViper(v)
			if err := cfg.ApplyArgs(args); err != nil {
				return err
			}
			_, err := cli.Run(cfg, cmd.OutOrStdout())
			return err
		},
	}

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), banner.GetString())
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
	})
	cmd.SetFlagErrorFunc(flagError)

	flags := cmd.Flags()
	flags.Float64("variation", config.DefaultVariation, "Random bandwidth variation (0.2 = ±20%)")
	flags.Uint64("up-seed", config.DefaultUpSeed, "Random seed for the uplink trace")
	flags.Uint64("down-seed", config.DefaultDownSeed, "Random seed for the downlink trace")
	flags.String("prefix", config.DefaultPrefix, "Trace file name prefix")
	flags.BoolP("quiet", "q", false, "Suppress the report")

	config.SetDefaults(v)
	for key, flag := range map[string]string{
		config.KeyVariation: "variation",
		config.KeyUpSeed:    "up-seed",
		config.KeyDownSeed:  "down-seed",
		config.KeyPrefix:    "prefix",
		config.KeyQuiet:     "quiet",
	} {
		v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

// flagError reports a positional number that pflag took for a shorthand
// flag (e.g. "-5") as a bad argument instead of an unknown flag.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, " in -"); i >= 0 && strings.HasPrefix(msg, "unknown shorthand flag") {
		arg := msg[i+len(" in "):]
		if _, cerr := cast.ToFloat64E(arg); cerr == nil {
			return xerrors.Errorf("value %s is negative, all values must be positive (put values starting with '-' after --): %w", arg, config.ErrBadArgument)
		}
	}
	return err
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weaktrace.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".weaktrace")
		}
	}
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, styles.Error.Render("error: ")+"reading config: "+err.Error())
			os.Exit(1)
		}
	}
}
