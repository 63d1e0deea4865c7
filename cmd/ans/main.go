package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ans/internal/cliconfig"
)

const helpDescription = `
Reserve names and hand them over, with optional fee-gated reservations.

The CLI acts as the host for a local registry: it trusts the --caller it is
given, applies one operation at a time and persists the registry snapshot
under --state-dir after every successful operation. Several ans processes may
share one state directory; each operation holds a lock on it.

The paid setting and the name length bounds are fixed by the first operation
that writes the state directory. Later runs must use the same values, so keep
them in the config file.

Configuration is read from $HOME/.ans/config.toml, then ANS_* environment
variables, then flags, each overriding the last.
`

var exampleUsage = strings.TrimSpace(`
  ans genesis --genesis ./genesis.toml --paid
  ans reserve alice --caller alice --paid
  ans transfer alice bob --caller alice --paid
  ans owner alice --paid
  ans watch --from-start
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration to subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	hex     bool
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: cliconfig.DefaultConfig()}

	root := &cobra.Command{
		Use:           "ans",
		Short:         "Name reservation registry",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.ans/config.toml)")
	flags.StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory holding the registry snapshot")
	flags.IntVar(&c.cfg.MinLength, "min-length", c.cfg.MinLength, "minimum name length in bytes")
	flags.IntVar(&c.cfg.MaxLength, "max-length", c.cfg.MaxLength, "maximum name length in bytes")
	flags.BoolVar(&c.cfg.Paid, "paid", c.cfg.Paid, "require the reservation fee")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&c.hex, "hex", false, "treat NAME arguments as hex-encoded bytes")

	root.AddCommand(
		c.genesisCmd(),
		c.reserveCmd(),
		c.transferCmd(),
		c.ownerCmd(),
		c.balanceCmd(),
		c.namesCmd(),
		c.eventsCmd(),
		c.infoCmd(),
		c.watchCmd(),
	)
	return root
}

// loadConfig layers the config file, then ANS_* env vars, under any flags
// the user set explicitly.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.log = cliconfig.Logger(c.cfg.LogLevel)
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logger := cliconfig.Logger("info")
		logger.Error().Err(err).Msg("ans")
		os.Exit(1)
	}
}
