package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	logAdapter "github.com/bft-labs/ans/internal/adapters/log"
	"github.com/bft-labs/ans/internal/cliconfig"
	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/watch"
	"github.com/bft-labs/ans/pkg/ans"
)

func (c *cli) openRegistry(ctx context.Context) (*ans.Registry, error) {
	logger := logAdapter.NewZerologAdapterWithLogger(c.log)
	reg, err := ans.New(ctx, ans.Config{
		StateDir:  c.cfg.StateDir,
		MinLength: c.cfg.MinLength,
		MaxLength: c.cfg.MaxLength,
		Paid:      c.cfg.Paid,
	}, ans.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	return reg, nil
}

func (c *cli) parseName(arg string) (ans.Name, error) {
	if !c.hex {
		return ans.Name(arg), nil
	}
	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("decode hex name: %w", err)
	}
	return ans.Name(b), nil
}

func (c *cli) genesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Apply fee settings and initial balances from a genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.GenesisFile == "" {
				return fmt.Errorf("genesis file is required (--genesis or genesis_file)")
			}
			gf, err := cliconfig.LoadGenesisFile(c.cfg.GenesisFile)
			if err != nil {
				return fmt.Errorf("load genesis: %w", err)
			}
			g, err := gf.GenesisConfig()
			if err != nil {
				return fmt.Errorf("genesis %s: %w", c.cfg.GenesisFile, err)
			}

			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if err := reg.Genesis(cmd.Context(), g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "genesis applied: fee %s, %d balances\n", formatBalance(g.ReservationFee), len(g.Balances))
			return nil
		},
	}
	cmd.Flags().StringVar(&c.cfg.GenesisFile, "genesis", c.cfg.GenesisFile, "path to genesis TOML file")
	return cmd
}

func (c *cli) reserveCmd() *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "reserve NAME",
		Short: "Reserve a free name for the caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.parseName(args[0])
			if err != nil {
				return err
			}
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if err := reg.Reserve(cmd.Context(), ans.AccountID(caller), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reserved %s for %s\n", name, caller)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "authenticated account performing the operation")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}

func (c *cli) transferCmd() *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "transfer NAME TO",
		Short: "Transfer a name owned by the caller to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.parseName(args[0])
			if err != nil {
				return err
			}
			to := ans.AccountID(args[1])
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if err := reg.TransferTo(cmd.Context(), ans.AccountID(caller), name, to); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transferred %s from %s to %s\n", name, caller, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "authenticated account performing the operation")
	_ = cmd.MarkFlagRequired("caller")
	return cmd
}

func (c *cli) ownerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner NAME",
		Short: "Print the current owner of a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.parseName(args[0])
			if err != nil {
				return err
			}
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			owner, ok := reg.OwnerOf(name)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is free\n", name)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), owner)
			return nil
		},
	}
}

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance ACCOUNT",
		Short: "Print an account's ledger balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatBalance(reg.BalanceOf(ans.AccountID(args[0]))))
			return nil
		},
	}
}

func (c *cli) namesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List every registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range reg.Registrations() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, r.Owner)
			}
			return nil
		},
	}
}

func (c *cli) eventsCmd() *cobra.Command {
	var after uint64
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the event journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range reg.Events(after) {
				fmt.Fprintln(cmd.OutOrStdout(), formatRecord(rec))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&after, "after", 0, "only list events with a greater sequence number")
	return cmd
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print registry settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			s := reg.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name length:         %d..%d\n", s.MinLength, s.MaxLength)
			fmt.Fprintf(out, "paid:                %v\n", s.Paid)
			fmt.Fprintf(out, "initialized:         %v\n", s.Initialized)
			fmt.Fprintf(out, "reservation fee:     %s\n", formatBalance(s.ReservationFee))
			if s.ReservationAccount != nil {
				fmt.Fprintf(out, "reservation account: %s\n", *s.ReservationAccount)
			} else {
				fmt.Fprintf(out, "reservation account: (unset)\n")
			}
			fmt.Fprintf(out, "registrations:       %d\n", len(reg.Registrations()))
			return nil
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var fromStart bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the registry and print new events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			w := watch.New(c.cfg.StateDir, watch.Config{
				DebounceDelay: c.cfg.WatchDebounce,
				FromStart:     fromStart,
			}, logAdapter.NewZerologAdapterWithLogger(c.log), func(rec domain.Record) {
				fmt.Fprintln(out, formatRecord(rec))
			})
			return w.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print the existing journal before following")
	cmd.Flags().DurationVar(&c.cfg.WatchDebounce, "watch-debounce", c.cfg.WatchDebounce, "delay after a change before reloading")
	return cmd
}

func formatBalance(b ans.Balance) string {
	return humanize.BigComma(new(big.Int).SetUint64(uint64(b)))
}

func formatRecord(rec ans.Record) string {
	switch rec.Kind {
	case ans.EventReserved:
		return fmt.Sprintf("#%d reserved %s by %s", rec.Seq, rec.Name, rec.Who)
	case ans.EventTransferred:
		return fmt.Sprintf("#%d transferred %s from %s to %s", rec.Seq, rec.Name, rec.From, rec.To)
	default:
		return fmt.Sprintf("#%d %s %s", rec.Seq, rec.Kind, rec.Name)
	}
}
