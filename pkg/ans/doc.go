// Package ans provides an embeddable name reservation registry.
//
// A registry maps bounded byte-string names to owning accounts. Names are
// claimed with [Registry.Reserve] and handed over with [Registry.TransferTo].
// In the paid variant every reservation first moves a flat fee from the
// reserver to a configured reservation account.
//
// # Basic Usage
//
//	cfg := ans.DefaultConfig()
//	cfg.StateDir = "/var/lib/ans"
//	cfg.Paid = true
//
//	reg, err := ans.New(ctx, cfg, ans.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	treasury := ans.AccountID("treasury")
//	err = reg.Genesis(ctx, ans.GenesisConfig{
//	    ReservationFee:     10,
//	    ReservationAccount: &treasury,
//	    Balances:           map[ans.AccountID]ans.Balance{"alice": 100},
//	})
//
//	if err := reg.Reserve(ctx, "alice", ans.Name("alice")); err != nil {
//	    // errors.Is(err, ans.ErrAlreadyReserved), ...
//	}
//
// # Host Responsibilities
//
// The registry trusts the caller identity it is given; authenticate callers
// before invoking it. Every operation is serialized by the Registry and
// either fully commits (including the snapshot write when StateDir is set)
// or leaves state exactly as it was.
//
// # Events
//
// Successful operations append [Record] entries to an ordered journal. Pass
// an [EventHandler] via [WithEventHandler] to be notified after each commit.
//
// # Version
//
// Current version: 1.0.0
package ans
