// Package cli implements the retronet command, a host environment that
// drives the visitor state manager against a persistent partition.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ashureev/retronet/internal/config"
	"github.com/ashureev/retronet/internal/relay"
	"github.com/ashureev/retronet/internal/store"
	"github.com/ashureev/retronet/internal/tracker"
	"github.com/spf13/cobra"
)

type options struct {
	cfg       *config.ClientConfig
	dbPath    string
	partition string
	endpoint  string
	memory    bool
	timeout   time.Duration
}

// NewRootCmd builds the retronet command tree from cfg.
func NewRootCmd(cfg *config.ClientConfig) *cobra.Command {
	opts := &options{cfg: cfg}

	root := &cobra.Command{
		Use:   "retronet",
		Short: "Drive RetroNet visitor state from the command line",
		Long: `retronet tracks a visitor's session, page path and profile in a local
partition, asks the generation relay for personalized copy, and renders
template pages with visitor variables injected.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", cfg.DBPath, "SQLite database path")
	root.PersistentFlags().StringVar(&opts.partition, "partition", cfg.Partition, "storage partition (one per visitor)")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", cfg.ProxyEndpoint, "generation relay endpoint")
	root.PersistentFlags().BoolVar(&opts.memory, "memory", false, "use an ephemeral in-memory store")
	root.PersistentFlags().DurationVar(&opts.timeout, "relay-timeout", 0, "relay request timeout (0 waits indefinitely)")

	root.AddCommand(
		newSessionCmd(opts),
		newVisitCmd(opts),
		newTickCmd(opts),
		newWatchCmd(opts),
		newProfileCmd(opts),
		newAPIKeyCmd(opts),
		newPreviewCmd(opts),
		newListicleCmd(opts),
		newProductsCmd(opts),
		newInjectCmd(opts),
		newExportCmd(opts),
		newClearCmd(opts),
		newPartitionsCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context, cfg *config.ClientConfig) error {
	return NewRootCmd(cfg).ExecuteContext(ctx)
}

func (o *options) openStore() (store.Store, error) {
	if o.memory {
		return store.NewMemory(), nil
	}
	s, err := store.NewSQLite(o.dbPath, o.partition)
	if err != nil {
		return nil, fmt.Errorf("open partition %q: %w", o.partition, err)
	}
	return s, nil
}

// openManager opens the partition and returns a manager plus a close func.
func (o *options) openManager(ctx context.Context) (*tracker.Manager, func(), error) {
	s, err := o.openStore()
	if err != nil {
		return nil, nil, err
	}
	gen := relay.NewClient(o.endpoint, &http.Client{Timeout: o.timeout})
	m, err := tracker.New(ctx, s, gen)
	if err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("initialize state: %w", err)
	}
	return m, func() { _ = s.Close() }, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
