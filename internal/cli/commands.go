package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ashureev/retronet/internal/store"
	"github.com/ashureev/retronet/internal/tracker"
	"github.com/spf13/cobra"
)

func newSessionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the visitor session, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return writeJSON(cmd.OutOrStdout(), m.GetOrCreateSession(cmd.Context()))
		},
	}
}

func newVisitCmd(o *options) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "visit <page>",
		Short: "Close the current page and start tracking a new one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			// Leaving a page flushes its time, as an unload would.
			if _, err := m.UpdateTimeSpent(ctx); err != nil {
				return err
			}
			if err := m.TrackPageVisit(ctx, args[0]); err != nil {
				return err
			}
			if title != "" {
				if err := m.SetPageTitle(ctx, title); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tracking %s (%d pages, %ds total)\n",
				args[0], len(m.Path(ctx)), m.TotalTimeSpent(ctx))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "page title used for {{PAGE_TITLE}}")
	return cmd
}

func newTickCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Record time spent on the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			spent, err := m.UpdateTimeSpent(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), spent)
			return nil
		},
	}
}

func newWatchCmd(o *options) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch <page>",
		Short: "Track a page and keep its time updated until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			if _, err := m.UpdateTimeSpent(ctx); err != nil {
				return err
			}
			if err := m.TrackPageVisit(ctx, args[0]); err != nil {
				return err
			}

			s := tracker.NewScheduler(m, interval)
			s.Start(ctx)
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s, press Ctrl+C to leave the page\n", args[0])

			<-ctx.Done()
			s.Stop()

			// Teardown flush runs on a fresh context; ctx is already done.
			spent, err := s.Flush(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "left %s after %ds (%ds total)\n", args[0], spent, m.TotalTimeSpent(cmd.Context()))
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", o.cfg.UpdateInterval, "time update interval")
	return cmd
}

func newProfileCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Read or write visitor profile fields",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the visitor profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return writeJSON(cmd.OutOrStdout(), m.Profile(cmd.Context()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <goals|interests|favourites|role> <value...>",
		Short: "Overwrite one profile field",
		Long: `Overwrite one profile field. goals and role join the remaining
arguments with spaces; interests and favourites take one item per argument.`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"goals", "interests", "favourites", "role"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			values := args[1:]
			switch args[0] {
			case "goals":
				return m.SetGoals(ctx, strings.Join(values, " "))
			case "interests":
				return m.SetInterests(ctx, values)
			case "favourites":
				return m.SetFavourites(ctx, values)
			case "role":
				return m.SetRole(ctx, strings.Join(values, " "))
			default:
				return fmt.Errorf("unknown profile field %q", args[0])
			}
		},
	})
	return cmd
}

func newAPIKeyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apikey <key>",
		Short: "Store an API key entry that survives clear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return m.SetAPIKey(cmd.Context(), args[0])
		},
	}
}

func newPreviewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <1|2|3>",
		Short: "Generate an article preview from the stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("article type must be 1, 2 or 3: %w", err)
			}
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			p, err := m.GenerateArticlePreview(ctx, tracker.ArticleType(n), m.Goals(ctx), m.Interests(ctx))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

// listicleFallback and productsFallback are printed when generation is
// unavailable.
const (
	listicleFallback = "1. Start with five minutes | You already know which task. You've known all day."
	productsFallback = "Productivity Planner | Finally get organized. | \"It knew exactly what I needed.\" | $24.99"
)

func newListicleCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "listicle",
		Short: "Generate listicle items from the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			text, ok := m.GenerateListicleContent(ctx, m.Goals(ctx), m.Interests(ctx))
			if !ok {
				text = listicleFallback
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newProductsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Generate product listings from the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()

			text, ok := m.GenerateProductListings(ctx, m.Goals(ctx), m.Interests(ctx), m.Favourites(ctx))
			if !ok {
				text = productsFallback
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newInjectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inject <file|->",
		Short: "Render a template with visitor variables injected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}

			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			_, err = io.WriteString(cmd.OutOrStdout(), m.InjectVariables(cmd.Context(), string(raw)))
			return err
		},
	}
}

func newExportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print a diagnostic snapshot of all visitor state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, done, err := o.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return writeJSON(cmd.OutOrStdout(), m.ExportData(cmd.Context()))
		},
	}
}

func newClearCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Erase visitor data (keeping the API key entry) and start fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m, done, err := o.openManager(ctx)
			if err != nil {
				return err
			}
			defer done()
			if err := m.ClearAllData(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared, new session %s\n", m.SessionID(ctx))
			return nil
		},
	}
}

func newPartitionsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "partitions",
		Short: "List partitions stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.memory {
				return errors.New("partitions requires a database, not --memory")
			}
			s, err := store.NewSQLite(o.dbPath, o.partition)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			parts, err := s.Partitions(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range parts {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
