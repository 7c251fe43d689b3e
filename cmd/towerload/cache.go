package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/ukaji3/towerload-go/pkg/towerload"
	"github.com/ukaji3/towerload-go/pkg/towerload/cache"
)

func newCacheCmd(g *globalFlags) *cobra.Command {
	cf := &cacheFlags{}
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List or clear cached reference loads",
	}
	cf.register(cmd.PersistentFlags())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached references",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return withLister(c, g, cf, func(ctx context.Context, l cache.Lister) error {
				entries, err := l.List(ctx)
				if err != nil {
					return err
				}
				out := c.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "no cached references")
					return nil
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%d sites\t%s\n", e.Name, e.Sites, e.ComputedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached reference",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return withLister(c, g, cf, func(ctx context.Context, l cache.Lister) error {
				n, err := l.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "removed %d cached references\n", n)
				return nil
			})
		},
	}
	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

func withLister(cmd *cobra.Command, g *globalFlags, cf *cacheFlags, fn func(context.Context, cache.Lister) error) error {
	opts, err := baseOptions(g)
	if err != nil {
		return err
	}
	cf.apply(cmd.Flags(), &opts.Cache)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := towerload.OpenStore(ctx, opts.Cache, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	l, ok := store.(cache.Lister)
	if !ok {
		return fmt.Errorf("cache backend %q cannot be listed", opts.Cache.Backend)
	}
	return fn(ctx, l)
}
