package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"scenebridge/internal/store"
)

func historyCmd() *cobra.Command {
	var filter store.MutationFilter
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent mutations from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(filter)
		},
	}
	cmd.Flags().StringVar(&filter.Node, "node", "", "Only mutations on this node")
	cmd.Flags().StringVar(&filter.Property, "property", "", "Only mutations of this property")
	cmd.Flags().IntVar(&filter.Limit, "limit", store.DefaultListLimit, "Maximum entries")
	return cmd
}

func runHistory(filter store.MutationFilter) error {
	ctx := context.Background()

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.DSN == "" {
		return fmt.Errorf("no journal configured; set journal.dsn in %s", configPath)
	}

	journal, err := openJournal(ctx, cfg.Journal.DSN)
	if err != nil {
		return err
	}
	defer journal.Close(ctx)

	recs, err := journal.ListMutations(ctx, filter)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No mutations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tNODE\tCOMPONENT\tPROPERTY\tRESULT\tVERIFIED\tREQUEST")
	for _, rec := range recs {
		result := "ok"
		if !rec.Success {
			result = rec.ErrorCode
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Node, rec.ComponentType, rec.Property, result, rec.Verified, rec.RequestID)
	}
	return w.Flush()
}
