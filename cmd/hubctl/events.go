package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEventsCommand(opts *globalOptions) *cobra.Command {
	events := &cobra.Command{
		Use:   "events",
		Short: "Browse public events",
	}

	var (
		search, category string
		limit, offset    int
		asJSON           bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List public events",
		Example: `  hubctl events list --search go --category tech
  hubctl events list --limit 50 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.newClient(false)
			if err != nil {
				return err
			}
			params := url.Values{}
			if search != "" {
				params.Set("search", search)
			}
			if category != "" {
				params.Set("category", category)
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				params.Set("offset", strconv.Itoa(offset))
			}

			items, err := c.GetAllEvents(cmd.Context(), params)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTARTS\tSEATS")
			for _, e := range items {
				seats := "unlimited"
				if e.Capacity > 0 {
					seats = fmt.Sprintf("%d/%d", e.Registered, e.Capacity)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Category, e.StartsAt.Format("2006-01-02 15:04"), seats)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&search, "search", "", "substring of title or description")
	list.Flags().StringVar(&category, "category", "", "category filter")
	list.Flags().IntVar(&limit, "limit", 0, "page size")
	list.Flags().IntVar(&offset, "offset", 0, "page offset")
	list.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.newClient(false)
			if err != nil {
				return err
			}
			e, err := c.GetEventByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		},
	}

	events.AddCommand(list, get)
	return events
}
