package main

import (
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/history"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/redisx"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
	"time"
)

func newMenuCmd(a *app) *cobra.Command {
	var query, category, sort string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := catalog.ParseSortMode(sort)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			return printMenu(cmd.OutOrStdout(), catalog.Sorted(cat.Browse(query, category), mode))
		},
	}
	cmd.Flags().StringVarP(&query, "q", "q", "", "search name, description or category")
	cmd.Flags().StringVarP(&category, "category", "c", catalog.CategoryAll, "category id")
	cmd.Flags().StringVarP(&sort, "sort", "s", string(catalog.SortDefault), "default|price-low|price-high|rating")
	return cmd
}

func newPopularCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List popular menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			return printMenu(cmd.OutOrStdout(), cat.Popular())
		},
	}
}

func printMenu(out io.Writer, entries []orders.MenuEntry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAMA\tKATEGORI\tHARGA\tDISKON\tRATING")
	for _, e := range entries {
		disc := "-"
		if e.Discount > 0 {
			disc = fmt.Sprintf("%d%%", e.Discount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
			e.ID, e.Name, e.Category, orders.FormatRupiah(e.UnitPrice()), disc, e.Rating)
	}
	return tw.Flush()
}

func newOrdersCmd(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show a session's order history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, closeFn, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			list := history.New(b, store.SessionScope(sessionID), a.log).Recent(cmd.Context())
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Belum ada pesanan")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KODE\tWAKTU\tITEM\tTOTAL\tBAYAR\tAMBIL")
			var spent int64
			for _, o := range list {
				spent += o.Total
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					o.Code, o.CreatedAt.Local().Format("02/01 15:04"), orders.TotalItems(o.Items),
					orders.FormatRupiah(o.Total), o.PaymentMethod.Label(), o.PickupTime)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d pesanan, total %s\n", len(list), orders.FormatRupiahShort(spent))
			return err
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (X-Session-Id)")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newBoardCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Count confirmed orders per pickup window for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := time.Now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				day = d
			}
			rdb, err := a.openRedis(cmd.Context())
			if err != nil {
				return err
			}
			defer rdb.Close()
			counts, err := (&redisx.Board{Redis: rdb}).Counts(cmd.Context(), day)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\n", day.Format("Monday, 02 Jan 2006"))
			var total int64
			for _, w := range orders.PickupWindows() {
				n := counts[string(w.ID)]
				total += n
				fmt.Fprintf(tw, "%s\t%s\t%d\n", w.Name, w.Time(), n)
			}
			fmt.Fprintf(tw, "Total\t\t%d\n", total)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default today)")
	return cmd
}
