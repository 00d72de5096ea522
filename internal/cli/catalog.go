package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colordle/apps/go-server/internal/catalog"
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/config"
	"github.com/robalobadob/colordle/apps/go-server/internal/suggest"
)

func newCatalogCmd(cfg func() config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and edit the daily colour catalog",
		Long: `Inspect and edit the calendar of daily colours.

Dates use the DD/MM/YYYY form. Colours are given as hex (#4f46e5).`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every dated colour, most recent first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), cfg())
				if err != nil {
					return err
				}
				defer a.close()
				entries, err := a.catalog.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tHEX\tRGB")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Date, e.Color.Hex(), e.Color)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:     "add <date> <hex>",
			Short:   "Add a colour for a date that has none",
			Example: "  colordle catalog add 01/07/2024 '#4f46e5'",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				rgb, err := color.ParseHex(args[1])
				if err != nil {
					return err
				}
				a, err := openApp(cmd.Context(), cfg())
				if err != nil {
					return err
				}
				defer a.close()
				if err := a.catalog.Insert(cmd.Context(), catalog.Entry{Date: args[0], Color: rgb}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", args[0], rgb.Hex())
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <date> <channel> <value>",
			Short:   "Set one channel (r, g or b) of an existing entry",
			Example: "  colordle catalog set 01/07/2024 g 128",
			Args:    cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				ch, err := color.ParseChannel(args[1])
				if err != nil {
					return err
				}
				v, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("value %q: %w", args[2], err)
				}
				a, err := openApp(cmd.Context(), cfg())
				if err != nil {
					return err
				}
				defer a.close()
				e, err := a.catalog.Update(cmd.Context(), args[0], ch, v)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now %s\n", e.Date, e.Color.Hex())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <date>",
			Short: "Remove a date from the catalog",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), cfg())
				if err != nil {
					return err
				}
				defer a.close()
				if err := a.catalog.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newSuggestCmd(cfg func() config.Config) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the configured AI model for colour ideas",
		Long: `Ask Gemini for named colour suggestions.

Requires GOOGLE_API_KEY. Without it, or when the request fails, nothing
is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer a.close()
			out := a.suggest.Suggest(cmd.Context(), count)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Color.Hex(), s.Color)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", suggest.DefaultCount, "number of suggestions")
	return cmd
}
