package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"reviewmsg/pkg/config"
	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/filter"
	"reviewmsg/pkg/shops"

	"github.com/spf13/cobra"
)

var (
	shopFilter     string
	shopFilterMode string

	shopAddID   string
	shopAddName string
	shopAddURL  string
)

var shopsCmd = &cobra.Command{
	Use:     "shops",
	Aliases: []string{"shop"},
	Short:   "Manage the local shop store",
}

// openShopStore opens the configured store and seeds it on first use.
func openShopStore(ctx context.Context, cfg *config.Config) (*shops.Store, error) {
	store, err := shops.Open(cfg.Server.DBPath)
	if err != nil {
		return nil, errors.StorageError("opening shop store", err)
	}
	if _, err := store.Seed(ctx, cfg.SeedShops()); err != nil {
		store.Close()
		return nil, errors.StorageError("seeding shop store", err)
	}
	return store, nil
}

var shopsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shops and their review URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f *filter.StringFilter
		if shopFilter != "" {
			mode, err := filter.ParseMode(shopFilterMode)
			if err != nil {
				return errors.InvalidInputError(err)
			}
			f, err = filter.NewStringFilter(shopFilter, mode)
			if err != nil {
				return errors.InvalidInputError(err)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := GetContext()
		defer cancel()

		store, err := openShopStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.List(ctx)
		if err != nil {
			return errors.StorageError("listing shops", err)
		}
		list := filter.Shops(all, f)

		out := NewOutputWriter(outputFormat, cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(list)
		}

		if len(list) == 0 && f != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No shops match '%s'.\n", shopFilter)
			ids := make([]string, 0, len(all))
			for _, s := range all {
				ids = append(ids, s.ID)
			}
			if similar := filter.Similar(shopFilter, ids, 2); len(similar) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Did you mean: %s\n", strings.Join(similar, ", "))
			}
			return nil
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No shops configured.")
			fmt.Fprintln(cmd.OutOrStdout(), "Use 'reviewmsg shops add --id <id> --name <name> --url <url>' to create one.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSALON\tURL")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.SalonName, s.URL)
		}
		return tw.Flush()
	},
}

var shopsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a shop",
	Example: `  reviewmsg shops add --id shop_004 --name "Review Salon Ebisu" --url https://g.page/r/example4/review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if shopAddID == "" || shopAddURL == "" {
			return errors.ValidationError("--id and --url are required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		shop := shops.Shop{ID: shopAddID, SalonName: shopAddName, URL: shopAddURL}

		if dryRunFlag {
			PrintDryRun(cmd.ErrOrStderr(), "Would store shop %s (%s) -> %s", shop.ID, shop.SalonName, shop.URL)
			return nil
		}

		ctx, cancel := GetContext()
		defer cancel()

		store, err := openShopStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Upsert(ctx, shop); err != nil {
			return errors.StorageError("storing shop", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored shop %s\n", shop.ID)
		return nil
	},
}

func init() {
	shopsListCmd.Flags().StringVar(&shopFilter, "filter", "", "Only show shops whose id or salon name matches")
	shopsListCmd.Flags().StringVar(&shopFilterMode, "filter-mode", "contains", "How --filter matches (exact, contains, regex, fuzzy)")

	shopsAddCmd.Flags().StringVar(&shopAddID, "id", "", "Shop id")
	shopsAddCmd.Flags().StringVar(&shopAddName, "name", "", "Salon name")
	shopsAddCmd.Flags().StringVar(&shopAddURL, "url", "", "Review URL")
	shopsAddCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be stored without writing")
}
