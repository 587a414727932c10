package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"order-intake/internal/intake/service"
)

var errNoMatch = errors.New("no catalog item matches")

func quickCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "quick <name qty [unit]>",
		Short: "Resolve a single quick-entry line",
		Example: `  orderctl quick --catalog items.csv "Egg 30"
  orderctl quick --catalog items.xlsx Rice 2 bags`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadCatalog(opts.catalog)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			q, ok := service.ParseQuickOrder(text, items)
			if !ok {
				return fmt.Errorf("%w %q", errNoMatch, text)
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(q)
		},
	}
}
