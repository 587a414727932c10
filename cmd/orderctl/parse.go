package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"order-intake/internal/fileio"
	"order-intake/internal/intake/model"
	"order-intake/internal/intake/service"
)

func parseCmd(opts *options) *cobra.Command {
	var (
		input     string
		withLines bool
	)
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse an order and print the supplier cards as JSON",
		Long: `Reads order text from --input (or stdin), matches every line against the
catalog and prints one card per supplier, followed by a "New Items" card for
lines that matched nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := loadCatalog(opts.catalog)
			if err != nil {
				return err
			}
			var in io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			text, err := fileio.DecodeText(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			matcher := service.NewMatcher(opts.matching.ServiceThresholds(), nil)
			parser := service.NewParser(matcher, opts.matching.ServiceStaffFood())
			lines := parser.ParseLines(text, service.NewCatalog(items))
			opts.logger.Info().Int("lines", len(lines)).Int("catalog", len(items)).Msg("parsed")

			out := struct {
				Lines []model.ParsedLine   `json:"lines,omitempty"`
				Cards []model.DispatchCard `json:"cards"`
			}{Cards: service.Group(lines)}
			if withLines {
				out.Lines = lines
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "order text file (default stdin)")
	cmd.Flags().BoolVar(&withLines, "lines", false, "include the flat parsed lines")
	return cmd
}

func loadCatalog(path string) ([]model.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	reqs, err := fileio.ReadCatalog(f, path, fileio.DefaultCatalogMapping())
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return fileio.CatalogItems(reqs), nil
}
