package cmd

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/testctl/internal/formatting"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [test-types|services|actions]",
		Short:     "Show the registry tables",
		Long:      `Catalog prints the test type, service and action tables used for analysis.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(formatting.SectionTestTypes), string(formatting.SectionServices), string(formatting.SectionActions)},
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := opts.newFormatter(cmd)
			if err != nil {
				return err
			}
			application, err := opts.newApplication(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown(cmd.Context())

			section := formatting.SectionAll
			if len(args) == 1 {
				section = formatting.CatalogSection(args[0])
			}
			return formatter.FormatCatalog(application.Services().Catalog, section)
		},
	}
}
