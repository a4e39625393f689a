package admin

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewListCommand builds the listidentities command. newSource is called
// only after flags are validated.
func NewListCommand(newSource func() (RowSource, error)) *cobra.Command {
	var (
		tables     string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "listidentities",
		Short: "List portal identities and learners stored in Supabase",
		Long: `List rows of portal tables through the Supabase REST API.

Requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY.

Examples:
  listidentities                       # identities and learners
  listidentities --tables learners     # one table
  listidentities --limit 10 --json     # first 10 rows of each, as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := parseTables(tables)
			if len(names) == 0 {
				return errors.New("--tables must name at least one table")
			}
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}

			src, err := newSource()
			if err != nil {
				return err
			}

			listings, err := ListTables(cmd.Context(), src, names, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return RenderJSON(cmd.OutOrStdout(), listings)
			}
			return RenderTables(cmd.OutOrStdout(), listings)
		},
	}

	cmd.Flags().StringVar(&tables, "tables", "identities,learners", "comma-separated tables to list")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows per table")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
