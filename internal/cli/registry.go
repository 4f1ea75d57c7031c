package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/internal/registry"
)

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage registered pipelines",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered pipeline versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no pipelines)")

				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REF\tSTEPS\tSIZE\tCREATED\tID")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					registry.Ref(e.Name, e.Version), e.Steps, e.Size, e.CreatedAt.Format(time.RFC3339), e.PipelineID)
			}

			return tw.Flush()
		},
	})

	return cmd
}
