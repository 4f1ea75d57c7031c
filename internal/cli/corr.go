package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/pkg/stats"
)

func newCorrCmd(a *app) *cobra.Command {
	var (
		input       string
		columns     []string
		categorical []string
	)

	cmd := &cobra.Command{
		Use:   "corr",
		Short: "Print the Pearson correlation matrix of numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := readDataset(cmd, input, categorical)
			if err != nil {
				return err
			}

			m, err := stats.Correlation(ds, columns...)
			if err != nil {
				return err
			}
			a.logger.Debug("Correlation computed.", "columns", len(m.Columns), "rows", ds.Len())

			writeMatrix(cmd.OutOrStdout(), m)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input, "input", "", "CSV file, - for stdin")
	flags.StringSliceVar(&columns, "columns", nil, "columns to correlate (default every numeric column)")
	flags.StringSliceVar(&categorical, "categorical", nil, "columns read as categorical even when numeric")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// writeMatrix prints the matrix as CSV with four decimals.
func writeMatrix(w io.Writer, m *stats.Matrix) {
	fmt.Fprintf(w, ",%s\n", strings.Join(m.Columns, ","))

	for i, name := range m.Columns {
		cells := make([]string, len(m.Values[i]))
		for j, v := range m.Values[i] {
			if math.IsNaN(v) {
				cells[j] = "NaN"

				continue
			}
			cells[j] = strconv.FormatFloat(v, 'f', 4, 64)
		}

		fmt.Fprintf(w, "%s,%s\n", name, strings.Join(cells, ","))
	}
}
