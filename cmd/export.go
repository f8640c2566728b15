package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	exportOut           string
	exportQualifiedOnly bool
	exportMinScore      float64
	exportLimit         int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		filter := store.LeadFilter{
			MinScore: exportMinScore,
			Limit:    exportLimit,
		}
		if exportQualifiedOnly {
			qualified := true
			filter.Qualified = &qualified
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}
		if len(leads) == 0 {
			zap.L().Warn("no leads match the export filter")
		}

		if err := export.WriteXLSX(exportOut, leads); err != nil {
			return err
		}

		zap.L().Info("workbook written",
			zap.String("path", exportOut),
			zap.Int("leads", len(leads)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output workbook path")
	exportCmd.Flags().BoolVar(&exportQualifiedOnly, "qualified-only", false, "export only leads that passed the gate")
	exportCmd.Flags().Float64Var(&exportMinScore, "min-score", 0, "minimum combined score")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum rows (0 = all)")
	rootCmd.AddCommand(exportCmd)
}
