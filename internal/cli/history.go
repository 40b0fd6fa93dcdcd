package cli

import (
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/services/export"
	"github.com/spf13/cobra"
)

func newHistoryCmd(st *rootState) *cobra.Command {
	var (
		limit int
		id    string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored reports or show one of them",
		Example: `  apcaps history --limit 5
  apcaps history --id 3f2c... -f pdf -o report.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := st.newApp(true)
			if err != nil {
				return err
			}
			defer st.closeApp(application)

			ctx := cmd.Context()
			if id != "" {
				report, err := application.Service.GetReport(ctx, id)
				if err != nil {
					return err
				}
				exporter, err := application.Exporter(st.cfg.Format)
				if err != nil {
					return err
				}
				return writeReport(cmd.OutOrStdout(), out, exporter, *report)
			}

			reports, err := application.Service.ListReports(ctx, limit)
			if err != nil {
				return err
			}
			if st.cfg.Format == config.FormatJSON {
				return export.ExportHistoryJSON(cmd.OutOrStdout(), reports)
			}
			return export.ExportHistoryTable(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of reports to list, newest first (0 for all)")
	cmd.Flags().StringVar(&id, "id", "", "Show the report with this ID")
	cmd.Flags().StringVarP(&st.cfg.Format, "format", "f", st.cfg.Format, "Output format for --id: table, csv, json or pdf; json or table for lists")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the report to this file instead of stdout")
	return cmd
}

