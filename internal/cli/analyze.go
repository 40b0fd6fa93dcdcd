package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/lcalzada-xor/apcaps/internal/app"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// inputFlags are shared by analyze and watch.
type inputFlags struct {
	input  app.Input
	ssid   string
	bssid  string
	output string
}

func (f *inputFlags) bind(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.input.JSONPath, "json", "", "tshark -T json export to analyze (\"-\" for stdin)")
	fs.StringVar(&f.input.PcapPath, "pcap", "", "pcap or pcapng capture to analyze")
	fs.BoolVar(&cfg.Native, "native", cfg.Native, "Dissect --pcap captures without tshark")
	fs.StringVar(&f.ssid, "ssid", "", "Only consider frames advertising this SSID")
	fs.StringVar(&f.bssid, "bssid", "", "Only consider frames from this BSSID")
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "Output format: table, csv, json or pdf")
	fs.StringVarP(&f.output, "output", "o", "", "Write the report to this file instead of stdout")
	fs.BoolVar(&cfg.Save, "save", cfg.Save, "Store the report in the history database")
}

func (f *inputFlags) selector() (domain.FrameSelector, error) {
	sel := domain.FrameSelector{SSID: f.ssid, BSSID: f.bssid}
	return sel, sel.Validate()
}

func newAnalyzeCmd(st *rootState) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Decode the capabilities of one access point",
		Example: `  apcaps analyze --json beacon.json
  apcaps analyze --pcap survey.pcapng --ssid corp -f csv -o corp.csv
  tshark -r survey.pcapng -T json --no-duplicate-keys | apcaps analyze --json -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := flags.selector()
			if err != nil {
				return err
			}
			src, err := app.NewFrameSource(st.cfg, flags.input)
			if err != nil {
				return err
			}

			application, err := st.newApp(st.cfg.Save)
			if err != nil {
				return err
			}
			defer st.closeApp(application)

			exporter, err := application.Exporter(st.cfg.Format)
			if err != nil {
				return err
			}
			return analyzeOnce(cmd.Context(), cmd, application.Service, exporter, src, sel, flags.output)
		},
	}
	flags.bind(cmd.Flags(), st.cfg)
	return cmd
}

// analyzeOnce decodes one frame from src and renders the report to the
// command's stdout or to output.
func analyzeOnce(ctx context.Context, cmd *cobra.Command, service ports.AnalysisService, exporter ports.Exporter,
	src ports.FrameSource, sel domain.FrameSelector, output string) error {
	report, err := service.Analyze(ctx, src, sel)
	if report == nil {
		return err
	}
	if err != nil {
		printWarning(cmd.ErrOrStderr(), fmt.Sprintf("report not saved: %v", err))
	}

	if err := writeReport(cmd.OutOrStdout(), output, exporter, *report); err != nil {
		return err
	}
	for _, msg := range report.Errors {
		printWarning(cmd.ErrOrStderr(), msg)
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s report %s written to %s\n", color.GreenString("ok:"), report.ID, output)
	}
	return nil
}

func writeReport(stdout io.Writer, output string, exporter ports.Exporter, report domain.Report) error {
	if output == "" {
		return exporter.Export(stdout, report)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := exporter.Export(f, report); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	return f.Close()
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", yellow("warning:"), msg)
}
