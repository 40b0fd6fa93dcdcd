// Package cli implements the apcaps command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/lcalzada-xor/apcaps/internal/app"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/spf13/cobra"
)

type rootState struct {
	cfg       *config.Config
	version   string
	logCloser io.Closer
}

// NewRootCmd builds the command tree. Defaults come from APCAPS_*
// environment variables, then the --config file, then explicit flags.
func NewRootCmd(version string) *cobra.Command {
	root, _ := newRoot(version)
	return root
}

func newRoot(version string) (*cobra.Command, *rootState) {
	st := &rootState{cfg: config.Load(), version: version}

	root := &cobra.Command{
		Use:   "apcaps",
		Short: "Summarize the PHY capabilities an access point advertises",
		Long: `apcaps decodes the HT, VHT, HE and EHT capability elements of an 802.11
beacon or probe response and prints, per amendment and bandwidth, the total
number of spatial streams, the highest MCS index and short guard interval
support.

Frames come from a tshark JSON export (--json), or from a pcap/pcapng capture
(--pcap) dissected by tshark or, with --native, by the built-in dissector.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.cfg.Resolve(cmd.Flags()); err != nil {
				return err
			}
			if st.cfg.NoColor {
				color.NoColor = true
			}
			opts := app.LogOptions{Level: slog.LevelError}
			if cmd.Name() == "serve" {
				opts = app.LogOptions{JSON: true, Level: slog.LevelInfo}
			}
			st.logCloser = app.SetupLogging(st.cfg, cmd.ErrOrStderr(), opts)
			return nil
		},
	}
	st.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newAnalyzeCmd(st),
		newWatchCmd(st),
		newHistoryCmd(st),
		newServeCmd(st),
		newVersionCmd(st),
	)
	return root, st
}

func (st *rootState) close() {
	if st.logCloser != nil {
		_ = st.logCloser.Close()
	}
}

// newApp bootstraps the application for one command run.
func (st *rootState) newApp(storage bool) (*app.Application, error) {
	return app.New(st.cfg, app.Options{Storage: storage, Version: st.version})
}

func (st *rootState) closeApp(application *app.Application) {
	if err := application.Close(context.Background()); err != nil {
		slog.Error("Failed to release resources", "error", err)
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, version string, args []string) int {
	root, st := newRoot(version)
	defer st.close()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintf(root.ErrOrStderr(), "%s %v\n", red("error:"), err)
		return exitCode(err)
	}
	return ExitSuccess
}
