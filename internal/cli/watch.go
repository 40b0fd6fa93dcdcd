package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/lcalzada-xor/apcaps/internal/app"
	"github.com/spf13/cobra"
)

func newWatchCmd(st *rootState) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyze the input every time it changes",
		Long: `watch analyzes the input once and then again whenever the file is written,
for example while a capture is still being recorded. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := flags.selector()
			if err != nil {
				return err
			}
			if flags.input.JSONPath == "-" {
				return fmt.Errorf("%w: watch needs a file, not stdin", app.ErrNoInput)
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

			path := flags.input.Path()
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes... (press Ctrl+C to stop)\n", path)
			return app.Watch(cmd.Context(), path, app.WatchDebounce, func(ctx context.Context) error {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s %s\n", color.CyanString("[%s]", time.Now().Format("15:04:05")), path)
				return analyzeOnce(ctx, cmd, application.Service, exporter, src, sel, flags.output)
			})
		},
	}
	flags.bind(cmd.Flags(), st.cfg)
	return cmd
}
