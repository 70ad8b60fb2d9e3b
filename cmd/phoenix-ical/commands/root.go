package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"phoenix-ical/lib/configutil"
	"phoenix-ical/lib/restyutil"
	"phoenix-ical/lib/telemetry"
	"phoenix-ical/services/builder"

	"github.com/spf13/cobra"
)

const defaultOutput = "phoenix.ics"

var (
	configPath  *string
	debug       *bool
	dumpHttpDir *string
)

func init() {
	configPath = rootCmd.Flags().String("config", "config.json5", "Site configuration file.")
	debug = rootCmd.Flags().Bool("debug", false, "Enable debug logging.")
	dumpHttpDir = rootCmd.Flags().String("dump-http", "", "Mirror every HTTP exchange into this directory.")
}

var rootCmd = &cobra.Command{
	Use:   "phoenix-ical [output.ics]",
	Short: "Builds an iCalendar file from the Phoenix Leicester listings.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		telemetry.InitSlog(*debug)
		tel, err := telemetry.SetupFromEnv(ctx, "phoenix-ical")
		if err != nil {
			return err
		}
		defer tel.Shutdown(context.Background())

		output := defaultOutput
		if len(args) > 0 {
			output = args[0]
		}

		cfg, err := configutil.ReadConfigWithDefaults(*configPath, builder.DefaultConfig())
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		var dump restyutil.InstrumentOutput
		if *dumpHttpDir != "" {
			dump = restyutil.NewFilesystemOutput(*dumpHttpDir)
		}

		service, err := builder.NewService(cfg, dump)
		if err != nil {
			return err
		}

		result, err := service.Run(ctx)
		builder.RenderSummary(os.Stderr, result)
		if err != nil {
			return err
		}

		err = builder.WriteCalendar(output, result.Events)
		if err != nil {
			return err
		}
		slog.Info("wrote calendar", "path", output, "events", len(result.Events))
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	rootCmd.SilenceUsage = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
