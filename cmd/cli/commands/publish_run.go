package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/core/services"
)

// PublishRunCmd creates the publishRun command
func PublishRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRun [run_id]",
		Short: "Publish the best assignment of a run to the result sheet (default: latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			app.Logger.Debug("publishRun command", zap.String("run_id", runID))

			store, err := app.RunStore()
			if err != nil {
				return err
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.PublishRun(app.Ctx, store, client, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Run published successfully!\n\n")
			fmt.Printf("Run ID:  %s\n", result.Run.ID)
			fmt.Printf("Tab:     %s\n", result.TabTitle)
			fmt.Printf("Fitness: %s\n\n", formatFitness(result.Allocation.Fitness, result.Allocation.MaxFitness))
			return nil
		},
	}
}
