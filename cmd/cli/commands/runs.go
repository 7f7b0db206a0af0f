package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/core/services"
	"github.com/jakechorley/group-allocation/pkg/core/solver"
	"github.com/jakechorley/group-allocation/pkg/db"
	"github.com/jakechorley/group-allocation/pkg/report"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List recorded solver runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.RunStore()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, store, app.Logger)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tSTARTED\tINSTANCE\tSIZE\tBEST\tGENERATIONS\tSTOPPED")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\t%d\t%s\n",
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.InstanceName,
					run.Persons,
					run.Groups,
					formatFitness(run.BestFitness, run.MaxFitness),
					run.Generations,
					runStatus(run))
			}
			return tw.Flush()
		},
	}
}

// ShowRunCmd creates the showRun command
func ShowRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showRun [run_id]",
		Short: "Show the improvement history and best assignment of a run (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			app.Logger.Debug("showRun command", zap.String("run_id", runID))

			store, err := app.RunStore()
			if err != nil {
				return err
			}

			detail, err := services.ShowRun(app.Ctx, store, app.Logger, runID)
			if err != nil {
				return err
			}

			run := detail.Run
			fmt.Printf("\nRun %s\n", run.ID)
			fmt.Printf("Instance:    %s (%d persons, %d groups)\n", run.InstanceName, run.Persons, run.Groups)
			fmt.Printf("Started:     %s\n", run.StartedAt.Local().Format(time.RFC1123))
			fmt.Printf("Seed:        %d\n", run.Seed)
			fmt.Printf("Population:  %d\n", run.PopulationSize)
			fmt.Printf("Status:      %s after %d generations\n\n", runStatus(*run), run.Generations)

			if len(detail.Improvements) == 0 {
				fmt.Println("No improvements recorded")
				return nil
			}

			fmt.Println("Improvements:")
			for _, imp := range detail.Improvements {
				fmt.Printf("  generation %-6d %s\n", imp.Generation, formatFitness(imp.Fitness, run.MaxFitness))
			}
			fmt.Println()

			best, _ := detail.Best()
			return report.WriteImprovement(os.Stdout, improvementReport(run, best))
		},
	}
}

// improvementReport rebuilds a solver report from a stored improvement
func improvementReport(run *db.Run, imp db.Improvement) solver.Report {
	candidate := solver.CandidateFromGroups(imp.Assignment)
	return solver.Report{
		Generation: imp.Generation,
		Candidate:  candidate,
		GroupSizes: candidate.GroupSizes(run.Groups),
		Fitness:    imp.Fitness,
		MaxFitness: run.MaxFitness,
		Elapsed:    imp.RecordedAt.Sub(run.StartedAt),
	}
}

func formatFitness(fitness, maxFitness int) string {
	return fmt.Sprintf("%d/%d (%.2f%%)", fitness, maxFitness, report.Ratio(fitness, maxFitness)*100)
}

func runStatus(run db.Run) string {
	if !run.Finished() {
		return "unfinished"
	}
	return run.StopReason
}
