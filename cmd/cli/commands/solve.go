package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/internal/config"
	"github.com/jakechorley/group-allocation/pkg/core/model"
	"github.com/jakechorley/group-allocation/pkg/core/services"
	"github.com/jakechorley/group-allocation/pkg/core/solver"
	"github.com/jakechorley/group-allocation/pkg/db"
	"github.com/jakechorley/group-allocation/pkg/instance"
	"github.com/jakechorley/group-allocation/pkg/report"
)

// solveFlags are the command line overrides for a solve
type solveFlags struct {
	fromSheet   bool
	generations int
	target      int
	timeout     time.Duration
	seed        uint64
	seedSet     bool
	population  int
	dryRun      bool
	quiet       bool
}

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve [instance_file]",
		Short: "Assign persons to groups, printing every improvement until stopped",
		Long: `Reads a preference matrix and evolves assignments of persons to groups.
Every strictly better assignment is printed as it is found. The solve runs until
a stop condition from the config or flags is met, or until interrupted with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.seedSet = cmd.Flags().Changed("seed")

			inst, name, err := loadInstance(app, flags.fromSheet, args)
			if err != nil {
				return err
			}

			req, err := buildSolveRequest(app.Cfg, flags, time.Now())
			if err != nil {
				return err
			}
			req.Instance = inst
			req.InstanceName = name

			var store db.RunStore = db.NewMemoryStore()
			if !flags.dryRun {
				if store, err = app.RunStore(); err != nil {
					return err
				}
			}

			app.Logger.Debug("solve command",
				zap.String("instance", name),
				zap.Uint64("seed", req.Seed),
				zap.Bool("dry_run", flags.dryRun))

			var onImprovement func(solver.Report) error
			if !flags.quiet {
				onImprovement = func(r solver.Report) error {
					return report.WriteImprovement(os.Stdout, r)
				}
			}

			result, err := services.Solve(app.Ctx, store, app.Logger, req, onImprovement)
			if err != nil {
				return err
			}

			printSolveSummary(result, inst, flags.dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.fromSheet, "sheet", false, "Read the instance from the configured sheet instead of a file")
	cmd.Flags().IntVar(&flags.generations, "generations", 0, "Stop after this many generations (overrides config)")
	cmd.Flags().IntVar(&flags.target, "target", 0, "Stop once this fitness is reached (overrides config)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Stop after this long, e.g. 30s or 5m (overrides config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for the random source (overrides config)")
	cmd.Flags().IntVar(&flags.population, "population", 0, "Population size (overrides config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Run without saving to database")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only print the final summary")

	return cmd
}

func loadInstance(app *AppContext, fromSheet bool, args []string) (*model.ProblemInstance, string, error) {
	if fromSheet {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("--sheet cannot be combined with an instance file")
		}
		if app.Cfg.Sheets.InstanceSheetID == "" {
			return nil, "", fmt.Errorf("sheets.instanceSheetID must be configured to use --sheet")
		}
		client, err := app.SheetsClient()
		if err != nil {
			return nil, "", err
		}
		inst, err := client.ReadInstance(app.Ctx, app.Cfg.Sheets.InstanceSheetID, app.Cfg.Sheets.InstanceTab)
		if err != nil {
			return nil, "", err
		}
		return inst, "sheet:" + app.Cfg.Sheets.InstanceTab, nil
	}

	if len(args) == 0 {
		return nil, "", fmt.Errorf("an instance file is required unless --sheet is given")
	}
	inst, err := instance.LoadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return inst, args[0], nil
}

// buildSolveRequest merges the config with the flags that were set. A zero
// seed from both sources falls back to the clock.
func buildSolveRequest(cfg *config.Config, flags solveFlags, now time.Time) (services.SolveRequest, error) {
	budget, err := cfg.Stop.Budget()
	if err != nil {
		return services.SolveRequest{}, err
	}

	req := services.SolveRequest{
		Params: solver.Params{
			PopulationSize:       cfg.Solver.PopulationSize,
			EliteRatio:           cfg.Solver.EliteRatio,
			RandomRetentionRatio: cfg.Solver.RandomRetentionRatio,
			CrossoverBudgetRatio: cfg.Solver.CrossoverBudgetRatio,
		},
		Seed: cfg.Solver.Seed,
		Stop: solver.StopCondition{
			MaxGenerations: cfg.Stop.MaxGenerations,
			TargetFitness:  cfg.Stop.TargetFitness,
			TimeBudget:     budget,
		},
	}

	if flags.population > 0 {
		req.Params.PopulationSize = flags.population
	}
	if flags.generations > 0 {
		req.Stop.MaxGenerations = flags.generations
	}
	if flags.target > 0 {
		req.Stop.TargetFitness = flags.target
	}
	if flags.timeout > 0 {
		req.Stop.TimeBudget = flags.timeout
	}
	if flags.seedSet {
		req.Seed = flags.seed
	}
	if req.Seed == 0 && !flags.seedSet {
		req.Seed = uint64(now.UnixNano())
	}

	if err := req.Params.Validate(); err != nil {
		return services.SolveRequest{}, err
	}
	return req, nil
}

func printSolveSummary(result *services.SolveResult, inst *model.ProblemInstance, dryRun bool) {
	summary := result.Summary

	fmt.Printf("\nStopped: %s after %d generations (%s)\n", summary.Reason, summary.Generations, summary.Elapsed.Round(time.Millisecond))
	if summary.Best.Candidate == nil {
		fmt.Println("No generation completed")
		return
	}

	fmt.Printf("Best fitness: %d/%d (%.2f%%)\n", summary.Best.Fitness, inst.MaxFitness(), report.Ratio(summary.Best.Fitness, inst.MaxFitness())*100)
	fmt.Println(report.FormatSizes(summary.Best.Candidate.GroupSizes(inst.Groups())))
	if result.Warnings > 0 {
		fmt.Printf("Warnings: %d incomplete greedy assignments (see log)\n", result.Warnings)
	}
	if dryRun {
		fmt.Println("Dry run: nothing was recorded")
	} else {
		fmt.Printf("Run ID: %s\n", result.Run.ID)
	}
}
