package commands

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/core/model"
	"github.com/jakechorley/group-allocation/pkg/instance"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	var (
		minPref int
		maxPref int
		seed    uint64
		out     string
		ranked  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <persons> <groups>",
		Short: "Write a random problem instance in the solver's input format",
		Long: `Writes a random preference matrix. By default every preference is drawn
uniformly from [min, max]. With --ranked each person instead ranks the groups:
their row is a random permutation of 1..groups.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("persons must be a number: %w", err)
			}
			groups, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("groups must be a number: %w", err)
			}

			if !cmd.Flags().Changed("min") {
				minPref = app.Cfg.Generator.MinPreference
			}
			if !cmd.Flags().Changed("max") {
				maxPref = app.Cfg.Generator.MaxPreference
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			app.Logger.Debug("generate command",
				zap.Int("persons", persons),
				zap.Int("groups", groups),
				zap.Int("min", minPref),
				zap.Int("max", maxPref),
				zap.Bool("ranked", ranked),
				zap.Uint64("seed", seed))

			inst, err := generateInstance(rand.New(rand.NewPCG(seed, seed)), persons, groups, ranked, minPref, maxPref)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := instance.Write(w, inst); err != nil {
				return err
			}

			if out != "" {
				app.Logger.Info("Instance written", zap.String("path", out), zap.Int("max_fitness", inst.MaxFitness()))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minPref, "min", instance.DefaultMinPreference, "Smallest preference value (default from config)")
	cmd.Flags().IntVar(&maxPref, "max", instance.DefaultMaxPreference, "Largest preference value (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the random source (default: clock)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&ranked, "ranked", false, "Give each person a random ranking 1..groups of the groups")
	cmd.MarkFlagsMutuallyExclusive("ranked", "min")
	cmd.MarkFlagsMutuallyExclusive("ranked", "max")

	return cmd
}

func generateInstance(rng *rand.Rand, persons, groups int, ranked bool, minPref, maxPref int) (*model.ProblemInstance, error) {
	if ranked {
		return instance.GenerateRanked(rng, persons, groups)
	}
	return instance.Generate(rng, persons, groups, minPref, maxPref)
}
