// Command eidos is the minimal process-level driver for the simulation
// engine (§6's process-level surface): it loads a configuration file,
// builds a population from a small built-in demo chromosome, parses a
// script file into its top-level script blocks, and drives the
// per-generation life cycle under those blocks until the last
// registered block's upper bound is passed or a block calls
// simulationFinished(). It is not part of the core and is not imported
// by the eidos or slim packages.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slimcore/eidos/eidos"
	"github.com/slimcore/eidos/eidos/config"
	"github.com/slimcore/eidos/eidos/elog"
	"github.com/slimcore/eidos/slim"
	"github.com/slimcore/eidos/slim/bridge"
)

func main() {
	app := &cli.App{
		Name:  "eidos",
		Usage: "run a forward-time population-genetics simulation script",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file"},
			&cli.IntFlag{Name: "generations", Aliases: []string{"g"}, Value: 1, Usage: "number of generations to run when no script file is given"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if err := elog.SetLevel(cfg.LogLevel); err != nil {
				return err
			}

			engine, err := buildDemoEngine(cfg.Seed)
			if err != nil {
				return err
			}

			interp := eidos.NewInterp()
			bridge.Install(interp, engine)

			if c.Args().Len() == 0 {
				for i := 0; i < c.Int("generations"); i++ {
					if err := engine.RunOneGeneration(); err != nil {
						return err
					}
				}
				return nil
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			blocks, err := eidos.ParseScript(string(data))
			if err != nil {
				return err
			}
			runner := bridge.NewScriptRunner(interp, blocks)
			engine.Hooks = runner

			for _, b := range runner.Blocks {
				if b.Kind == eidos.EventInitialize {
					if err := interp.RunBlock(b.Body); err != nil {
						return err
					}
				}
			}

			for !runner.Done(engine.Population.Generation) {
				if err := engine.RunOneGeneration(); err != nil {
					return err
				}
			}
			if runner.Finished() {
				fmt.Printf("simulation finished at generation %d\n", engine.Population.Generation)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildDemoEngine constructs a single-subpopulation chromosome with one
// neutral and one beneficial mutation type and a modest gene-conversion
// rate, the smallest configuration that exercises the full life cycle
// including recombination's gene-conversion path (§3.3, §4.5 step 2).
func buildDemoEngine(seed int64) (*slim.Engine, error) {
	neutral, err := slim.NewMutationType(1, 0.5, slim.DFEFixed, []float64{0})
	if err != nil {
		return nil, err
	}
	beneficial, err := slim.NewMutationType(2, 0.1, slim.DFEExponential, []float64{10})
	if err != nil {
		return nil, err
	}
	get, err := slim.NewGenomicElementType(1, []*slim.MutationType{neutral, beneficial}, []float64{0.9, 0.1})
	if err != nil {
		return nil, err
	}
	chrom, err := slim.NewChromosome(100000, []slim.GenomicElement{{Type: get, Start: 0, End: 99999}}, 1e-7, 1e-8)
	if err != nil {
		return nil, err
	}
	if err := chrom.SetGeneConversion(0.2, 50); err != nil {
		return nil, err
	}

	pop := slim.NewPopulation()
	sp := slim.NewSubpopulation(1, chrom, 500)
	if err := pop.AddSubpopulation(sp); err != nil {
		return nil, err
	}

	return slim.NewEngine(pop, slim.NewMathRandSource(seed)), nil
}
