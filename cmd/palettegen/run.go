package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/jsvensson/palettegen"
	"github.com/jsvensson/palettegen/internal/engine"
	"github.com/jsvensson/palettegen/internal/format"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/spf13/cobra"
)

type runOptions struct {
	job       string
	workers   int
	seed      int64
	templates string
	out       string
	only      []string
	write     bool
	allRuns   bool
}

func newRunCmd() *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize a job and report the generated colors",
		Long: "Optimize a job file and print a report of the generated colors.\n" +
			"With --templates, render the .tmpl files of a directory instead. " +
			"With --write, replace the job's generated block with the result.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.job, "job", "j", "job.hcl", "path to job HCL file")
	f.IntVar(&o.workers, "workers", 0, "restarts to run in parallel (0 uses every core)")
	f.Int64Var(&o.seed, "seed", 0, "override the job's random seed")
	f.StringVar(&o.templates, "templates", "", "render the .tmpl files in this directory instead of the report")
	f.StringVar(&o.out, "out", "output", "output directory for rendered templates")
	f.StringArrayVar(&o.only, "template", nil, "render only this template (can be repeated)")
	f.BoolVarP(&o.write, "write", "w", false, "write the generated block back into the job file")
	f.BoolVar(&o.allRuns, "all-runs", false, "list every restart in the report")

	return cmd
}

func runJob(cmd *cobra.Command, o runOptions) error {
	job, err := palettegen.Load(o.job)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		if o.seed < 0 {
			return fmt.Errorf("--seed must be non-negative, got %d", o.seed)
		}
		seed := uint64(o.seed)
		job.Config.Seed = &seed
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, runErr := job.Run(ctx, palettegen.Options{
		Workers:  o.workers,
		KeepRuns: o.allRuns,
		OnProgress: func(p palettegen.Progress) {
			log.Infof("%d/%d restarts (%.0f%%), best score %.4f", p.Completed, p.Total, p.Percent, p.BestScore)
		},
	})
	if report == nil {
		return fmt.Errorf("optimizing: %w", runErr)
	}
	if runErr != nil {
		log.Warningf("interrupted, reporting %d of %d restarts", report.Completed, report.Total)
	}

	if o.templates != "" {
		e := &engine.Engine{
			TemplatesDir: o.templates,
			OutputDir:    o.out,
			Templates:    o.only,
		}
		if err := e.Run(report); err != nil {
			return fmt.Errorf("rendering templates: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered templates in %s\n", o.out)
	} else if err := engine.RenderReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if o.write {
		if runErr != nil {
			log.Warningf("not writing %s: the run did not finish", o.job)
			return runErr
		}
		if err := writeGenerated(o.job, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d generated colors to %s\n", len(report.Generated), o.job)
	}

	return runErr
}

// writeGenerated replaces the generated block of the job file at path with
// the report's colors.
func writeGenerated(path string, report *engine.Report) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading job file: %w", err)
	}

	entries := make([]schema.Entry, len(report.Generated))
	for i, s := range report.Generated {
		entries[i] = schema.Entry{Name: s.Name, Color: s.Color}
	}

	out, err := format.WriteGenerated(src, path, entries)
	if err != nil {
		return fmt.Errorf("writing generated block: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing job file: %w", err)
	}
	return nil
}
