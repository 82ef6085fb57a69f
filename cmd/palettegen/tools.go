package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsvensson/palettegen"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [--from SPACE] --to SPACE (COLOR | C1 C2 C3)",
		Short: "Convert a hex color or a channel triple between color spaces",
		Example: `  palettegen convert --to oklch "#eb6f92"
  palettegen convert --from lab --to oklch 50 20 -10`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("need a hex color or three channel values, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := palettegen.ParseSpace(to)
			if err != nil {
				return err
			}

			var src palettegen.Space
			var v palettegen.Values
			if len(args) == 1 {
				c, err := palettegen.ParseHex(args[0])
				if err != nil {
					return err
				}
				src, _ = palettegen.ParseSpace("rgb")
				v = c.Values()
			} else {
				if src, err = palettegen.ParseSpace(from); err != nil {
					return err
				}
				for i, a := range args {
					if v[i], err = strconv.ParseFloat(a, 64); err != nil {
						return fmt.Errorf("channel %d: %w", i+1, err)
					}
				}
			}

			out, err := palettegen.ConvertValues(v, src, dst)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s(%.4f, %.4f, %.4f)", dst, out[0], out[1], out[2])
			if c, err := palettegen.FromValues(v, src); err == nil {
				line += "  " + c.Hex()
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "rgb", "space of the channel values")
	cmd.Flags().StringVar(&to, "to", "oklch", "target space")
	// Channel values may be negative; stop flag parsing at the first one.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newDistanceCmd() *cobra.Command {
	var metric string
	var all bool

	cmd := &cobra.Command{
		Use:   "distance [--metric NAME] COLOR COLOR",
		Short: "Print the perceptual distance between two colors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := palettegen.ParseHex(args[0])
			if err != nil {
				return err
			}
			b, err := palettegen.ParseHex(args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if all {
				for _, name := range distance.MetricNames() {
					m, _ := palettegen.ParseMetric(name)
					fmt.Fprintf(w, "%-9s %.4f\n", name, palettegen.Distance(a, b, m))
				}
				return nil
			}

			m, ok := palettegen.ParseMetric(metric)
			if !ok {
				log.Warningf("unknown metric %q, falling back to %s", metric, m)
			}
			fmt.Fprintf(w, "%.4f\n", palettegen.Distance(a, b, m))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", "de2000", "distance metric ("+strings.Join(distance.MetricNames(), ", ")+")")
	cmd.Flags().BoolVar(&all, "all", false, "print the distance under every metric")

	return cmd
}

func newSimulateCmd() *cobra.Command {
	var typ, model string
	var severity float64

	cmd := &cobra.Command{
		Use:   "simulate [--type TYPE] [--severity S] [--model MODEL] COLOR...",
		Short: "Show colors as seen with a color vision deficiency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if severity < 0 || severity > 1 {
				return fmt.Errorf("--severity must be in [0, 1], got %v", severity)
			}
			m, err := palettegen.ParseCVDModel(model)
			if err != nil {
				return err
			}

			var types []palettegen.Deficiency
			if typ == "all" {
				types = []palettegen.Deficiency{cvd.Protan, cvd.Deutan, cvd.Tritan}
			} else {
				t, err := palettegen.ParseDeficiency(typ)
				if err != nil {
					return err
				}
				types = []palettegen.Deficiency{t}
			}

			w := cmd.OutOrStdout()
			for _, arg := range args {
				c, err := palettegen.ParseHex(arg)
				if err != nil {
					return err
				}
				parts := []string{c.Hex()}
				for _, t := range types {
					sim := palettegen.Simulate(c, t, severity, m).Hex()
					if len(types) > 1 {
						sim = t.String() + " " + sim
					}
					parts = append(parts, sim)
				}
				fmt.Fprintln(w, strings.Join(parts, "  "))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&typ, "type", "t", "deutan", "deficiency: protan, deutan, tritan, none or all")
	f.Float64VarP(&severity, "severity", "s", 1, "severity in [0, 1]")
	f.StringVar(&model, "model", "machado2009", "simulation model ("+strings.Join(cvd.ModelNames(), ", ")+")")

	return cmd
}
