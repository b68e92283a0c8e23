package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wahidmansoor/mwov2-sub006/internal/domain/calculator"
)

// errInvalidInput makes the process exit non-zero after the invalid result has
// already been printed.
var errInvalidInput = errors.New("invalid input")

// fieldFlags maps calculator fields to command-line flags.
var fieldFlags = map[calculator.Field]struct {
	name  string
	usage string
}{
	calculator.FieldHeightCm:            {"height", "Height in cm"},
	calculator.FieldWeightKg:            {"weight", "Weight in kg"},
	calculator.FieldAgeYears:            {"age", "Age in years"},
	calculator.FieldSerumCreatinineMgDl: {"creatinine", "Serum creatinine in mg/dL"},
	calculator.FieldSex:                 {"sex", `Biological sex ("male" or "female")`},
	calculator.FieldTargetAUC:           {"auc", "Target AUC in mg/mL·min"},
}

func calculatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calculators",
		Short: "List the available calculators",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %-28s %-8s %s\n", "KIND", "NAME", "UNIT", "FIELDS")
			for _, d := range calculator.DefaultRegistry().Descriptors() {
				fields := make([]string, 0, len(d.Required))
				for _, f := range d.Required {
					fields = append(fields, string(f))
				}
				fmt.Fprintf(out, "%-22s %-28s %-8s %s\n", d.Kind, d.Name, d.Unit, strings.Join(fields, ","))
			}
			return nil
		},
	}
}

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run a calculator from the command line",
	}
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or json")

	cmd.AddCommand(calcSubcommand("bsa", calculator.BSACalculator{}))
	cmd.AddCommand(calcSubcommand("creatinine-clearance", calculator.CreatinineClearanceEstimator{}))
	cmd.AddCommand(calcSubcommand("carboplatin", calculator.CarboplatinDoseCalculator{}))
	return cmd
}

func calcSubcommand(use string, calc calculator.Calculator) *cobra.Command {
	d := calc.Descriptor()
	cmd := &cobra.Command{
		Use:   use,
		Short: d.Name + " (" + d.Reference + ")",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output != "text" && output != "json" {
				return fmt.Errorf("unsupported output format %q", output)
			}

			// Unset flags stay absent so validation reports them as missing.
			raw := calculator.Fields{}
			for _, f := range d.Required {
				flag := fieldFlags[f].name
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					raw[string(f)] = v
				}
			}

			res := calculator.Evaluate(calc, raw)
			var err error
			if output == "json" {
				err = writeJSON(cmd.OutOrStdout(), res)
			} else {
				err = writeText(cmd.OutOrStdout(), d, res)
			}
			if err != nil {
				return err
			}
			if !res.Valid {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return errInvalidInput
			}
			return nil
		},
	}
	for _, f := range d.Required {
		ff := fieldFlags[f]
		cmd.Flags().String(ff.name, "", ff.usage)
	}
	return cmd
}

func writeJSON(w io.Writer, res calculator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeText(w io.Writer, d calculator.Descriptor, res calculator.Result) error {
	var b strings.Builder
	if res.Valid {
		fmt.Fprintf(&b, "%s: %s %s\n", d.Name, formatValue(res), res.Unit)
	} else {
		fmt.Fprintf(&b, "%s: invalid input\n", d.Name)
	}
	fmt.Fprintf(&b, "Interpretation: %s\n", res.Interpretation)
	fmt.Fprintf(&b, "Evidence: %s (%s)\n", res.EvidenceLevel, res.Reference)
	for _, fe := range res.Errors {
		fmt.Fprintf(&b, "  error: %s\n", fe.Error())
	}
	if len(res.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, r := range res.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", warn)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(res calculator.Result) string {
	if res.Value == nil {
		return ""
	}
	switch res.Calculator {
	case calculator.KindBSA:
		return fmt.Sprintf("%.2f", *res.Value)
	case calculator.KindCreatinineClearance:
		return fmt.Sprintf("%.1f", *res.Value)
	default:
		return fmt.Sprintf("%.0f", *res.Value)
	}
}
