package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/uyouii/littlesprout/journal"
	"github.com/uyouii/littlesprout/lms"
	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
)

type measurementFlags struct {
	gender          string
	measurementType string
}

func (f *measurementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.gender, "gender", "g", "", "Gender: boy or girl (default: the profile's)")
	cmd.Flags().StringVarP(&f.measurementType, "type", "t", "height", "Measurement: height (cm) or weight (kg)")
}

// resolve parses the flags, falling back to the saved profile's gender.
func (f *measurementFlags) resolve(cmd *cobra.Command, app *App) (model.Gender, model.MeasurementType, error) {
	measurementType, err := model.ParseMeasurementType(f.measurementType)
	if err != nil {
		return "", "", err
	}
	if f.gender != "" {
		gender, err := model.ParseGender(f.gender)
		return gender, measurementType, err
	}
	profile, err := app.Journal.Profile(cmd.Context())
	if err != nil {
		return "", "", fmt.Errorf("--gender is required without a profile: %w", err)
	}
	return profile.Gender, measurementType, nil
}

// ageFlags take the age either directly or as a date against the profile's
// birth date. One of the two is required.
type ageFlags struct {
	ageMonths float64
	date      string
}

func (f *ageFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.ageMonths, "age", "a", 0, "Age in months")
	cmd.Flags().StringVar(&f.date, "date", "", "Measurement date (YYYY-MM-DD), age taken from the profile's birth date")
	cmd.MarkFlagsMutuallyExclusive("age", "date")
	cmd.MarkFlagsOneRequired("age", "date")
}

func (f *ageFlags) resolve(cmd *cobra.Command, app *App) (float64, error) {
	if f.date == "" {
		return f.ageMonths, nil
	}
	at, err := model.ParseDate(f.date)
	if err != nil {
		return 0, err
	}
	profile, err := app.Journal.Profile(cmd.Context())
	if err != nil {
		return 0, err
	}
	return journal.AgeInMonths(profile.BirthDate, at), nil
}

func percentileCommand(app *App) *cobra.Command {
	var (
		flags measurementFlags
		age   ageFlags
	)

	cmd := &cobra.Command{
		Use:   "percentile <value>",
		Short: "Rank a height or weight against the reference population",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			gender, measurementType, err := flags.resolve(cmd, app)
			if err != nil {
				return err
			}
			ageMonths, err := age.resolve(cmd, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			percentile, ok := lms.PercentileOf(gender, ageMonths, measurementType, value)
			if !ok {
				fmt.Fprintln(out, "unavailable")
				return nil
			}
			z, _ := lms.ZScoreOf(gender, ageMonths, measurementType, value)
			fmt.Fprintf(out, "%s %s %.4g %s at %.1f months: P%d (z=%.2f, %s)\n", gender, measurementType,
				value, measurementType.Unit(), ageMonths, percentile, z, lms.Classify(percentile))
			return nil
		},
	}

	flags.register(cmd)
	age.register(cmd)
	return cmd
}

// bandCommand is the reverse of percentile: the measurement that sits on a
// given percentile at an age.
func bandCommand(app *App) *cobra.Command {
	var (
		flags measurementFlags
		age   ageFlags
	)

	cmd := &cobra.Command{
		Use:   "band <percentile>",
		Short: "Print the height or weight on a percentile, e.g. the 90th at 18 months",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid percentile %q: %w", args[0], err)
			}
			gender, measurementType, err := flags.resolve(cmd, app)
			if err != nil {
				return err
			}
			ageMonths, err := age.resolve(cmd, app)
			if err != nil {
				return err
			}

			z, err := lms.ZScoreForPercentile(p)
			if err != nil {
				return err
			}
			value, err := lms.ValueAtPercentile(gender, measurementType, ageMonths, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %.1f months, P%g: %.2f %s (z=%.2f)\n", gender, measurementType,
				ageMonths, p, value, measurementType.Unit(), z)
			return nil
		},
	}

	flags.register(cmd)
	age.register(cmd)
	return cmd
}

func curveCommand(app *App) *cobra.Command {
	var (
		flags  measurementFlags
		maxAge int
		format string
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the 3rd to 97th percentile reference curves, one row per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gender, measurementType, err := flags.resolve(cmd, app)
			if err != nil {
				return err
			}
			curve, err := lms.GenerateCurve(gender, measurementType, maxAge)
			if err != nil {
				return err
			}
			return writeCurve(cmd.OutOrStdout(), curve, format)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&maxAge, "max-age", lms.MaxAgeMonths, "Last month of the curve, 0 to 60")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv or json")
	return cmd
}

func writeCurve(w io.Writer, curve []model.CurvePoint, format string) error {
	switch format {
	case "json":
		return writeJSON(w, roundCurve(curve))
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"age", "p3", "p15", "p50", "p85", "p97"})
		for _, point := range curve {
			row := []string{strconv.Itoa(point.Age)}
			for _, v := range point.Values() {
				row = append(row, strconv.FormatFloat(utils.FormatFloat(v, curveDecimals), 'f', -1, 64))
			}
			_ = cw.Write(row)
		}
		cw.Flush()
		return cw.Error()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "age\tP3\tP15\tP50\tP85\tP97\t")
		for _, point := range curve {
			fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
				point.Age, point.P3, point.P15, point.P50, point.P85, point.P97)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q", format)
}

// curveDecimals is the precision of machine readable curve output.
const curveDecimals = 3

func roundCurve(curve []model.CurvePoint) []model.CurvePoint {
	res := make([]model.CurvePoint, len(curve))
	for i, point := range curve {
		res[i] = model.CurvePoint{
			Age: point.Age,
			P3:  utils.FormatFloat(point.P3, curveDecimals),
			P15: utils.FormatFloat(point.P15, curveDecimals),
			P50: utils.FormatFloat(point.P50, curveDecimals),
			P85: utils.FormatFloat(point.P85, curveDecimals),
			P97: utils.FormatFloat(point.P97, curveDecimals),
		}
	}
	return res
}

func classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <percentile>",
		Short: "Classify a percentile as normal, watch or alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percentile, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid percentile %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", lms.Label(percentile), lms.Classify(percentile))
			return nil
		},
	}
}
