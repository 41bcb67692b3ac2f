package cmd

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/uyouii/littlesprout/journal"
	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/trend"
)

func profileCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the child's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := app.Journal.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s, born %s\n", profile.Name, profile.Gender, profile.BirthDate)
			return nil
		},
	}

	var name, birth, gender string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace the child's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			birthDate, err := model.ParseDate(birth)
			if err != nil {
				return err
			}
			g, err := model.ParseGender(gender)
			if err != nil {
				return err
			}
			profile, err := app.Journal.SetProfile(cmd.Context(), model.ChildProfile{
				Name:      name,
				BirthDate: birthDate,
				Gender:    g,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", profile.Name)
			return nil
		},
	}
	setCmd.Flags().StringVar(&name, "name", "", "Child's name")
	setCmd.Flags().StringVar(&birth, "birth", "", "Birth date (YYYY-MM-DD)")
	setCmd.Flags().StringVar(&gender, "gender", "", "boy or girl")
	_ = setCmd.MarkFlagRequired("name")
	_ = setCmd.MarkFlagRequired("birth")
	_ = setCmd.MarkFlagRequired("gender")

	cmd.AddCommand(setCmd)
	return cmd
}

type recordFlags struct {
	date   string
	height float64
	weight float64
	notes  string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Measurement date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

func (f *recordFlags) record(id string) (model.GrowthRecord, error) {
	record := model.GrowthRecord{ID: id, Height: f.height, Weight: f.weight, Notes: f.notes}
	if f.date != "" {
		date, err := model.ParseDate(f.date)
		if err != nil {
			return record, err
		}
		record.Date = date
	}
	return record, nil
}

// overlay copies onto record only the fields whose flags were set.
func (f *recordFlags) overlay(cmd *cobra.Command, record *model.GrowthRecord) error {
	flags := cmd.Flags()
	if flags.Changed("date") {
		date, err := model.ParseDate(f.date)
		if err != nil {
			return err
		}
		record.Date = date
	}
	if flags.Changed("height") {
		record.Height = f.height
	}
	if flags.Changed("weight") {
		record.Weight = f.weight
	}
	if flags.Changed("notes") {
		record.Notes = f.notes
	}
	return nil
}

func recordCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage growth records",
	}

	var addFlags recordFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a growth record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := addFlags.record("")
			if err != nil {
				return err
			}
			return saveRecord(cmd, app, record)
		},
	}
	addFlags.register(addCmd)

	var updateFlags recordFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a growth record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.Journal.Record(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := updateFlags.overlay(cmd, record); err != nil {
				return err
			}
			return saveRecord(cmd, app, *record)
		},
	}
	updateFlags.register(updateCmd)

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List growth records with their percentiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Journal.AnnotatedRecords(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return writeRecords(cmd.OutOrStdout(), records)
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a growth record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Journal.DeleteRecord(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, updateCmd, listCmd, deleteCmd)
	return cmd
}

func saveRecord(cmd *cobra.Command, app *App, record model.GrowthRecord) error {
	saved, err := app.Journal.SaveRecord(cmd.Context(), record)
	if err != nil {
		return err
	}
	profile, err := app.Journal.Profile(cmd.Context())
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), []journal.AnnotatedRecord{journal.Annotate(profile, *saved)})
}

func writeRecords(w io.Writer, records []journal.AnnotatedRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAGE (mo)\tHEIGHT\t\tWEIGHT\t\tNOTES")
	for _, record := range records {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			record.ID, record.Date, record.AgeMonths,
			formatMeasurement(record.Height.Value, "cm"), formatReading(record.Height),
			formatMeasurement(record.Weight.Value, "kg"), formatReading(record.Weight),
			record.Notes)
	}
	return tw.Flush()
}

func formatMeasurement(value float64, unit string) string {
	if value <= 0 {
		return "-"
	}
	return fmt.Sprintf("%g %s", value, unit)
}

func formatReading(reading journal.Reading) string {
	if !reading.Available() {
		return ""
	}
	return fmt.Sprintf("P%d %s", *reading.Percentile, *reading.Severity)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func vaccineCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaccine",
		Short: "Manage vaccination records",
	}

	var date, name, dose, location, photo string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vaccination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vaccine := model.VaccineRecord{VaccineName: name, Dose: dose, Location: location}
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				vaccine.Date = d
			}
			if photo != "" {
				dataURL, err := photoDataURL(photo)
				if err != nil {
					return err
				}
				vaccine.Photo = dataURL
			}
			saved, err := app.Journal.SaveVaccine(cmd.Context(), vaccine)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", saved.ID, saved.Date, saved.VaccineName)
			return nil
		},
	}
	addCmd.Flags().StringVar(&date, "date", "", "Vaccination date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&name, "name", "", "Vaccine name")
	addCmd.Flags().StringVar(&dose, "dose", "", "Dose, e.g. 1st")
	addCmd.Flags().StringVar(&location, "location", "", "Where it was given")
	addCmd.Flags().StringVar(&photo, "photo", "", "Photo of the vaccination card, stored as is")
	_ = addCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vaccinations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vaccines, err := app.Journal.Vaccines(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tVACCINE\tDOSE\tLOCATION\tPHOTO")
			for _, v := range vaccines {
				hasPhoto := ""
				if v.Photo != "" {
					hasPhoto = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.Date, v.VaccineName, v.Dose, v.Location, hasPhoto)
			}
			return tw.Flush()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vaccination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Journal.DeleteVaccine(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

func photoDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	return fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(data),
		base64.StdEncoding.EncodeToString(data)), nil
}

func trendCommand(app *App) *cobra.Command {
	var measurementType string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Look for shifts between percentile channels in the records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseMeasurementType(measurementType)
			if err != nil {
				return err
			}
			res, err := detectTrend(cmd, app, t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res == nil:
				fmt.Fprintf(out, "no %s records yet\n", t)
			case res.Noisy:
				fmt.Fprintf(out, "%s records are too irregular to read a trend\n", t)
			case len(res.ChangePoints) == 0:
				fmt.Fprintf(out, "%s is growing steadily along its channel\n", t)
			default:
				for _, changePoint := range res.ChangePoints {
					fmt.Fprintf(out, "%s channel %s at %.1f months (z=%.2f)\n", t,
						changePoint.ChangePointType, changePoint.Point.AgeMonths, changePoint.Point.Value)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&measurementType, "type", "t", "height", "Measurement: height or weight")
	return cmd
}

func summaryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Ask the AI assistant for a short growth summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := app.Journal.State(cmd.Context())
			if err != nil {
				return err
			}
			if state.Profile == nil || len(state.Records) == 0 {
				return fmt.Errorf("a profile and at least one record are needed for a summary")
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Assistant.AnalyzeGrowth(cmd.Context(), state.Profile, state.Records))
			return nil
		},
	}
}

func resetCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile and every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Delete all data? This cannot be undone. [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			return app.Journal.Reset(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func detectTrend(cmd *cobra.Command, app *App, t model.MeasurementType) (*trend.Result, error) {
	series, err := app.Journal.Series(cmd.Context(), t)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}
	return trend.Detect(cmd.Context(), series)
}

func chartCommand(app *App) *cobra.Command {
	var (
		measurementType string
		format          string
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the reference curves sized to the records, with the child's own points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseMeasurementType(measurementType)
			if err != nil {
				return err
			}
			curve, points, err := app.Journal.Chart(cmd.Context(), t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, map[string]any{"curve": curve, "points": points})
			}
			if err := writeCurve(out, curve, "table"); err != nil {
				return err
			}
			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "age\t%s (%s)\t\n", t, t.Unit())
			for _, point := range points {
				fmt.Fprintf(tw, "%.1f\t%g\t\n", point.AgeMonths, point.Value)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&measurementType, "type", "t", "height", "Measurement: height or weight")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}
