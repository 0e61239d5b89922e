package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prelanding-studio/internal/generators"
	"prelanding-studio/internal/models"
)

func newNamesCmd(a *app) *cobra.Command {
	req := models.NameRequest{}
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Generate a batch of localized names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Geo = strings.ToUpper(req.Geo)
			panel := generators.NewNamePanel(a.api, a.zlog)
			if _, err := panel.Generate(cmd.Context(), req); err != nil {
				printError(a.out, panelMessage(err, panel.State().Message))
				return err
			}
			// Формат совпадает с "копировать всё" в браузере
			fmt.Fprintln(a.out, panel.ClipboardText())
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&req.Geo, "geo", "DE", "target country code")
	fl.StringVar(&req.Gender, "gender", "random", "male, female or random")
	fl.IntVar(&req.Count, "count", 10, fmt.Sprintf("number of names (1-%d)", models.MaxNameCount))
	fl.BoolVar(&req.IncludeNickname, "nickname", false, "include nicknames")
	return cmd
}

func newReviewsCmd(a *app) *cobra.Command {
	req := models.ReviewRequest{}
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Generate a batch of social-proof reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Geo = strings.ToUpper(req.Geo)
			panel := generators.NewReviewPanel(a.api, a.zlog)
			reviews, err := panel.Generate(cmd.Context(), req)
			if err != nil {
				printError(a.out, panelMessage(err, panel.State().Message))
				return err
			}
			for i, r := range reviews {
				printHeading(a.out, fmt.Sprintf("%d. %s %s", i+1, r.AuthorName, strings.Repeat("★", r.Rating)))
				fmt.Fprintln(a.out, r.Text)
				if r.Amount != nil {
					printMuted(a.out, fmt.Sprintf("%.2f %s", *r.Amount, r.Currency))
				}
				fmt.Fprintln(a.out)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&req.Geo, "geo", "DE", "target country code")
	fl.StringVar(&req.Language, "language", "de", "review language")
	fl.StringVar(&req.Vertical, "vertical", string(models.VerticalCrypto), "vertical")
	fl.StringVar(&req.Length, "length", "short", "short or medium")
	fl.IntVar(&req.Count, "count", 5, fmt.Sprintf("number of reviews (1-%d)", models.MaxReviewCount))
	return cmd
}

// panelMessage - сообщение панели, а для ошибок валидации - текст ошибки.
func panelMessage(err error, state string) string {
	if models.IsValidationError(err) || state == "" {
		return err.Error()
	}
	return state
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show accepted values for generation flags",
		Args:  cobra.NoArgs,
		// Справочник не требует сервиса
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := models.Options()
			sections := []struct {
				title string
				list  []models.Option
			}{
				{"Geos", opts.Geos},
				{"Languages", opts.Languages},
				{"Verticals", opts.Verticals},
				{"Personas", opts.Personas},
				{"Compliance levels", opts.ComplianceLevels},
			}
			for _, s := range sections {
				printHeading(a.out, s.title)
				rows := make([][]string, 0, len(s.list))
				for _, o := range s.list {
					rows = append(rows, []string{o.Value, o.Label, o.Hint})
				}
				renderTable(a.out, []string{"VALUE", "LABEL", "HINT"}, rows)
			}
			return nil
		},
	}
}
