package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prelanding-studio/internal/catalog"
	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

const fallbackCatalogMessage = "Ошибка загрузки prelandings"

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Browse and manage the reference prelanding library",
	}
	cmd.AddCommand(
		newLibraryListCmd(a),
		newLibraryFacetsCmd(a),
		newLibraryShowCmd(a),
		newLibraryUploadCmd(a),
		newLibraryDeleteCmd(a),
		newLibraryTopCmd(a),
	)
	return cmd
}

func newLibraryListCmd(a *app) *cobra.Command {
	var (
		q        catalog.Query
		vertical string
		page     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries, nine per page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib := catalog.NewLibrary(a.api, a.zlog)
			if err := lib.SetVertical(cmd.Context(), vertical); err != nil {
				printError(a.out, fallbackCatalogMessage)
				return err
			}
			if err := lib.EnsureLoaded(cmd.Context()); err != nil {
				printError(a.out, fallbackCatalogMessage)
				return err
			}
			lib.SetQuery(q)
			lib.SetPage(page)
			printLibraryView(a, lib.View())
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&q.Search, "search", "", "search in id, name and tags")
	fl.StringVar(&q.Geo, "geo", "", "filter by geo")
	fl.StringVar(&q.Language, "language", "", "filter by language")
	fl.StringVar(&vertical, "vertical", "", "server-side vertical filter")
	fl.IntVar(&page, "page", 1, "page number")
	return cmd
}

// newLibraryFacetsCmd строит распределения по всей библиотеке без серверного фильтра,
// поэтому в них попадают и вертикали вне списка формы.
func newLibraryFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show entry counts by vertical, geo and language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib := catalog.NewLibrary(a.api, a.zlog)
			if err := lib.EnsureLoaded(cmd.Context()); err != nil {
				printError(a.out, userMessage(err, fallbackCatalogMessage))
				return err
			}
			v := lib.View()
			a.log.Debug().Int("count", v.TotalCount).Msg("library loaded")
			printFacets(a, v.Facets)
			return nil
		},
	}
}

func newLibraryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.api.GetPrelanding(cmd.Context(), args[0])
			if err != nil {
				printError(a.out, userMessage(err, fallbackCatalogMessage))
				return err
			}
			printEntries(a, []models.CatalogEntry{*e})
			if p := e.PatternProfile; p != nil {
				printHeading(a.out, "Pattern profile")
				if p.Tone != "" {
					fmt.Fprintln(a.out, "Tone: "+p.Tone)
				}
				if len(p.PersuasionTechniques) > 0 {
					fmt.Fprintln(a.out, "Techniques: "+strings.Join(p.PersuasionTechniques, ", "))
				}
			}
			return nil
		},
	}
}

func newLibraryUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.zip>",
		Short: "Upload a prelanding archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			lib := catalog.NewLibrary(a.api, a.zlog)
			name := filepath.Base(path)
			if !catalog.IsArchive(name) {
				// Проверка до открытия файла
				_, err := lib.Upload(cmd.Context(), name, strings.NewReader(""))
				printError(a.out, lib.View().UploadMessage.Text)
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			_, err = lib.Upload(cmd.Context(), name, f)
			msg := lib.View().UploadMessage
			if err != nil {
				if msg != nil {
					printError(a.out, msg.Text)
				}
				return err
			}
			printSuccess(a.out, msg.Text)
			printMuted(a.out, fmt.Sprintf("Library now has %d entries", lib.View().TotalCount))
			return nil
		},
	}
}

func newLibraryDeleteCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := catalog.NewLibrary(a.api, a.zlog)
			err := lib.Delete(cmd.Context(), args[0], name, a)
			if errors.Is(err, models.ErrCancelled) {
				printMuted(a.out, "Cancelled")
				return nil
			}
			if err != nil {
				printError(a.out, userMessage(err, "Ошибка удаления"))
				return err
			}
			printSuccess(a.out, fmt.Sprintf("Deleted %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "entry name shown in the confirmation prompt")
	return cmd
}

func newLibraryTopCmd(a *app) *cobra.Command {
	var q models.TopQuery
	cmd := &cobra.Command{
		Use:   "top [metric]",
		Short: "Show top performing entries (lead_rate by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Metric = args[0]
			}
			lib := catalog.NewLibrary(a.api, a.zlog)
			list, err := lib.TopPerformers(cmd.Context(), q)
			if err != nil {
				printError(a.out, userMessage(err, fallbackCatalogMessage))
				return err
			}
			printEntries(a, list)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&q.Geo, "geo", "", "filter by geo")
	fl.StringVar(&q.Vertical, "vertical", "", "filter by vertical")
	fl.IntVar(&q.Limit, "limit", 10, "number of entries")
	return cmd
}

func printLibraryView(a *app, v catalog.View) {
	if v.LoadError != "" {
		printError(a.out, v.LoadError)
	}
	printHeading(a.out, fmt.Sprintf("Page %d/%d · %d of %d entries", v.Page, v.TotalPages, v.FilteredCount, v.TotalCount))
	printEntries(a, v.Entries)
}

func printEntries(a *app, entries []models.CatalogEntry) {
	if len(entries) == 0 {
		printMuted(a.out, "No entries")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.DisplayName(),
			e.Geo,
			e.Language,
			e.Vertical,
			percent(e.LeadRate),
			strings.Join(e.Tags, ", "),
		})
	}
	renderTable(a.out, []string{"ID", "NAME", "GEO", "LANG", "VERTICAL", "LEAD RATE", "TAGS"}, rows)
}

func printFacets(a *app, f catalog.Facets) {
	sections := []struct {
		title  string
		counts []catalog.FacetCount
	}{
		{"Verticals", f.Verticals},
		{"Geos", f.Geos},
		{"Languages", f.Languages},
	}
	for _, s := range sections {
		printHeading(a.out, s.title)
		rows := make([][]string, 0, len(s.counts))
		for _, c := range s.counts {
			rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
		}
		renderTable(a.out, []string{"VALUE", "COUNT"}, rows)
	}
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// userMessage - текст ошибки для терминала.
func userMessage(err error, fallback string) string {
	if models.IsValidationError(err) {
		return err.Error()
	}
	return client.UserMessage(err, fallback)
}
