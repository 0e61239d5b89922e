package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/scenario"
)

const fallbackScenarioMessage = "Ошибка сервиса сценариев"

type scenarioFlags struct {
	name        string
	nameRu      string
	description string
	beginning   string
	middle      string
	end         string
	active      bool
	order       int
}

func newScenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scenarios",
		Aliases: []string{"scenario"},
		Short:   "Manage narrative scenarios",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List scenarios ordered by order index",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				mgr := scenario.NewManager(a.api, a.zlog)
				list, err := mgr.List(cmd.Context())
				if err != nil {
					printError(a.out, userMessage(err, fallbackScenarioMessage))
					return err
				}
				printScenarios(a, list)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show scenario templates",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseScenarioID(args[0])
				if err != nil {
					return err
				}
				s, err := a.api.GetScenario(cmd.Context(), id)
				if err != nil {
					printError(a.out, userMessage(err, fallbackScenarioMessage))
					return err
				}
				printScenarioDetails(a, s)
				return nil
			},
		},
		newScenarioCreateCmd(a),
		newScenarioUpdateCmd(a),
		newScenarioDeleteCmd(a),
	)
	return cmd
}

func bindScenarioFlags(cmd *cobra.Command, f *scenarioFlags) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "scenario name")
	fl.StringVar(&f.nameRu, "name-ru", "", "scenario name in Russian")
	fl.StringVar(&f.description, "description", "", "description")
	fl.StringVar(&f.beginning, "beginning", "", "beginning template")
	fl.StringVar(&f.middle, "middle", "", "middle template")
	fl.StringVar(&f.end, "end", "", "end template")
	fl.BoolVar(&f.active, "active", true, "scenario is active")
	fl.IntVar(&f.order, "order", 0, "order index")
}

// draft переносит в черновик только явно заданные флаги.
func (f *scenarioFlags) draft(cmd *cobra.Command) models.ScenarioDraft {
	var d models.ScenarioDraft
	changed := cmd.Flags().Changed
	if changed("name") {
		d.Name = models.StringPtr(f.name)
	}
	if changed("name-ru") {
		d.NameRu = models.StringPtr(f.nameRu)
	}
	if changed("description") {
		d.Description = models.StringPtr(f.description)
	}
	if changed("beginning") {
		d.BeginningTemplate = models.StringPtr(f.beginning)
	}
	if changed("middle") {
		d.MiddleTemplate = models.StringPtr(f.middle)
	}
	if changed("end") {
		d.EndTemplate = models.StringPtr(f.end)
	}
	if changed("active") {
		active := f.active
		d.Active = &active
	}
	if changed("order") {
		d.OrderIndex = models.IntPtr(f.order)
	}
	return d
}

func newScenarioCreateCmd(a *app) *cobra.Command {
	f := &scenarioFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a scenario",
		Example: `  studioctl scenarios create --name story --name-ru История \
    --beginning "..." --middle "..." --end "..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr := scenario.NewManager(a.api, a.zlog)
			created, err := mgr.Create(cmd.Context(), f.draft(cmd))
			if err != nil {
				printError(a.out, userMessage(err, fallbackScenarioMessage))
				return err
			}
			printSuccess(a.out, fmt.Sprintf("Scenario %d created", created.ID))
			printScenarios(a, mgr.Scenarios())
			return nil
		},
	}
	bindScenarioFlags(cmd, f)
	return cmd
}

func newScenarioUpdateCmd(a *app) *cobra.Command {
	f := &scenarioFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseScenarioID(args[0])
			if err != nil {
				return err
			}
			mgr := scenario.NewManager(a.api, a.zlog)
			if _, err := mgr.Update(cmd.Context(), id, f.draft(cmd)); err != nil {
				printError(a.out, userMessage(err, fallbackScenarioMessage))
				return err
			}
			printSuccess(a.out, fmt.Sprintf("Scenario %d updated", id))
			printScenarios(a, mgr.Scenarios())
			return nil
		},
	}
	bindScenarioFlags(cmd, f)
	return cmd
}

func newScenarioDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseScenarioID(args[0])
			if err != nil {
				return err
			}
			mgr := scenario.NewManager(a.api, a.zlog)
			err = mgr.Delete(cmd.Context(), id, a)
			if errors.Is(err, models.ErrCancelled) {
				printMuted(a.out, "Cancelled")
				return nil
			}
			if err != nil {
				printError(a.out, userMessage(err, fallbackScenarioMessage))
				return err
			}
			printSuccess(a.out, fmt.Sprintf("Scenario %d deleted", id))
			printScenarios(a, mgr.Scenarios())
			return nil
		},
	}
}

func parseScenarioID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scenario id %q", raw)
	}
	return id, nil
}

func printScenarios(a *app, list []models.Scenario) {
	if len(list) == 0 {
		printMuted(a.out, "No scenarios")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		active := "yes"
		if !s.Active {
			active = "no"
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.NameRu,
			strconv.Itoa(s.OrderIndex),
			active,
		})
	}
	renderTable(a.out, []string{"ID", "NAME", "NAME RU", "ORDER", "ACTIVE"}, rows)
}

func printScenarioDetails(a *app, s *models.Scenario) {
	printHeading(a.out, fmt.Sprintf("%d. %s / %s", s.ID, s.Name, s.NameRu))
	if s.Description != "" {
		printMuted(a.out, s.Description)
	}
	for _, part := range []struct{ label, text string }{
		{"Beginning", s.BeginningTemplate},
		{"Middle", s.MiddleTemplate},
		{"End", s.EndTemplate},
	} {
		printHeading(a.out, "· "+part.label)
		fmt.Fprintln(a.out, part.text)
	}
}
