package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/session"
)

type generateFlags struct {
	geo        string
	language   string
	vertical   string
	offer      string
	persona    string
	compliance string
	format     string
	length     int
	useRAG     bool
	scenario   int64
	export     string
	outDir     string
}

func newGenerateCmd(a *app) *cobra.Command {
	def := models.DefaultGenerationConfig()
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate prelanding copy",
		Long: `Generate prelanding copy for an offer.

Without --scenario the flat generator is used with --format and --length.
With --scenario the copy is built from the scenario's beginning, middle and end.`,
		Example: `  studioctl generate --offer "Bitcoin Pro" --geo DE --language de
  studioctl generate --offer "Bitcoin Pro" --scenario 3 --export html --out ./exports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.geo, "geo", string(def.Geo), "target country code")
	fl.StringVar(&f.language, "language", string(def.Language), "copy language")
	fl.StringVar(&f.vertical, "vertical", string(def.Vertical), "vertical (see studioctl options)")
	fl.StringVar(&f.offer, "offer", "", "offer name (required)")
	fl.StringVar(&f.persona, "persona", string(def.Persona), "author persona")
	fl.StringVar(&f.compliance, "compliance", string(def.ComplianceLevel), "compliance level")
	fl.StringVar(&f.format, "format", def.Format, "flat copy format")
	fl.IntVar(&f.length, "length", def.TargetLength, "target length in characters (flat mode)")
	fl.BoolVar(&f.useRAG, "rag", def.UseRAG, "use reference library examples")
	fl.Int64Var(&f.scenario, "scenario", 0, "scenario id (0 = flat mode)")
	fl.StringVar(&f.export, "export", "", "export result: text or html")
	fl.StringVar(&f.outDir, "out", "", "directory for exported files")
	return cmd
}

func (f *generateFlags) config() models.GenerationConfig {
	cfg := models.GenerationConfig{
		Geo:             models.Geo(strings.ToUpper(f.geo)),
		Language:        models.Language(strings.ToLower(f.language)),
		Vertical:        models.Vertical(f.vertical),
		Offer:           f.offer,
		Persona:         models.Persona(f.persona),
		ComplianceLevel: models.ComplianceLevel(f.compliance),
		Format:          f.format,
		TargetLength:    f.length,
		UseRAG:          f.useRAG,
	}
	if f.scenario > 0 {
		id := f.scenario
		cfg.ScenarioID = &id
	}
	return cfg
}

func runGenerate(cmd *cobra.Command, a *app, f *generateFlags) error {
	if f.export != "" && f.export != session.ExportText && f.export != session.ExportHTML {
		return fmt.Errorf("%w: %q", models.ErrInvalidExportFormat, f.export)
	}

	ctrl := session.NewController(a.api, a.zlog)
	defer ctrl.Close()

	cfg, err := ctrl.SetConfig(f.config())
	if err != nil {
		return err
	}
	if cfg.TargetLength != f.length && !cfg.HasScenario() {
		a.log.Info().Int("requested", f.length).Int("used", cfg.TargetLength).Msg("target length snapped")
	}

	a.log.Info().Str("geo", string(cfg.Geo)).Str("vertical", string(cfg.Vertical)).Bool("scenario", cfg.HasScenario()).Msg("generating")
	res, err := ctrl.Submit(cmd.Context())
	if err != nil {
		printError(a.out, session.UserMessage(err, session.FallbackGenerationMessage))
		return err
	}

	printResult(a, res)

	if f.export == "" {
		return nil
	}
	file, err := ctrl.Export(cmd.Context(), f.export)
	if err != nil {
		printError(a.out, session.UserMessage(err, session.FallbackExportMessage))
		return err
	}
	path, err := file.Save(a.outDir(f.outDir))
	if err != nil {
		return err
	}
	printSuccess(a.out, "Saved "+path)
	return nil
}

func printResult(a *app, res *models.GenerationResult) {
	printHeading(a.out, fmt.Sprintf("Generation %s (%s)", res.GenerationID, res.Body.Kind()))
	if sr, ok := res.Body.(models.ScenarioResult); ok {
		if sr.Scenario != nil {
			printMuted(a.out, "Scenario: "+sr.Scenario.Name)
		}
		for _, seg := range sr.Segments() {
			printHeading(a.out, "· "+seg.Label)
			fmt.Fprintln(a.out, seg.Text)
		}
	} else {
		fmt.Fprintln(a.out, res.DisplayText())
	}
	fmt.Fprintln(a.out)

	if res.Compliance.Passed {
		printSuccess(a.out, "Compliance: passed")
	} else {
		printError(a.out, "Compliance: failed")
	}
	for _, issue := range res.Compliance.Issues {
		printError(a.out, "  ✗ "+issue)
	}
	for _, w := range res.Compliance.Warnings {
		printWarn(a.out, "  ! "+w)
	}
	printMuted(a.out, fmt.Sprintf("Tokens used: %d", res.TokensUsed))
}
