package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/session"
)

// newShowCmd выводит ранее сгенерированный текст по id генерации.
func newShowCmd(a *app) *cobra.Command {
	var withFeedback bool
	cmd := &cobra.Command{
		Use:   "show <gen_id>",
		Short: "Show a previous generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.api.GetGeneration(cmd.Context(), args[0])
			if err != nil {
				printError(a.out, userMessage(err, session.FallbackGenerationMessage))
				return err
			}
			res, err := session.Normalize(raw)
			if err != nil {
				printError(a.out, session.FallbackGenerationMessage)
				return err
			}
			printResult(a, res)
			if !withFeedback {
				return nil
			}

			history, err := a.api.FeedbackHistory(cmd.Context(), args[0])
			if err != nil {
				printError(a.out, userMessage(err, session.FallbackFeedbackMessage))
				return err
			}
			printFeedbackHistory(a, history)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withFeedback, "feedback", false, "also show submitted performance metrics")
	return cmd
}

func printFeedbackHistory(a *app, h *models.FeedbackHistory) {
	printHeading(a.out, fmt.Sprintf("Feedback (%d)", h.FeedbackCount))
	if len(h.Feedback) == 0 {
		printMuted(a.out, "No feedback")
		return
	}
	rows := make([][]string, 0, len(h.Feedback))
	for _, f := range h.Feedback {
		submitted := "-"
		if f.SubmittedAt != nil {
			submitted = f.SubmittedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			submitted,
			percent(f.LeadRate),
			percent(f.CTRToLanding),
			percent(f.DepositRate),
			percent(f.BanRate),
		})
	}
	renderTable(a.out, []string{"SUBMITTED", "LEAD RATE", "CTR", "DEPOSIT", "BAN"}, rows)
}
