package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "studioctl",
		Short: "Prelanding copy studio from the terminal",
		Long: `studioctl generates prelanding copy and manages scenarios, the reference
library and the name/review generators of the prelanding studio service.

Configuration is read from ~/.studioctl.yml (or --config), falling back to
STUDIO_API_URL / STUDIO_API_TOKEN environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.studioctl.yml)")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "confirm destructive actions without prompting")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "verbose diagnostics")

	root.AddCommand(
		newGenerateCmd(a),
		newShowCmd(a),
		newScenariosCmd(a),
		newLibraryCmd(a),
		newNamesCmd(a),
		newReviewsCmd(a),
		newOptionsCmd(a),
	)
	return root
}
