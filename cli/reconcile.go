package cli

import (
	"encoding/json"

	"github.com/Masood0319/Startups-platform/services"

	"github.com/spf13/cobra"
)

var (
	reconcileRepair bool
	reconcileLimit  int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Find investments without a contract",
	Long: `Lists investments that no contract references. With --repair a draft
contract mirroring each orphan is created. The report is printed as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		report, err := services.NewReconciler(a.store, a.log).Run(cmd.Context(), reconcileRepair, reconcileLimit)
		if report != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil && err == nil {
				err = encErr
			}
		}
		return err
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "create the missing draft contracts")
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 500, "maximum orphans to process")
}
