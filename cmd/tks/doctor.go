package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/takestash/internal/util"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database integrity and report orphaned rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		st := lib.Store()
		if err := st.CheckIntegrity(); err != nil {
			return err
		}
		util.SuccessLog("Database integrity: ok")

		// Dependent rows must always reference a live version
		orphans := 0
		for _, table := range []string{"version_tags", "notes", "images"} {
			var n int
			query := fmt.Sprintf(
				"SELECT COUNT(*) FROM %s WHERE version_id NOT IN (SELECT id FROM versions)", table)
			if err := st.DB().QueryRow(query).Scan(&n); err != nil {
				return err
			}
			if n > 0 {
				util.WarnLog("%d orphaned row(s) in %s", n, table)
				orphans += n
			}
		}

		if orphans == 0 {
			util.SuccessLog("No orphaned rows")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
