package main

import (
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(*envFile, true)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if seed {
				return database.SeedDefaultData(db)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "create the ADMIN_EMAIL account when missing")
	return cmd
}
