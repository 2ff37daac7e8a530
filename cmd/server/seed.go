package main

import (
	"fmt"

	"procflow/internal/config"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision users and departments from a YAML file",
		Long:  "Creates the users and departments listed in the seed file. Existing names are skipped, so the command can be re-run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := config.LoadSeed(path)
			if err != nil {
				return err
			}
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Seed(cmd.Context(), seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d departments\n", res.UsersCreated, res.DepartmentsCreated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "seed.yaml", "path to seed file")
	return cmd
}
