package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Prints star, repository and follower totals as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		languages, _ := cmd.Flags().GetBool("languages")
		repositories, _ := cmd.Flags().GetInt("repositories")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		switch {
		case languages:
			shares, err := a.profile.Languages(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch language stats: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), shares)
		case repositories > 0:
			repos, err := a.profile.TopRepositories(ctx, repositories)
			if err != nil {
				return fmt.Errorf("failed to fetch repositories: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), repos)
		default:
			stats, err := a.profile.Profile(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch profile stats: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().Bool("languages", false, "Print the most used primary languages instead")
	profileCmd.Flags().Int("repositories", 0, "Print the N most starred owned repositories instead")
	profileCmd.MarkFlagsMutuallyExclusive("languages", "repositories")
}
