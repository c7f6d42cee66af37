package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/matching"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a match score from skill lists",
	Long: `Compute the 0-100 match score for a candidate without touching storage.

Examples:
  jobmatch score --required go,sql --preferred k8s --candidate go,k8s`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringSlice("required", nil, "skills the job requires")
	scoreCmd.Flags().StringSlice("preferred", nil, "skills the job prefers")
	scoreCmd.Flags().StringSlice("candidate", nil, "skills the candidate has")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	sets := make([]matching.SkillSet, 0, 3)
	for _, name := range []string{"required", "preferred", "candidate"} {
		skills, err := cmd.Flags().GetStringSlice(name)
		if err != nil {
			return err
		}
		ids := make([]domain.SkillID, 0, len(skills))
		for _, s := range skills {
			if strings.TrimSpace(s) == "" {
				continue
			}
			ids = append(ids, domain.SkillIDFromName(s))
		}
		sets = append(sets, matching.NewSkillSet(ids...))
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\n", matching.Score(sets[0], sets[1], sets[2]))
	return err
}
