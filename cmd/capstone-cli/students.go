package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smolina-v/go-capstone-cli/internal/models"
)

func newCohortsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cohorts",
		Short: "List cohorts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			cohorts, err := a.api.Cohorts(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cohorts)
		},
	}
}

func newTeamsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Inspect and generate teams",
	}

	var cohortID string

	list := &cobra.Command{
		Use:   "list",
		Short: "List teams of a cohort",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			teams, err := a.api.Teams(cmd.Context(), cohortID)
			if err != nil {
				return err
			}

			return printJSON(teams)
		},
	}
	list.Flags().StringVar(&cohortID, "cohort", "", "cohort id")
	_ = list.MarkFlagRequired("cohort")

	var genCohortID string

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Run server-side team matching for a cohort",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			resp, err := a.api.GenerateTeams(cmd.Context(), genCohortID)
			if err != nil {
				return err
			}

			fmt.Println(resp.Message)

			return printJSON(resp.Teams)
		},
	}
	generate.Flags().StringVar(&genCohortID, "cohort", "", "cohort id")
	_ = generate.MarkFlagRequired("cohort")

	cmd.AddCommand(list, generate)

	return cmd
}

func newPrefsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Teammate preference nominations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List my nominations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			prefs, err := a.api.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(prefs)
		},
	}

	var studentID string
	var rank int

	add := &cobra.Command{
		Use:   "add",
		Short: "Nominate a preferred teammate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			pref, err := a.api.CreatePreference(cmd.Context(), models.CreatePreferenceRequest{
				PreferredStudent: studentID,
				Rank:             rank,
			})
			if err != nil {
				return err
			}

			return printJSON(pref)
		},
	}
	add.Flags().StringVar(&studentID, "student", "", "preferred student profile id")
	add.Flags().IntVar(&rank, "rank", 1, "preference rank (1 — highest)")
	_ = add.MarkFlagRequired("student")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a nomination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			if err := a.api.DeletePreference(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Println("removed")

			return nil
		},
	}

	candidates := &cobra.Command{
		Use:   "candidates",
		Short: "List potential teammates from my cohort",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			out, err := a.api.Candidates(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(out)
		},
	}

	cmd.AddCommand(list, add, rm, candidates)

	return cmd
}
