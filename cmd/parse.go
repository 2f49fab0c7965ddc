package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume>",
	Short: "Parse a resume document (pdf, docx, txt, ...) into a structured profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := start(ctx)

		profile, err := s.svc.ParseResumeFile(ctx, args[0])
		if err != nil {
			s.logger.Fatal("parsing the resume", zap.Error(err), zap.String("file", args[0]))
		}

		s.logger.Info("resume parsed",
			zap.String("name", profile.Name()),
			zap.Int("skills", len(profile.Skills)),
			zap.Int("jobs", len(profile.WorkExperience)),
		)

		if err := printJSON(cmd.OutOrStdout(), profile); err != nil {
			s.logger.Fatal("printing the profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
