package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fitCmd = &cobra.Command{
	Use:   "fit <resume>",
	Short: "Score how well a resume fits a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := start(ctx)

		jobPath, _ := cmd.Flags().GetString("job")
		jobDescription, err := readText(jobPath, cmd.InOrStdin())
		if err != nil {
			s.logger.Fatal("reading the job description", zap.Error(err))
		}

		profile, err := s.svc.ParseResumeFile(ctx, args[0])
		if err != nil {
			s.logger.Fatal("parsing the resume", zap.Error(err), zap.String("file", args[0]))
		}

		result, err := s.svc.CalculateFit(ctx, profile, jobDescription)
		if err != nil {
			s.logger.Fatal("calculating the fit score", zap.Error(err))
		}

		s.logger.Info("fit score calculated",
			zap.Float64("score", result.Score),
			zap.String("category", string(result.Category)),
			zap.String("source", string(result.Source)),
		)

		if assess, _ := cmd.Flags().GetBool("assess"); assess {
			if err := s.svc.AssessFit(ctx, profile, result); err != nil {
				s.logger.Warn("skipping the written assessment", zap.Error(err))
			}
		}

		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			s.logger.Fatal("printing the result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().String("job", "", "a file with the job description ('-' reads stdin)")
	fitCmd.Flags().Bool("assess", false, "also ask the model for a short written assessment")
	fitCmd.MarkFlagRequired("job")
}
