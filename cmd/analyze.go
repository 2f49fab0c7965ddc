package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/failure"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// analysisFile is the layout of the --application file. It mirrors the HTTP
// request body, so the same document works for both.
type analysisFile struct {
	Job         application.JobPosting  `json:"job"`
	Application application.Application `json:"application"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a complete job application",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		s := start(ctx)

		appPath, _ := cmd.Flags().GetString("application")
		file, err := loadAnalysisFile(appPath)
		if err != nil {
			s.logger.Fatal("loading the application", zap.Error(err))
		}

		if title, _ := cmd.Flags().GetString("job-title"); title != "" {
			file.Job.Title = title
		}
		if jobPath, _ := cmd.Flags().GetString("job"); jobPath != "" {
			if file.Job.Description, err = readText(jobPath, cmd.InOrStdin()); err != nil {
				s.logger.Fatal("reading the job description", zap.Error(err))
			}
		}
		if resumePath, _ := cmd.Flags().GetString("resume"); resumePath != "" {
			if file.Application.Profile, err = s.svc.ParseResumeFile(ctx, resumePath); err != nil {
				s.logger.Fatal("parsing the resume", zap.Error(err), zap.String("file", resumePath))
			}
		}

		evaluation, err := s.svc.AnalyzeApplication(ctx, file.Job, file.Application)
		if err != nil {
			s.logger.Fatal("analyzing the application", zap.Error(err))
		}

		s.logger.Info("application analyzed",
			zap.Float64("ai_score", evaluation.AIScore),
			zap.String("recommendation", string(evaluation.Recommendation)),
			zap.Bool("with_fit_score", evaluation.Fit != nil),
		)

		if err := printJSON(cmd.OutOrStdout(), evaluation); err != nil {
			s.logger.Fatal("printing the evaluation", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("application", "", "a yaml or json file with the job and the application")
	analyzeCmd.Flags().String("job-title", "", "overrides job.job_title from the application file")
	analyzeCmd.Flags().String("job", "", "a file with the job description, overrides job.job_description")
	analyzeCmd.Flags().String("resume", "", "a resume document to parse and attach to the application")
	analyzeCmd.MarkFlagRequired("application")
}

// loadAnalysisFile reads a yaml or json document with viper and decodes it
// using the same json field names the HTTP API accepts.
func loadAnalysisFile(path string) (*analysisFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, failure.Wrap(failure.FileNotFound, err, "read application file %q", path)
	}

	var file analysisFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &file,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, failure.Wrap(failure.InvalidInput, err, "decode application file %q", path)
	}

	file.Application.Profile.Normalize()
	return &file, nil
}
