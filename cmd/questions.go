package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/questions"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions for a job, optionally tailored to a resume",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		s := start(ctx)

		flags := cmd.Flags()
		jobPath, _ := flags.GetString("job")
		round, _ := flags.GetString("round")
		focus, _ := flags.GetString("focus")
		resumePath, _ := flags.GetString("resume")
		levels, _ := flags.GetStringSlice("difficulty")
		interactive, _ := flags.GetBool("interactive")

		count := s.cfg.Questions.Count
		if flags.Changed("count") {
			count, _ = flags.GetInt("count")
		}
		ratio := s.cfg.Questions.PersonalizedRatio
		if flags.Changed("ratio") {
			ratio, _ = flags.GetFloat64("ratio")
		}

		jobDescription, err := readText(jobPath, cmd.InOrStdin())
		if err != nil {
			s.logger.Fatal("reading the job description", zap.Error(err))
		}

		if round == "" && interactive {
			if round, err = selectRound(); err != nil {
				s.logger.Fatal("exiting", zap.Error(err))
			}
		}

		difficulties, err := parseDifficulties(levels)
		if err != nil {
			s.logger.Fatal("reading difficulty levels", zap.Error(err))
		}

		var result any
		if resumePath == "" {
			result, err = s.svc.GenerateQuestions(ctx, questions.StandardRequest{
				JobDescription: jobDescription,
				Round:          round,
				FocusArea:      focus,
				Count:          count,
				Difficulties:   difficulties,
			})
		} else {
			req := questions.MixedRequest{
				JobDescription: jobDescription,
				Round:          round,
				FocusArea:      focus,
				Total:          count,
				Ratio:          ratio,
			}
			if err := checkMixedRequest(req, difficulties); err != nil {
				s.logger.Fatal("invalid question request", zap.Error(err))
			}
			if req.Profile, err = s.svc.ParseResumeFile(ctx, resumePath); err != nil {
				s.logger.Fatal("parsing the resume", zap.Error(err), zap.String("file", resumePath))
			}
			result, err = s.svc.GenerateMixedQuestions(ctx, req)
		}
		if err != nil {
			s.logger.Fatal("generating questions", zap.Error(err), zap.String("round", round))
		}

		s.logger.Info("questions generated", zap.String("round", round), zap.Bool("personalized", resumePath != ""))

		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			s.logger.Fatal("printing questions", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	rounds := make([]string, 0, len(questions.Rounds()))
	for _, r := range questions.Rounds() {
		rounds = append(rounds, string(r))
	}

	questionsCmd.Flags().String("job", "", "a file with the job description ('-' reads stdin)")
	questionsCmd.Flags().String("round", "", fmt.Sprintf("interview round (%s)", strings.Join(rounds, ", ")))
	questionsCmd.Flags().String("focus", "", "an optional focus area")
	questionsCmd.Flags().Int("count", 0, "number of questions (default from questions.count)")
	questionsCmd.Flags().StringSlice("difficulty", nil, "difficulty levels: easy, medium, hard")
	questionsCmd.Flags().String("resume", "", "a resume document; mixes standard and personalized questions")
	questionsCmd.Flags().Float64("ratio", 0, "personalized share of questions when --resume is set (default from questions.personalized-ratio)")
	questionsCmd.Flags().BoolP("interactive", "i", false, "choose the interview round from a list when --round is not set")
	questionsCmd.MarkFlagRequired("job")
}

func selectRound() (string, error) {
	prompt := promptui.Select{
		Label: "Choose an interview round",
		Items: questions.Rounds(),
	}

	_, round, err := prompt.Run()
	return round, err
}

func parseDifficulties(levels []string) ([]questions.Difficulty, error) {
	out := make([]questions.Difficulty, 0, len(levels))
	for _, level := range levels {
		d, err := questions.ParseDifficulty(level)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// checkMixedRequest rejects a resume-backed request before the resume is parsed.
func checkMixedRequest(req questions.MixedRequest, difficulties []questions.Difficulty) error {
	if len(difficulties) > 0 {
		return failure.New(failure.InvalidInput, "--difficulty only applies without --resume")
	}
	return req.Validate()
}
