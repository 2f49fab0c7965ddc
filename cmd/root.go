package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/logger"
	"github.com/spigell/blacktable/internal/recruiter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = config.Name
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "blacktable parses resumes, scores candidate fit and drafts interview questions with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is blacktable.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json"))
}

// session is what every pipeline command needs to run.
type session struct {
	cfg    *config.Config
	svc    *recruiter.Service
	logger *zap.Logger
}

// start loads the configuration, builds the logger and connects to the
// configured provider. Any failure here is fatal for the command.
func start(ctx context.Context) *session {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		log.Fatalf("loading config: %s", err)
	}

	logger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	logger.Debug(fmt.Sprintf("starting the %s", app),
		zap.String("version", version),
		zap.String("provider", cfg.AI.Provider),
	)

	svc, err := recruiter.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("creating the ai provider",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or OPENROUTER_API_KEY, or ai.<provider>.api-key-file in the configuration file"),
		)
	}

	return &session{cfg: cfg, svc: svc, logger: logger}
}
