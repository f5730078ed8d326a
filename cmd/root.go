package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"story_assembler/config"
	"story_assembler/generator"
	"story_assembler/logging"
	"story_assembler/metrics"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "storyasm",
	Short: "Assemble ranked source fragments into a story and revise it",
	Long: `storyasm merges ranked fragments (facts, quotes, transcripts) into one
narrative of a chosen style and length. Rank 1 is the most important
fragment; long, low-ranked fragments are summarised before assembly.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().String("provider", "", "llm provider: openai, deepseek, anthropic, gemini, mock")
	rootCmd.PersistentFlags().String("model", "", "llm model name")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	if err := v.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}
}

// runtime is everything a command needs to talk to the service.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	llm      generator.LLMClient
	exporter *metrics.Exporter
	agent    *generator.Agent
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	llm, err := buildLLM(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	llm = generator.WithCallTimeout(llm, cfg.LLM.Timeout)

	exporter := metrics.NewExporter()
	agent, err := generator.NewAgent(llm,
		generator.WithLogger(logger.Named("agent")),
		generator.WithRecorder(exporter),
		generator.WithCompressionConcurrency(cfg.Compression.Concurrency),
	)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, llm: llm, exporter: exporter, agent: agent}, nil
}

// defaultModels is used when llm.model is unset.
var defaultModels = map[string]string{
	"openai":    "gpt-4o",
	"deepseek":  "deepseek-chat",
	"anthropic": "claude-sonnet-4-5",
	"gemini":    "gemini-2.5-flash",
}

func buildLLM(ctx context.Context, cfg config.LLMConfig) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	}
	if settings.Model == "" {
		settings.Model = defaultModels[cfg.Provider]
	}
	switch cfg.Provider {
	case "openai", "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，base_url 已在 Validate 中检查。
		return generator.NewOpenAILLMFromConfig(settings)
	case "anthropic":
		return generator.NewAnthropicLLMFromConfig(settings)
	case "gemini":
		return generator.NewGeminiLLMFromConfig(ctx, settings)
	case "mock":
		return &generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
