package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"story_assembler/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a story from a fragments file",
	Example: `  storyasm generate --fragments inputs.yaml --style Article --max-words 300
  storyasm generate --fragments inputs.json --style Social --max-words 60 --out caption.md`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("fragments")
		style, _ := cmd.Flags().GetString("style")
		maxWords, _ := cmd.Flags().GetInt("max-words")
		out, _ := cmd.Flags().GetString("out")
		showPrompt, _ := cmd.Flags().GetBool("show-prompt")

		frags, err := loadFragments(path)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck

		req, err := rt.agent.BuildStoryRequest(cmd.Context(), frags, generator.Style(style), maxWords)
		if err != nil {
			return err
		}
		if showPrompt {
			fmt.Fprintln(cmd.ErrOrStderr(), req.Instruction)
		}
		draft, err := rt.agent.SendStoryRequest(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeNarrative(cmd, out, draft.Markdown)
	},
}

func writeNarrative(cmd *cobra.Command, path, narrative string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), narrative)
		return nil
	}
	return os.WriteFile(path, []byte(narrative), 0o644)
}

func init() {
	generateCmd.Flags().String("fragments", "", "YAML or JSON file with [{text, rank}] entries")
	generateCmd.Flags().String("style", string(generator.StyleArticle), "story style: Article, Blog, Social")
	generateCmd.Flags().Int("max-words", 300, "target length in words")
	generateCmd.Flags().String("out", "", "write the story to this file instead of stdout")
	generateCmd.Flags().Bool("show-prompt", false, "print the assembled instruction to stderr")
	_ = generateCmd.MarkFlagRequired("fragments")
	rootCmd.AddCommand(generateCmd)
}
