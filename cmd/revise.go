package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var reviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Revise an existing story with a free-text instruction",
	Example: `  storyasm revise --story story.md --instruction "it sounds like a pirate wrote it"
  cat story.md | storyasm revise --instruction "it is under 100 words"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("story")
		instruction, _ := cmd.Flags().GetString("instruction")
		out, _ := cmd.Flags().GetString("out")

		narrative, err := readStory(cmd, path)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck

		draft, err := rt.agent.Revise(cmd.Context(), narrative, instruction)
		if err != nil {
			return err
		}
		return writeNarrative(cmd, out, draft.Markdown)
	},
}

// readStory reads path, or stdin when path is empty or "-".
func readStory(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("story is empty")
	}
	return string(data), nil
}

func init() {
	reviseCmd.Flags().String("story", "", "file holding the prior story (default stdin)")
	reviseCmd.Flags().String("instruction", "", "what the revised story should satisfy")
	reviseCmd.Flags().String("out", "", "write the revised story to this file instead of stdout")
	_ = reviseCmd.MarkFlagRequired("instruction")
	rootCmd.AddCommand(reviseCmd)
}
