package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"story_assembler/generator"
)

var splitCmd = &cobra.Command{
	Use:   "split-interview",
	Short: "Split an interview transcript into question/answer pairs",
	Long: `split-interview asks the model to break a transcript into question/answer
pairs. With --rank, the pairs are printed as a fragments file ready for generate.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("transcript")
		rank, _ := cmd.Flags().GetInt("rank")

		transcript, err := readStory(cmd, path)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck

		splitter, err := generator.NewInterviewSplitter(rt.llm, rt.logger.Named("interview"), rt.exporter)
		if err != nil {
			return err
		}
		pairs, err := splitter.Split(cmd.Context(), transcript)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		if rank > 0 {
			return enc.Encode(fragmentFile{Fragments: generator.QAPairsToFragments(pairs, rank)})
		}
		return enc.Encode(pairs)
	},
}

func init() {
	splitCmd.Flags().String("transcript", "", "transcript file (default stdin)")
	splitCmd.Flags().Int("rank", 0, "emit fragments with this rank instead of raw pairs")
	rootCmd.AddCommand(splitCmd)
}
