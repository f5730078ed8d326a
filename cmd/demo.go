package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"story_assembler/generator"
)

// demoFragments is a sample flood-coverage bundle: a wire report, a family
// interview and a volunteer profile, ranked 1, 3 and 2.
var demoFragments = []generator.Fragment{
	{
		Rank: 1,
		Text: `Severe flooding hit Riverbend, Missouri in the early hours of February 25 after days of
rain pushed the Missouri River over its banks. Three residents died, more than 200 families were
evacuated, and homes, roads and the levee system were badly damaged. The National Weather Service
measured about seven inches of rain in 48 hours. The state transportation department closed several
roads and asked residents not to travel. The Red Cross and FEMA opened shelters and disaster recovery
centres, and volunteers have been handing out meals and clothing as the water starts to recede.`,
	},
	{
		Rank: 3,
		Text: `Interview with the Thompson family at the Riverbend High School shelter.
Interviewer: Can you share what happened when the flooding began?
John Thompson: Around midnight the emergency alerts went off on our phones. I looked outside and the
water was rising fast. We grabbed documents and some clothes and got the kids into the car, but the
streets were already under water.
Interviewer: How did you get to safety?
Emily Thompson: The car stalled, so we waded through waist-deep water to higher ground. I was so scared
for the kids. A neighbour with a boat saw us and brought us here.
Interviewer: Have you been back to the house?
John Thompson: Not yet. The authorities say it is still too dangerous, and we hear the whole
neighbourhood is under water. We are preparing for the worst.
Interviewer: How are the children coping?
Emily Thompson: They are confused and scared. Our youngest keeps asking when we can go home.
Interviewer: What support have you had?
John Thompson: The Red Cross gave us blankets and toiletries and volunteers are serving hot meals.
It is comforting to see everyone come together, but we know the road ahead is long.
Emily Thompson: What we need most is information. When can we go back, and what help is available?
John Thompson: Hold your loved ones close. We lost things, but we are grateful to be alive.`,
	},
	{
		Rank: 2,
		Text: `Marcus Green, a 34-year-old teacher and lifelong Riverbend resident, has been coordinating
relief at the high school shelter. "When the flooding started, I knew I had to do something," he said.
On the first night more than 200 people arrived, many soaked and carrying nothing. "It was chaos, but
everyone pitched in." The hardest part, he said, is seeing students and neighbours who have lost
everything. What gives him hope is the way local businesses and even schoolchildren have stepped in.
Looking ahead, he said the town will need long-term help rebuilding and mental health support.
"Recovery is going to take months, maybe years. Don't forget about us."`,
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a story from the built-in Riverbend flood fragments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		style, _ := cmd.Flags().GetString("style")
		maxWords, _ := cmd.Flags().GetInt("max-words")
		instruction, _ := cmd.Flags().GetString("revise")

		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync() //nolint:errcheck

		fmt.Fprintln(cmd.ErrOrStderr(), "The following story prioritizes the objective report")
		draft, err := rt.agent.Generate(cmd.Context(), generator.StoryRequest{
			Fragments: demoFragments,
			Style:     generator.Style(style),
			MaxWords:  maxWords,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), draft.Markdown)

		if instruction == "" {
			return nil
		}
		revised, err := rt.agent.Revise(cmd.Context(), draft.Markdown, instruction)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), revised.Markdown)
		return nil
	},
}

func init() {
	demoCmd.Flags().String("style", string(generator.StyleArticle), "story style: Article, Blog, Social")
	demoCmd.Flags().Int("max-words", 300, "target length in words")
	demoCmd.Flags().String("revise", "", "optional revision instruction applied to the generated story")
	rootCmd.AddCommand(demoCmd)
}
