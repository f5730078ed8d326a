package generator

import (
	"fmt"
	"strings"
)

const rankPreamble = "The following details each have a rank. The closer the rank is to 1, the more important the detail. " +
	"Lower rank numbers are more important and should be prioritized.\n\n"

// styleDirectives 每种体裁的写作要求。
var styleDirectives = map[Style]string{
	StyleArticle: "Write a professional news article based on the details, prioritizing the most important ranks.\n" +
		"The article should be objective, well-structured, and informative. Include an engaging lead paragraph, " +
		"followed by a well-organized body with clear transitions, and a concluding paragraph that summarizes the impact of the event.",
	StyleBlog: "Write a blog post based on the details, prioritizing the most important ranks.\n" +
		"The blog should be opinionated, well-structured, and informative. Include an engaging lead paragraph, " +
		"with clear arguments for the point the author wants to bring across.",
	StyleSocial: "Write an Instagram caption based on the details, prioritizing the most important ranks.\n" +
		"The post should be concise and easy to read with relevant hashtags.",
}

// StyleDirective returns the directive for style and whether one exists.
func StyleDirective(style Style) (string, bool) {
	d, ok := styleDirectives[style]
	return d, ok
}

// BuildStoryPrompt assembles the generation request for already ranked fragments.
func BuildStoryPrompt(ranked []Fragment, style Style, maxWords int) GenerationRequest {
	var sb strings.Builder
	sb.WriteString(rankPreamble)
	if d, ok := StyleDirective(style); ok {
		sb.WriteString(d)
	}
	sb.WriteString(fmt.Sprintf("\nKeep the %s under %d words.\n", style, maxWords))
	for i, f := range ranked {
		sb.WriteString(fmt.Sprintf("Detail %d (Rank %d): %s\n", i+1, f.Rank, f.Text))
	}
	return GenerationRequest{Instruction: sb.String(), MaxTokens: DefaultMaxTokens}
}

// BuildRevisionPrompt asks the service to rewrite narrative so that instruction holds.
func BuildRevisionPrompt(narrative, instruction string) GenerationRequest {
	var sb strings.Builder
	sb.WriteString("Here is my story:\n")
	sb.WriteString(narrative)
	sb.WriteString("\nUpdate the story so that ")
	sb.WriteString(instruction)
	return GenerationRequest{Instruction: sb.String(), MaxTokens: DefaultMaxTokens}
}

// BuildSummaryPrompt asks for text shortened to under targetWords words.
func BuildSummaryPrompt(text string, targetWords int) GenerationRequest {
	instruction := fmt.Sprintf("Summarize this text in under %d words. "+
		"Make sure to emphasize important details and notable quotes if applicable:\n%s", targetWords, text)
	return GenerationRequest{Instruction: instruction, MaxTokens: DefaultMaxTokens}
}

// splitMaxTokens leaves room for a full JSON rendering of a long transcript.
const splitMaxTokens = 4000

func buildSplitPrompt(transcript string) GenerationRequest {
	var sb strings.Builder
	sb.WriteString("Split the following interview into question and answer pairs. ")
	sb.WriteString("Format your response EXACTLY as a JSON array of objects, with each object having a \"question\" and \"answer\" property. ")
	sb.WriteString("Do not include any other text or explanation in your response.\n\n")
	sb.WriteString("Example format:\n[\n  {\n    \"question\": \"What is your name?\",\n    \"answer\": \"John Doe\"\n  }\n]\n\n")
	sb.WriteString("Interview to split:\n")
	sb.WriteString(transcript)
	return GenerationRequest{Instruction: sb.String(), MaxTokens: splitMaxTokens}
}
