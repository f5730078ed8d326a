package main

import "story_assembler/cmd"

func main() {
	cmd.Execute()
}
