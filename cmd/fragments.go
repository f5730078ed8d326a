package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"story_assembler/generator"
)

// fragmentFile accepts either a bare list or {fragments: [...]}; JSON parses as YAML.
type fragmentFile struct {
	Fragments []generator.Fragment `yaml:"fragments"`
}

func loadFragments(path string) ([]generator.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFragments(data)
}

func parseFragments(data []byte) ([]generator.Fragment, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, generator.ErrNoFragments
	}

	var frags []generator.Fragment
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&frags); err != nil {
			return nil, fmt.Errorf("parse fragments: %w", err)
		}
	case yaml.MappingNode:
		var f fragmentFile
		if err := node.Content[0].Decode(&f); err != nil {
			return nil, fmt.Errorf("parse fragments: %w", err)
		}
		frags = f.Fragments
	default:
		return nil, fmt.Errorf("parse fragments: expected a list or a mapping with a fragments key")
	}
	if len(frags) == 0 {
		return nil, generator.ErrNoFragments
	}
	return frags, nil
}
