package generator

// PlanCompression decides which ranked fragments are shortened and to what length.
//
// Only fragments in the second half of the ranking are candidates, and only
// those longer than maxWords/len(ranked) are selected. The target shrinks by
// ten words per position and never drops below one word.
func PlanCompression(ranked []Fragment, maxWords int) ([]CompressionDecision, error) {
	n := len(ranked)
	if n == 0 {
		return nil, ErrNoFragments
	}
	if maxWords <= 0 {
		return nil, ErrInvalidMaxWords
	}

	budget := float64(maxWords) / float64(n)
	decisions := make([]CompressionDecision, n)
	for i, f := range ranked {
		if i+1 <= n/2 {
			continue
		}
		if float64(wordCount(f.Text)) <= budget {
			continue
		}
		decisions[i] = CompressionDecision{
			Compress:    true,
			TargetWords: compressionTarget(budget, i),
		}
	}
	return decisions, nil
}

func compressionTarget(budget float64, i int) int {
	target := int(budget - float64(i*10) + 10)
	if target < 1 {
		return 1
	}
	return target
}
