package bot

import "testing"

func TestScoreCandidatesRanksHighestFeatureFirst(t *testing.T) {
	features := []float32{
		1, 0, 0, 0, // pure resource-node candidate
		0, 0, 0, 1, // pure proximity-to-enemy candidate
		0, 0, 1, 0, // pure terrain-similarity candidate
	}

	scores, err := ScoreCandidates(features, DefaultWeights)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if !(scores[0] > scores[1] && scores[0] > scores[2]) {
		t.Fatalf("expected resource-node candidate to score highest, got %v", scores)
	}
}

func TestScoreCandidatesRejectsMismatchedWeights(t *testing.T) {
	_, err := ScoreCandidates([]float32{1, 2, 3, 4}, []float32{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for mismatched weight length")
	}
}

func TestScoreCandidatesEmptyInput(t *testing.T) {
	scores, err := ScoreCandidates(nil, DefaultWeights)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores for empty input, got %v", scores)
	}
}
