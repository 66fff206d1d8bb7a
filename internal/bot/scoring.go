// Package bot scores bot-nation expansion candidates using a small linear
// model evaluated as a matrix-vector product, rather than a per-candidate Go
// loop, so a bot director handling many nations and a wide candidate set
// stays cheap within one tick's CPU budget.
package bot

import (
	"fmt"

	"gorgonia.org/tensor"
)

// NumFeatures is the width of one candidate's feature row, in the fixed
// order ScoreCandidates expects: resource-node presence, adjacency to a
// resource node, terrain similarity to the bot's territory, and inverse
// distance to the nearest enemy capital.
const NumFeatures = 4

// DefaultWeights favors open resource nodes first, adjacency to a resource
// node second, terrain similarity third, and closes in on the nearest enemy
// capital last (spec.md §4.8).
var DefaultWeights = []float32{3.0, 1.5, 1.0, 0.75}

// ScoreCandidates scores a batch of bot expansion candidates in one
// matrix-vector multiply. features must be row-major, len(features) ==
// n*NumFeatures for n candidates. Returns one score per candidate.
func ScoreCandidates(features []float32, weights []float32) ([]float32, error) {
	if len(weights) != NumFeatures {
		return nil, fmt.Errorf("bot: weights must have length %d, got %d", NumFeatures, len(weights))
	}
	if len(features)%NumFeatures != 0 {
		return nil, fmt.Errorf("bot: features length %d is not a multiple of %d", len(features), NumFeatures)
	}
	n := len(features) / NumFeatures
	if n == 0 {
		return nil, nil
	}

	featMat := tensor.New(
		tensor.WithShape(n, NumFeatures),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(features),
	)
	weightVec := tensor.New(
		tensor.WithShape(NumFeatures),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(weights),
	)

	result, err := tensor.MatVecMul(featMat, weightVec)
	if err != nil {
		return nil, fmt.Errorf("bot: score matvecmul: %w", err)
	}

	data, ok := result.Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected score tensor type %T", result.Data())
	}
	return data, nil
}
