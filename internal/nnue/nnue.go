// Package nnue implements a small NNUE-style (Efficiently Updatable Neural
// Network) leaf evaluator: a plain one-hot piece-on-square encoding feeding
// a single hidden layer, maintained incrementally via an accumulator that
// tracks apply/undo through push/pop.
package nnue

import "github.com/corvidchess/corvid/internal/board"

// Network architecture constants.
const (
	NumPieceTypes = 6  // Pawn, Knight, Bishop, Rook, Queen, King
	NumColors     = 2  // White, Black
	NumSquares    = 64

	// InputSize is the plain one-hot feature count: one feature per
	// (piece type, color, square) combination. Unlike HalfKP, features are
	// not relative to either king, so a king move is an ordinary feature
	// toggle rather than a full accumulator refresh.
	InputSize = NumPieceTypes * NumColors * NumSquares // 768

	// L1Size is the single hidden layer's width.
	L1Size = 1024

	// Quantization constants.
	L1QuantShift = 6
	OutputScale  = 600
)

// FeatureIndex returns the input feature index for a piece of the given
// type and color sitting on sq.
func FeatureIndex(pt board.PieceType, c board.Color, sq board.Square) int {
	return (int(c)*NumPieceTypes+int(pt))*NumSquares + int(sq)
}

// ClampedReLU clamps a quantized hidden-layer activation to [0, 127].
func ClampedReLU(x int16) int8 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return int8(x)
}

// Evaluator wraps a Network and its incrementally-maintained accumulator
// stack, presenting the same evaluate(position) -> centipawns contract as
// the classical evaluator.
type Evaluator struct {
	net   *Network
	stack *AccumulatorStack
}

// NewEvaluator creates an NNUE evaluator. If weightsFile is empty, the
// network is seeded with small deterministic pseudo-random weights (for
// testing and for running without a trained network file).
func NewEvaluator(weightsFile string) (*Evaluator, error) {
	net := NewNetwork()

	if weightsFile != "" {
		if err := net.LoadWeights(weightsFile); err != nil {
			return nil, err
		}
	} else {
		net.InitRandom(12345)
	}

	return &Evaluator{
		net:   net,
		stack: NewAccumulatorStack(),
	}, nil
}

// Evaluate returns the network's evaluation of the position, White-positive,
// matching the classical evaluator's sign convention.
func (e *Evaluator) Evaluate(pos *board.Position) int {
	acc := e.stack.Current()
	if !acc.Computed {
		acc.ComputeFull(pos, e.net)
	}
	return e.net.Forward(acc)
}

// Push saves accumulator state. Call before MakeMove.
func (e *Evaluator) Push() {
	e.stack.Push()
}

// Pop restores accumulator state. Call after UnmakeMove.
func (e *Evaluator) Pop() {
	e.stack.Pop()
}

// Refresh forces a full recomputation of the current accumulator.
func (e *Evaluator) Refresh(pos *board.Position) {
	e.stack.Current().ComputeFull(pos, e.net)
}

// Update incrementally updates the accumulator for a move that has already
// been made on pos.
func (e *Evaluator) Update(pos *board.Position, m board.Move, captured board.Piece) {
	e.stack.Current().UpdateIncremental(pos, m, captured, e.net)
}

// Reset clears the accumulator stack for a new game.
func (e *Evaluator) Reset() {
	e.stack.Reset()
}
