package nnue

import "github.com/corvidchess/corvid/internal/board"

// Accumulator holds the accumulated hidden-layer pre-activations for a
// position. Unlike a HalfKP accumulator, there is only one of these per
// position, since features are not king-relative and so don't need a
// separate view per side.
type Accumulator struct {
	Hidden [L1Size]int16

	Computed bool
}

// AccumulatorStack mirrors the search's ply stack, giving each ply its own
// accumulator snapshot so MakeMove/UnmakeMove can push/pop in lockstep.
type AccumulatorStack struct {
	stack [128]Accumulator
	top   int
}

// NewAccumulatorStack creates a new accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push duplicates the current accumulator onto the next stack slot. Call
// before making a move.
func (s *AccumulatorStack) Push() {
	if s.top < 127 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop discards the top accumulator, restoring the previous one. Call after
// unmaking a move.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the accumulator for the current ply.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset returns the stack to its initial state for a new game.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// ComputeFull recomputes the accumulator from scratch for pos.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	copy(acc.Hidden[:], net.L1Bias[:])

	for _, idx := range ActiveFeatures(pos) {
		for i := 0; i < L1Size; i++ {
			acc.Hidden[i] += net.L1Weights[idx][i]
		}
	}

	acc.Computed = true
}

// UpdateIncremental updates the accumulator for a move that has already
// been made on pos, touching only the weight rows for the pieces that
// actually moved instead of recomputing from scratch.
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	add, rem := ChangedFeatures(pos, m, captured)
	if add == nil && rem == nil {
		acc.ComputeFull(pos, net)
		return
	}

	for _, idx := range rem {
		for i := 0; i < L1Size; i++ {
			acc.Hidden[i] -= net.L1Weights[idx][i]
		}
	}
	for _, idx := range add {
		for i := 0; i < L1Size; i++ {
			acc.Hidden[i] += net.L1Weights[idx][i]
		}
	}
}
