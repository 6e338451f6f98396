package nnue

import (
	"testing"

	"github.com/corvidchess/corvid/internal/board"
)

func TestAccumulatorIncrementalMatchesFullRecompute(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos := board.NewPosition()

	full := &Accumulator{}
	full.ComputeFull(pos, net)

	incremental := &Accumulator{}
	incremental.ComputeFull(pos, net)

	move := board.NewMove(board.E2, board.E4)
	captured := pos.PieceAt(move.To())
	undo := pos.MakeMove(move)
	defer pos.UnmakeMove(move, undo)

	incremental.UpdateIncremental(pos, move, captured, net)

	var recomputed Accumulator
	recomputed.ComputeFull(pos, net)

	for i := 0; i < L1Size; i++ {
		if incremental.Hidden[i] != recomputed.Hidden[i] {
			t.Fatalf("accumulator mismatch at %d: incremental=%d recomputed=%d",
				i, incremental.Hidden[i], recomputed.Hidden[i])
		}
	}
}

func TestEvaluatorPushPop(t *testing.T) {
	eval, err := NewEvaluator("")
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	pos := board.NewPosition()
	before := eval.Evaluate(pos)

	eval.Push()
	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	eval.Update(pos, move, board.NoPiece)
	eval.Evaluate(pos)

	pos.UnmakeMove(move, undo)
	eval.Pop()

	after := eval.Evaluate(pos)
	if before != after {
		t.Errorf("expected evaluation to be restored after pop: before=%d after=%d", before, after)
	}
}
