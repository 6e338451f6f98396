package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back-rank mate: White Ra8+Ka1 vs. Black Kh8 with g7/h7 sealing the
	// escape squares. Black to move, already mated.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("parsing FEN: %v", err)
	}

	pos.UpdateCheckers()

	if !pos.InCheck() {
		t.Fatal("expected side to move to be in check")
	}

	legal := pos.GenerateLegalMoves()
	if legal.Len() != 0 {
		t.Errorf("expected no legal moves, got %d: %v", legal.Len(), legal.Slice())
	}

	if pos.HasLegalMoves() {
		t.Error("HasLegalMoves reported true in a mated position")
	}

	if !pos.IsCheckmate() {
		t.Error("IsCheckmate reported false in a mated position")
	}
	if pos.IsStalemate() {
		t.Error("IsStalemate reported true in a position with checkers")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Black king on h8 is checked by a rook on g8 it can simply capture,
	// so this is check but not mate.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("parsing FEN: %v", err)
	}

	pos.UpdateCheckers()

	if !pos.InCheck() {
		t.Fatal("expected side to move to be in check")
	}

	legal := pos.GenerateLegalMoves()
	if legal.Len() == 0 {
		t.Fatal("expected at least the capture of the checking rook to be legal")
	}

	if pos.IsCheckmate() {
		t.Error("IsCheckmate reported true when the king can capture the checker")
	}
}
