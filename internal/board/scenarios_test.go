package board

import "testing"

// TestEnPassantApplyUndoRestoresExactly exercises the en-passant round trip:
// after 1.e4 e6 2.e5 d5, White has an ep target on d6, e5d6 is legal, and
// applying then undoing it restores the exact prior position and hash.
func TestEnPassantApplyUndoRestoresExactly(t *testing.T) {
	pos := NewPosition()

	moves := []Move{
		NewMove(E2, E4),
		NewMove(E7, E6),
		NewMove(E4, E5),
		NewMove(D7, D5),
	}
	for _, m := range moves {
		pos.MakeMove(m)
		pos.UpdateCheckers()
	}

	if pos.EnPassant == NoSquare {
		t.Fatal("expected an en-passant target square on d6")
	}

	legal := pos.GenerateLegalMoves()
	var epMove Move
	found := false
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == E5 && m.To() == D6 && m.IsEnPassant() {
			epMove = m
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected e5d6 en-passant capture to be legal")
	}

	beforeHash := pos.Hash
	beforePieces := pos.Pieces
	beforeMailbox := pos.Mailbox

	undo := pos.MakeMove(epMove)
	pos.UnmakeMove(epMove, undo)

	if pos.Hash != beforeHash {
		t.Errorf("hash not restored: got %016x, want %016x", pos.Hash, beforeHash)
	}
	if pos.Pieces != beforePieces {
		t.Error("piece bitboards not restored after apply/undo")
	}
	if pos.Mailbox != beforeMailbox {
		t.Error("mailbox not restored after apply/undo")
	}
}

// TestCastlingBlockedByCheck verifies that the move generator emits no
// castling move while the king itself is in check.
func TestCastlingBlockedByCheck(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/4r3/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	legal := pos.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.IsCastling() && (m.To() == G1 || m.To() == C1) {
			t.Errorf("castling move %s should not be legal while e1 is attacked", m.String())
		}
	}
}

// TestPromotionFanOut verifies a promoting pawn generates all four
// promotion choices.
func TestPromotionFanOut(t *testing.T) {
	pos, err := ParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	legal := pos.GenerateLegalMoves()

	promotions := map[PieceType]bool{}
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == A7 && m.To() == A8 && m.IsPromotion() {
			promotions[m.Promotion()] = true
		}
	}

	want := []PieceType{Queen, Rook, Bishop, Knight}
	if len(promotions) != len(want) {
		t.Fatalf("expected %d promotion moves from a7a8, got %d", len(want), len(promotions))
	}
	for _, pt := range want {
		if !promotions[pt] {
			t.Errorf("missing promotion to %s", pt)
		}
	}
}
