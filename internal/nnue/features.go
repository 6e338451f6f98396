package nnue

import "github.com/corvidchess/corvid/internal/board"

// ActiveFeatures returns every active input feature index for pos: one per
// piece on the board, including kings (plain one-hot encoding has no
// king-relative features, so kings participate like any other piece).
func ActiveFeatures(pos *board.Position) []int {
	features := make([]int, 0, 32)

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				features = append(features, FeatureIndex(pt, color, sq))
			}
		}
	}

	return features
}

// ChangedFeatures returns the feature indices to remove and add for a move
// that has already been made on pos. captured is the piece that was on the
// destination square before the move (NoPiece if none); for en passant, whose
// destination is empty, the captured pawn is taken from the move itself.
func ChangedFeatures(pos *board.Position, m board.Move, captured board.Piece) (add, rem []int) {
	from := m.From()
	to := m.To()

	movedPiece := pos.PieceAt(to)
	if movedPiece == board.NoPiece {
		return nil, nil
	}

	movingColor := movedPiece.Color()

	// The piece that sat on "from" before the move: its pre-move type, which
	// differs from movedPiece.Type() on a promotion.
	fromType := movedPiece.Type()
	if m.IsPromotion() {
		fromType = board.Pawn
	}

	rem = append(rem, FeatureIndex(fromType, movingColor, from))
	add = append(add, FeatureIndex(movedPiece.Type(), movingColor, to))

	if m.IsEnPassant() {
		captured = board.NewPiece(board.Pawn, movingColor.Other())
	}
	if captured != board.NoPiece {
		capturedSq := to
		if m.IsEnPassant() {
			if movingColor == board.White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
		}
		rem = append(rem, FeatureIndex(captured.Type(), captured.Color(), capturedSq))
	}

	if m.IsCastling() {
		// The rook's square also changes; derive its from/to from king
		// destination, matching the board package's castling convention.
		var rookFrom, rookTo board.Square
		switch to {
		case board.G1:
			rookFrom, rookTo = board.H1, board.F1
		case board.C1:
			rookFrom, rookTo = board.A1, board.D1
		case board.G8:
			rookFrom, rookTo = board.H8, board.F8
		case board.C8:
			rookFrom, rookTo = board.A8, board.D8
		}
		rem = append(rem, FeatureIndex(board.Rook, movingColor, rookFrom))
		add = append(add, FeatureIndex(board.Rook, movingColor, rookTo))
	}

	return add, rem
}
