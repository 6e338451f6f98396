// Package board implements a bitboard-based chess position: piece placement,
// move generation, and the Zobrist hash used by search.
package board

import "fmt"

// Square identifies one of the 64 board squares using Little-Endian
// Rank-File Mapping: A1 is 0, H1 is 7, A8 is 56, H8 is 63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	// NoSquare is the sentinel for "no square" — an empty destination, an
	// absent en-passant target, and so on.
	NoSquare Square = 64
)

// File reports the square's column, 0 for the a-file through 7 for the h-file.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank reports the square's row, 0 for rank 1 through 7 for rank 8.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String renders the square in algebraic notation, e.g. "e4".
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare builds a square from a 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation, e.g. "e4", into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid reports whether sq names one of the 64 real board squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror flips the square vertically, turning a White-relative square into
// the equivalent Black-relative one (and back).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// RelativeRank reports the rank as seen by color c: for White rank 0 is the
// 1st rank, for Black rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
