package chess

const (
	f1g1Mask = uint64(1)<<SquareF1 | uint64(1)<<SquareG1
	b1d1Mask = uint64(1)<<SquareB1 | uint64(1)<<SquareC1 | uint64(1)<<SquareD1
	f8g8Mask = uint64(1)<<SquareF8 | uint64(1)<<SquareG8
	b8d8Mask = uint64(1)<<SquareB8 | uint64(1)<<SquareC8 | uint64(1)<<SquareD8
)

func addMove(ml []OrderedMove, count int, from, to, movingPiece, capturedPiece int, enPassant, castling bool) int {
	ml[count].Move = newMove(from, to, movingPiece, capturedPiece, Empty, enPassant, castling)
	count++
	return count
}

func addPromotions(ml []OrderedMove, count int, from, to, capturedPiece int) int {
	for _, promo := range [...]int{Queen, Rook, Bishop, Knight} {
		ml[count].Move = newMove(from, to, Pawn, capturedPiece, promo, false, false)
		count++
	}
	return count
}

// GenerateMoves fills ml with every pseudo-legal move (captures,
// promotions, quiets, castling) and returns the used prefix; spec §4.3
// calls this the pseudo-legal move supply a MovePicker filters and
// orders.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var count = 0
	var fromBB, toBB, ownPieces, oppPieces uint64
	var from, to int

	if p.WhiteMove {
		ownPieces = p.White
		oppPieces = p.Black
	} else {
		ownPieces = p.Black
		oppPieces = p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | Between(FirstOne(p.Checkers), kingSq)
	}

	var allPieces = p.AllPieces()
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			count = addMove(ml, count, from, p.EpSquare, Pawn, Pawn, true, false)
		}
	}

	if p.WhiteMove {
		for fromBB = p.Pawns & ownPieces & ^Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from+8] & allPieces) == 0 {
				count = addMove(ml, count, from, from+8, Pawn, Empty, false, false)
				if Rank(from) == Rank2 && (SquareMask[from+16]&allPieces) == 0 {
					count = addMove(ml, count, from, from+16, Pawn, Empty, false, false)
				}
			}
			if File(from) > FileA && (SquareMask[from+7]&oppPieces) != 0 {
				count = addMove(ml, count, from, from+7, Pawn, p.WhatPiece(from+7), false, false)
			}
			if File(from) < FileH && (SquareMask[from+9]&oppPieces) != 0 {
				count = addMove(ml, count, from, from+9, Pawn, p.WhatPiece(from+9), false, false)
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from+8] & allPieces) == 0 {
				count = addPromotions(ml, count, from, from+8, Empty)
			}
			if File(from) > FileA && (SquareMask[from+7]&oppPieces) != 0 {
				count = addPromotions(ml, count, from, from+7, p.WhatPiece(from+7))
			}
			if File(from) < FileH && (SquareMask[from+9]&oppPieces) != 0 {
				count = addPromotions(ml, count, from, from+9, p.WhatPiece(from+9))
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces & ^Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from-8] & allPieces) == 0 {
				count = addMove(ml, count, from, from-8, Pawn, Empty, false, false)
				if Rank(from) == Rank7 && (SquareMask[from-16]&allPieces) == 0 {
					count = addMove(ml, count, from, from-16, Pawn, Empty, false, false)
				}
			}
			if File(from) > FileA && (SquareMask[from-9]&oppPieces) != 0 {
				count = addMove(ml, count, from, from-9, Pawn, p.WhatPiece(from-9), false, false)
			}
			if File(from) < FileH && (SquareMask[from-7]&oppPieces) != 0 {
				count = addMove(ml, count, from, from-7, Pawn, p.WhatPiece(from-7), false, false)
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from-8] & allPieces) == 0 {
				count = addPromotions(ml, count, from, from-8, Empty)
			}
			if File(from) > FileA && (SquareMask[from-9]&oppPieces) != 0 {
				count = addPromotions(ml, count, from, from-9, p.WhatPiece(from-9))
			}
			if File(from) < FileH && (SquareMask[from-7]&oppPieces) != 0 {
				count = addPromotions(ml, count, from, from-7, p.WhatPiece(from-7))
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Knight, p.WhatPiece(to), false, false)
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Bishop, p.WhatPiece(to), false, false)
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Rook, p.WhatPiece(to), false, false)
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Queen, p.WhatPiece(to), false, false)
		}
	}

	{
		from = FirstOne(p.Kings & ownPieces)
		for toBB = KingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, King, p.WhatPiece(to), false, false)
		}

		if p.WhiteMove {
			if (p.CastleRights&WhiteKingSide) != 0 &&
				(allPieces&f1g1Mask) == 0 &&
				!p.isAttackedBySide(SquareE1, false) &&
				!p.isAttackedBySide(SquareF1, false) {
				count = addMove(ml, count, SquareE1, SquareG1, King, Empty, false, true)
			}
			if (p.CastleRights&WhiteQueenSide) != 0 &&
				(allPieces&b1d1Mask) == 0 &&
				!p.isAttackedBySide(SquareE1, false) &&
				!p.isAttackedBySide(SquareD1, false) {
				count = addMove(ml, count, SquareE1, SquareC1, King, Empty, false, true)
			}
		} else {
			if (p.CastleRights&BlackKingSide) != 0 &&
				(allPieces&f8g8Mask) == 0 &&
				!p.isAttackedBySide(SquareE8, true) &&
				!p.isAttackedBySide(SquareF8, true) {
				count = addMove(ml, count, SquareE8, SquareG8, King, Empty, false, true)
			}
			if (p.CastleRights&BlackQueenSide) != 0 &&
				(allPieces&b8d8Mask) == 0 &&
				!p.isAttackedBySide(SquareE8, true) &&
				!p.isAttackedBySide(SquareD8, true) {
				count = addMove(ml, count, SquareE8, SquareC8, King, Empty, false, true)
			}
		}
	}

	return ml[:count]
}

// GenerateCaptures fills ml with captures and queen promotions only
// (plus, when in check, every evasion) — the move supply qsearch
// consumes per spec §4.4.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	if p.Checkers != 0 {
		return p.GenerateMoves(ml)
	}

	var count = 0
	var fromBB, toBB, ownPieces, oppPieces uint64
	var from, to int

	if p.WhiteMove {
		ownPieces = p.White
		oppPieces = p.Black
	} else {
		ownPieces = p.Black
		oppPieces = p.White
	}

	var allPieces = p.AllPieces()
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			count = addMove(ml, count, from, p.EpSquare, Pawn, Pawn, true, false)
		}
	}

	if p.WhiteMove {
		for fromBB = ownPawns & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from+8] & allPieces) == 0 {
				ml[count].Move = newMove(from, from+8, Pawn, Empty, Queen, false, false)
				count++
			}
			if File(from) > FileA && (SquareMask[from+7]&oppPieces) != 0 {
				ml[count].Move = newMove(from, from+7, Pawn, p.WhatPiece(from+7), Queen, false, false)
				count++
			}
			if File(from) < FileH && (SquareMask[from+9]&oppPieces) != 0 {
				ml[count].Move = newMove(from, from+9, Pawn, p.WhatPiece(from+9), Queen, false, false)
				count++
			}
		}
		for fromBB = ownPawns & ^Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if File(from) > FileA && (SquareMask[from+7]&oppPieces) != 0 {
				count = addMove(ml, count, from, from+7, Pawn, p.WhatPiece(from+7), false, false)
			}
			if File(from) < FileH && (SquareMask[from+9]&oppPieces) != 0 {
				count = addMove(ml, count, from, from+9, Pawn, p.WhatPiece(from+9), false, false)
			}
		}
	} else {
		for fromBB = ownPawns & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if (SquareMask[from-8] & allPieces) == 0 {
				ml[count].Move = newMove(from, from-8, Pawn, Empty, Queen, false, false)
				count++
			}
			if File(from) > FileA && (SquareMask[from-9]&oppPieces) != 0 {
				ml[count].Move = newMove(from, from-9, Pawn, p.WhatPiece(from-9), Queen, false, false)
				count++
			}
			if File(from) < FileH && (SquareMask[from-7]&oppPieces) != 0 {
				ml[count].Move = newMove(from, from-7, Pawn, p.WhatPiece(from-7), Queen, false, false)
				count++
			}
		}
		for fromBB = ownPawns & ^Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if File(from) > FileA && (SquareMask[from-9]&oppPieces) != 0 {
				count = addMove(ml, count, from, from-9, Pawn, p.WhatPiece(from-9), false, false)
			}
			if File(from) < FileH && (SquareMask[from-7]&oppPieces) != 0 {
				count = addMove(ml, count, from, from-7, Pawn, p.WhatPiece(from-7), false, false)
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Knight, p.WhatPiece(to), false, false)
		}
	}
	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Bishop, p.WhatPiece(to), false, false)
		}
	}
	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Rook, p.WhatPiece(to), false, false)
		}
	}
	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, Queen, p.WhatPiece(to), false, false)
		}
	}
	{
		from = FirstOne(p.Kings & ownPieces)
		for toBB = KingAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			count = addMove(ml, count, from, to, King, p.WhatPiece(to), false, false)
		}
	}

	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result []Move
	for _, m := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(m.Move, &child) {
			result = append(result, m.Move)
		}
	}
	return result
}
