package search

import "github.com/vchizhov/splitpool/common"

// pieceValue is centipawn material value, indexed by common's piece
// type constants. Deliberately not tuned: this engine exists to drive
// pool.Split with real positions, not to play strong chess.
var pieceValue = [...]int{0, 100, 320, 330, 500, 900, 0}

// Evaluate returns a centipawn score from the side to move's
// perspective: material balance only. The teacher's full evaluation
// (pawn structure, king safety, mobility) is out of scope here; a
// one-line evaluator is enough to exercise alpha-beta and Split the
// way a real one would, just with worse move choices.
func Evaluate(p *common.Position) int {
	score := 0
	for pt := common.Pawn; pt <= common.Queen; pt++ {
		score += pieceValue[pt] * common.PopCount(pieceBitboard(p, pt)&p.White)
		score -= pieceValue[pt] * common.PopCount(pieceBitboard(p, pt)&p.Black)
	}
	if !p.WhiteMove {
		score = -score
	}
	return score
}

func pieceBitboard(p *common.Position, pt int) uint64 {
	switch pt {
	case common.Pawn:
		return p.Pawns
	case common.Knight:
		return p.Knights
	case common.Bishop:
		return p.Bishops
	case common.Rook:
		return p.Rooks
	case common.Queen:
		return p.Queens
	default:
		return p.Kings
	}
}
