package search

import "github.com/vchizhov/splitpool/common"

// Move ordering scores, grounded in the teacher's moveorderservice.go
// NoteMoves: hash move first, then captures by MVV-LVA, then killers,
// then quiet moves ranked by history ratio. The exact constants don't
// matter beyond keeping the four buckets ordered; they are not tuned.
const (
	scoreHashMove = 30000
	scoreCapture  = 20000
	scoreKiller   = 10000
)

var mvvlvaValue = [...]int{0, 100, 300, 300, 500, 900, 10000}

func mvvlva(move common.Move) int {
	return mvvlvaValue[move.CapturedPiece()]*8 - mvvlvaValue[move.MovingPiece()]
}

// scoreMove assigns an ordering key to a move at one search node.
// Lower keys sort first when the MovePicker pulls moves in ascending
// score order (see movepicker.go).
func scoreMove(move, hashMove common.Move, killers [2]common.Move, hist *historyTable, whiteMove bool) int {
	switch {
	case move == hashMove:
		return -scoreHashMove
	case move.CapturedPiece() != common.Empty:
		return -(scoreCapture + mvvlva(move))
	case move == killers[0] || move == killers[1]:
		return -scoreKiller
	default:
		return -hist.Ratio(whiteMove, move)
	}
}
