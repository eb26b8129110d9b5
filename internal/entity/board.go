package entity

// BoardSize is the side length of the omok grid.
const BoardSize = 15

// WinLength is the minimum run of same-colored stones that wins.
const WinLength = 5

type Stone uint8

const (
	None  Stone = 0
	Black Stone = 1
	White Stone = 2
)

// Other returns the opposing color. None maps to None.
func (that Stone) Other() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return None
	}
}

// Board is the 15x15 grid, indexed [y][x].
type Board [BoardSize][BoardSize]Stone

func NewBoard() Board {
	return Board{}
}

// winAxes are the four scan directions: horizontal, vertical and both diagonals.
var winAxes = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// CheckWin reports whether the stone at (x, y) completes a run of at least
// five same-colored stones along one of the four axes. The scan counts
// outward from (x, y) in both directions of each axis and stops at the first
// mismatching or out-of-bounds cell. An empty cell never wins.
func (that *Board) CheckWin(x, y int) bool {
	if !InBounds(x, y) {
		return false
	}

	mark := that[y][x]
	if mark == None {
		return false
	}

	for _, axis := range winAxes {
		count := 1

		fx, fy := x+axis[0], y+axis[1]
		for InBounds(fx, fy) && that[fy][fx] == mark {
			count++
			fx += axis[0]
			fy += axis[1]
		}

		bx, by := x-axis[0], y-axis[1]
		for InBounds(bx, by) && that[by][bx] == mark {
			count++
			bx -= axis[0]
			by -= axis[1]
		}

		if count >= WinLength {
			return true
		}
	}

	return false
}
