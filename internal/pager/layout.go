package pager

// Cell geometry is pure integer math so it can be tested without a display.

const (
	padding     = 4
	borderWidth = 2
	minCellSize = 16
)

// cellDims returns the size of one desktop cell for a pager window of the
// given inner dimensions. Cells grow to fill the window but never shrink
// below minCellSize.
func cellDims(count, winW, winH int) (cellW, cellH int) {
	if count < 1 {
		count = 1
	}
	cellW = (winW-padding)/count - padding
	if cellW < minCellSize {
		cellW = minCellSize
	}
	cellH = winH - 2*padding
	if cellH < minCellSize {
		cellH = minCellSize
	}
	return cellW, cellH
}

// cellsOriginX returns the x offset that centers the row of cells.
func cellsOriginX(count, winW, cellW int) int {
	total := count*(cellW+padding) - padding
	x := (winW - total) / 2
	if x < 0 {
		x = 0
	}
	return x
}

// cellRect returns the rectangle of the cell for desktop d (1-indexed).
func cellRect(d, count, winW, winH int) (x, y, w, h int) {
	cellW, cellH := cellDims(count, winW, winH)
	startX := cellsOriginX(count, winW, cellW)
	return startX + (d-1)*(cellW+padding), padding, cellW, cellH
}

// cellAt maps a click position to a desktop number (1-indexed). The second
// return is false for clicks on padding or outside the cell row.
func cellAt(x, y, count, winW, winH int) (int, bool) {
	cellW, cellH := cellDims(count, winW, winH)
	startX := cellsOriginX(count, winW, cellW)

	if y < padding || y >= padding+cellH {
		return 0, false
	}
	for d := 1; d <= count; d++ {
		cx := startX + (d-1)*(cellW+padding)
		if x >= cx && x < cx+cellW {
			return d, true
		}
	}
	return 0, false
}

// initialSize returns the pager window dimensions for a desktop count and
// configured cell size.
func initialSize(count, cellSize int) (w, h int) {
	if count < 1 {
		count = 1
	}
	return count*(cellSize+padding) + padding, cellSize + 2*padding
}
