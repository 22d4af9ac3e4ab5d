package layout

import "fmt"

// TableSurface draws the header and rows of a paginated table
type TableSurface interface {
	Surface
	DrawHeader(y float64) error
	DrawRow(index int, y float64) error
}

// Table describes the heights of a table's header and rows
type Table struct {
	HeaderHeight float64
	RowHeights   []float64
}

// Paginate draws the table starting at the cursor. When the next row does
// not fit in the space left on the page, it breaks the page and redraws the
// header before continuing. It returns the number of pages the table spans.
func Paginate(c *Cursor, t Table, s TableSurface) (int, error) {
	for i, h := range t.RowHeights {
		if t.HeaderHeight+h > c.Capacity() {
			return 0, fmt.Errorf("row %d of height %.1f: %w", i, h, ErrTooTall)
		}
	}

	// Never leave a header orphaned at the bottom of a page
	first := 0.0
	if len(t.RowHeights) > 0 {
		first = t.RowHeights[0]
	}
	if !c.Fits(t.HeaderHeight + first) {
		if err := Break(c, s); err != nil {
			return 0, err
		}
	}

	startPage := c.Page()
	if err := s.DrawHeader(c.Y()); err != nil {
		return 0, err
	}
	c.Advance(t.HeaderHeight)

	for i, h := range t.RowHeights {
		if !c.Fits(h) {
			if err := Break(c, s); err != nil {
				return 0, err
			}
			if err := s.DrawHeader(c.Y()); err != nil {
				return 0, err
			}
			c.Advance(t.HeaderHeight)
		}
		if err := s.DrawRow(i, c.Y()); err != nil {
			return 0, err
		}
		c.Advance(h)
	}

	return c.Page() - startPage + 1, nil
}
