// Package layout holds the pagination rules of the invoice document. It knows
// nothing about the drawing backend: a Surface adds pages and draws at the
// positions the cursor hands out.
package layout

import (
	"errors"
	"fmt"
)

// ErrTooTall is returned for content that cannot fit on an empty page
var ErrTooTall = errors.New("content taller than a page")

// Cursor tracks the vertical write position between the top and bottom margins
type Cursor struct {
	top    float64
	bottom float64
	y      float64
	page   int
}

// NewCursor creates a cursor positioned at the top of page 1
func NewCursor(pageHeight, marginTop, marginBottom float64) *Cursor {
	return &Cursor{
		top:    marginTop,
		bottom: pageHeight - marginBottom,
		y:      marginTop,
		page:   1,
	}
}

// Y returns the current vertical position
func (c *Cursor) Y() float64 { return c.y }

// Page returns the 1-based page the cursor is on
func (c *Cursor) Page() int { return c.page }

// Capacity is the usable height of one page
func (c *Cursor) Capacity() float64 { return c.bottom - c.top }

// Remaining is the usable height left on the current page
func (c *Cursor) Remaining() float64 { return c.bottom - c.y }

// Fits reports whether h more units fit on the current page
func (c *Cursor) Fits(h float64) bool { return h <= c.Remaining()+1e-9 }

// Advance moves the cursor down by h
func (c *Cursor) Advance(h float64) { c.y += h }

// NewPage moves the cursor to the top of the next page
func (c *Cursor) NewPage() {
	c.page++
	c.y = c.top
}

// Surface is the page-producing side of a rendering backend
type Surface interface {
	AddPage() error
}

// Break emits a page break on the surface and moves the cursor with it
func Break(c *Cursor, s Surface) error {
	if err := s.AddPage(); err != nil {
		return fmt.Errorf("page break: %w", err)
	}
	c.NewPage()
	return nil
}

// Block reserves h units for a block that must not be split, breaking the
// page first when needed. It returns the y position to draw the block at.
func Block(c *Cursor, h float64, s Surface) (float64, error) {
	if h > c.Capacity() {
		return 0, fmt.Errorf("block of height %.1f: %w", h, ErrTooTall)
	}
	if !c.Fits(h) {
		if err := Break(c, s); err != nil {
			return 0, err
		}
	}
	y := c.Y()
	c.Advance(h)
	return y, nil
}

// LineSurface draws one line of a block that may be split between pages
type LineSurface interface {
	Surface
	DrawLine(index int, y float64) error
}

// Flow draws a block line by line. A block that fits on one page is kept
// together like Block; a longer one starts where the cursor is and continues
// on the following pages. It returns the number of pages the block spans.
func Flow(c *Cursor, heights []float64, s LineSurface) (int, error) {
	total := 0.0
	for i, h := range heights {
		if h > c.Capacity() {
			return 0, fmt.Errorf("line %d of height %.1f: %w", i, h, ErrTooTall)
		}
		total += h
	}
	if total <= c.Capacity() && !c.Fits(total) {
		if err := Break(c, s); err != nil {
			return 0, err
		}
	}

	startPage := c.Page()
	for i, h := range heights {
		if !c.Fits(h) {
			if err := Break(c, s); err != nil {
				return 0, err
			}
		}
		if err := s.DrawLine(i, c.Y()); err != nil {
			return 0, err
		}
		c.Advance(h)
	}
	return c.Page() - startPage + 1, nil
}
