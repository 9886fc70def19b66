package physics

// Highlight flags the given bodies. With exclusive set every other body is
// cleared first, so Highlight(nil, true) clears the selection.
func (w *World) Highlight(bodies []*Body, exclusive bool) {
	if exclusive {
		for _, b := range w.Bodies {
			b.Highlighted = false
		}
	}
	for _, b := range bodies {
		b.Highlighted = true
	}
}

// Highlighted returns the flagged bodies in world order.
func (w *World) Highlighted() []*Body {
	var out []*Body
	for _, b := range w.Bodies {
		if b.Highlighted {
			out = append(out, b)
		}
	}
	return out
}

// BodiesInArea returns the bodies whose centre lies in the rectangle with
// corner (x, y) and size (width, height). Negative sizes move the corner so
// that a rectangle dragged in any direction selects the same bodies.
func (w *World) BodiesInArea(x, y, width, height float64) []*Body {
	if width < 0 {
		x, width = x+width, -width
	}
	if height < 0 {
		y, height = y+height, -height
	}
	var out []*Body
	for _, b := range w.Bodies {
		px, py := b.Pos[0], b.Pos[1]
		if px >= x && px <= x+width && py >= y && py <= y+height {
			out = append(out, b)
		}
	}
	return out
}
