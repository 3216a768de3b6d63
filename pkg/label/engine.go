package label

// charWidthPx and lineHeightPx are the fixed-width text metrics this
// engine uses in place of real font measurement: the placement and
// dependency logic (the two hard subsystems here) are independent of
// exactly how wide a glyph is, and a real paint/canvas library is out
// of scope (spec §1 Non-goals).
const (
	charWidthPx  = 7.0
	lineHeightPx = 11.0
	labelGapPx   = 2.0
)

// EstimateTextBoundary computes a placeholder pixel boundary for text
// anchored at (x, y), standing in for step 1 of spec §4.E ("compute
// each text's pixel boundary from paint metrics").
func EstimateTextBoundary(text string, x, y float64) Rectangle {
	width := float64(len(text)) * charWidthPx
	return Rectangle{X: x - width/2, Y: y - lineHeightPx/2, Width: width, Height: lineHeightPx}
}

// CandidateMode selects how many directional candidates are generated
// per symbol-anchored label (spec §4.E: "two-point or four-point").
type CandidateMode int

const (
	// TwoPoint tries only above and below the symbol.
	TwoPoint CandidateMode = iota
	// FourPoint additionally tries left and right.
	FourPoint
)

// generateCandidates returns the directional candidate rectangles for
// a label of (width, height) anchored to symbol, in the fixed
// above/below/left/right order spec §4.E prescribes.
func generateCandidates(symbol Rectangle, width, height float64, mode CandidateMode) []Rectangle {
	cx := symbol.X + symbol.Width/2
	above := Rectangle{X: cx - width/2, Y: symbol.Y - labelGapPx - height, Width: width, Height: height}
	below := Rectangle{X: cx - width/2, Y: symbol.Bottom() + labelGapPx, Width: width, Height: height}
	if mode == TwoPoint {
		return []Rectangle{above, below}
	}
	cy := symbol.Y + symbol.Height/2
	left := Rectangle{X: symbol.X - labelGapPx - width, Y: cy - height/2, Width: width, Height: height}
	right := Rectangle{X: symbol.Right() + labelGapPx, Y: cy - height/2, Width: width, Height: height}
	return []Rectangle{above, below, left, right}
}

// PlacementResult is the output of a single tile's local placement
// pass, before the dependency cache has been consulted.
type PlacementResult struct {
	Labels  []PointTextContainer
	Symbols []SymbolContainer
}

// Place runs the greedy local-placement pass of spec §4.E: symbols are
// always kept (they don't compete for space with each other here —
// overlap with symbols and labels neighbours registered is resolved by
// the dependency cache, step 4; overlap among this tile's own symbols
// is not resolved),
// then for each POI label a 2- or 4-point candidate is chosen, the
// first one that doesn't cross an already-accepted rectangle (the POI's
// own symbol, any earlier-accepted label this pass, or any area
// label). Candidates are tried, and labels accepted, in input order
// (spec §4.E step 3: "iteration order by input order; first accepted
// wins").
func Place(pois []PointTextContainer, symbols []SymbolContainer, areaLabels []PointTextContainer, mode CandidateMode) PlacementResult {
	accepted := make([]Rectangle, 0, len(areaLabels)+len(symbols))
	for _, a := range areaLabels {
		accepted = append(accepted, a.Boundary)
	}
	for _, s := range symbols {
		accepted = append(accepted, s.Boundary())
	}

	var placed []PointTextContainer
	for _, poi := range pois {
		var candidates []Rectangle
		if poi.Symbol != nil {
			candidates = generateCandidates(poi.Symbol.Boundary(), poi.Boundary.Width, poi.Boundary.Height, mode)
		} else {
			candidates = []Rectangle{poi.Boundary}
		}

		for _, c := range candidates {
			if overlapsAny(c, accepted) {
				continue
			}
			poi.Boundary = c
			poi.X = c.X + c.Width/2
			poi.Y = c.Y + c.Height/2
			placed = append(placed, poi)
			accepted = append(accepted, c)
			break
		}
		// No candidate fit: the label is silently dropped (spec §7,
		// "the placement engine never fails").
	}

	return PlacementResult{Labels: placed, Symbols: symbols}
}

func overlapsAny(r Rectangle, others []Rectangle) bool {
	for _, o := range others {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}
