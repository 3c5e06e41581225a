package gauge

// ComputeHeights returns the pixel height of each layer, index-aligned with
// quantities.
//
// capacity is the amount that fills the whole budget. It is raised to at
// least the sum of quantities and at least 1, so an overfull tank is
// normalised to its total rather than over-allocated and shrunk. Every
// layer receives max(minHeight, ceil(quantity*budget/capacity)) pixels.
// When the total is below capacity the usable budget shrinks by minHeight,
// leaving an empty band at the top. Then the tallest layer (lowest index on ties) is reduced
// one pixel at a time until the heights fit. If every layer is already zero
// the loop stops and the result may still exceed the budget.
//
// Inputs are expected to be non-negative.
func ComputeHeights(quantities []int, capacity, budget, minHeight int) []int {
	heights := make([]int, len(quantities))
	if len(quantities) == 0 {
		return heights
	}

	total := 0
	for _, q := range quantities {
		total += q
	}
	capacity = max(capacity, total, 1)

	for i, q := range quantities {
		heights[i] = max(minHeight, ceilDiv(q*budget, capacity))
	}

	if total < capacity {
		budget -= minHeight
	}

	for {
		sum, tallest := 0, 0
		for i, h := range heights {
			sum += h
			if h > heights[tallest] {
				tallest = i
			}
		}
		if sum <= budget || heights[tallest] == 0 {
			break
		}
		heights[tallest]--
	}
	return heights
}

// FindLayerAt returns the index of the layer covering offset, where heights
// are ordered bottom to top and offset counts pixels up from the bottom of
// the stack. It reports false when offset is negative or at or above the
// top of the stack.
func FindLayerAt(heights []int, offset int) (int, bool) {
	if offset < 0 {
		return -1, false
	}
	for i, h := range heights {
		if offset < h {
			return i, true
		}
		offset -= h
	}
	return -1, false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func sum(heights []int) int {
	total := 0
	for _, h := range heights {
		total += h
	}
	return total
}
