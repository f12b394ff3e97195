package orderbook

import "sort"

// normalizeDeltas validates every delta in a batch and resolves duplicate
// prices by last-wins (the later occurrence in batch order survives). The
// result is sorted under cmp so it can be merged against an existing side
// in one linear pass.
func normalizeDeltas(deltas []PriceLevel, cmp Comparator) ([]PriceLevel, error) {
	dedup := make(map[string]PriceLevel, len(deltas))
	order := make([]string, 0, len(deltas))
	for _, d := range deltas {
		if !isValidLevel(d.Price, d.Quantity) {
			return nil, newMalformedInputError(d.Price, d.Quantity)
		}
		key := d.Price.String()
		if _, exists := dedup[key]; !exists {
			order = append(order, key)
		}
		dedup[key] = d
	}

	normalized := make([]PriceLevel, len(order))
	for i, key := range order {
		normalized[i] = dedup[key]
	}
	sort.Slice(normalized, func(i, j int) bool {
		return cmp(normalized[i].Price, normalized[j].Price) < 0
	})
	return normalized, nil
}

// MergeSide applies a batch of deltas to one side of the book. Every delta
// with quantity > 0 becomes or replaces the level at its price; quantity ==
// 0 deletes the level if present and is a no-op otherwise. The whole batch
// is rejected if any delta carries a non-positive price or a negative
// quantity. The output is truncated to maxDepth when maxDepth > 0.
func MergeSide(existing Side, deltas []PriceLevel, cmp Comparator, maxDepth int) (Side, error) {
	normalized, err := normalizeDeltas(deltas, cmp)
	if err != nil {
		return nil, err
	}

	out := make(Side, 0, len(existing)+len(normalized))
	i, j := 0, 0
	for i < len(existing) && j < len(normalized) {
		switch c := cmp(existing[i].Price, normalized[j].Price); {
		case c < 0:
			out = append(out, existing[i])
			i++
		case c > 0:
			if normalized[j].Quantity.Sign() > 0 {
				out = append(out, normalized[j])
			}
			j++
		default:
			if normalized[j].Quantity.Sign() > 0 {
				out = append(out, normalized[j])
			}
			i++
			j++
		}
	}
	for ; i < len(existing); i++ {
		out = append(out, existing[i])
	}
	for ; j < len(normalized); j++ {
		if normalized[j].Quantity.Sign() > 0 {
			out = append(out, normalized[j])
		}
	}

	if maxDepth > 0 && len(out) > maxDepth {
		out = out[:maxDepth]
	}
	return out, nil
}
