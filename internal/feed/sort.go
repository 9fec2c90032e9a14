package feed

// SortMode selects the ordering of a feed or comment listing.
type SortMode string

const (
	// SortMostDisliked is the default: highest negativity score first.
	SortMostDisliked  SortMode = "most-disliked"
	SortLeastDisliked SortMode = "least-disliked"
	SortNewest        SortMode = "newest"
	SortOldest        SortMode = "oldest"
)

// ParseSortMode maps a query value to a SortMode. Unknown or empty values
// fall back to most-disliked rather than erroring, so stale links keep
// working when sort options change.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortMostDisliked, SortLeastDisliked, SortNewest, SortOldest:
		return SortMode(s)
	}
	return SortMostDisliked
}

// orderClause returns the SQL ORDER BY expression for the mode. The
// negativity_score column is computed in the SELECT of every listing query,
// so both reaction-driven modes can reference it directly. Ties always break
// on recency, newest first, so fresh garbage is not buried under old garbage.
func (m SortMode) orderClause() string {
	switch m {
	case SortLeastDisliked:
		return "negativity_score ASC, created_at DESC"
	case SortNewest:
		return "created_at DESC"
	case SortOldest:
		return "created_at ASC"
	default:
		return "negativity_score DESC, created_at DESC"
	}
}
