package enums

// SortMode is a reddit listing sort order.
type SortMode string

const (
	SortModeHot           SortMode = "hot"
	SortModeNew           SortMode = "new"
	SortModeTop           SortMode = "top"
	SortModeRising        SortMode = "rising"
	SortModeBest          SortMode = "best"
	SortModeControversial SortMode = "controversial"
)

func (m SortMode) IsValid() bool {
	switch m {
	case SortModeHot, SortModeNew, SortModeTop,
		SortModeRising, SortModeBest, SortModeControversial:
		return true
	}
	return false
}
