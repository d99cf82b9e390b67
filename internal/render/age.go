package render

import (
	"fmt"
	"time"
)

// RelativeAge formats the age of a unix timestamp in whole minutes,
// e.g. "just now", "5 mins", "1 hr", "3 days". Timestamps in the future
// read as "just now".
func RelativeAge(unix int64, now time.Time) string {
	minutes := (now.Unix() - unix) / 60

	switch {
	case minutes < 1:
		return "just now"
	case minutes == 1:
		return "1 min"
	case minutes < 60:
		return fmt.Sprintf("%d mins", minutes)
	case minutes < 120:
		return "1 hr"
	case minutes < 24*60:
		return fmt.Sprintf("%d hrs", minutes/60)
	case minutes < 48*60:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", minutes/(24*60))
	}
}
