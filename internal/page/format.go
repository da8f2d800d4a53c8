package page

import (
	"fmt"
	"strings"
	"time"
)

const longDateLayout = "January 2, 2006"

// FormatDate renders t as a long-form en-US calendar date in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(longDateLayout)
}

// SeasonLabel returns "Season N" for seasons after the first and "" otherwise.
func SeasonLabel(season int) string {
	if season <= 1 {
		return ""
	}
	return fmt.Sprintf("Season %d", season)
}

// VideoTypeLabel turns a category such as "behind_the_scenes" into a badge
// label. Only the first underscore is replaced.
func VideoTypeLabel(videoType string) string {
	return strings.ToUpper(strings.Replace(videoType, "_", " ", 1))
}

// EpisodeFeedbackID is the feedback widget key for an episode.
func EpisodeFeedbackID(episodeNumber int) string {
	return fmt.Sprintf("ep-%d", episodeNumber)
}
