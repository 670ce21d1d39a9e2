package organizer

import "strings"

// ExtractSeriesName returns the canonical name of the first known series
// found in title, or "Other".
func ExtractSeriesName(title string) string {
	for _, r := range SeriesRules {
		if r.Pattern.MatchString(title) {
			return r.Name
		}
	}
	return OtherSeries
}

// ExtractEpisodeNumber returns nil when no rule yields an integer.
func ExtractEpisodeNumber(title string) *int {
	return firstNumber(EpisodeRules, title)
}

func ExtractSeasonNumber(title string) *int {
	return firstNumber(SeasonRules, title)
}

// ExtractYear returns the first 20xx number in text.
func ExtractYear(text string) *int {
	return firstNumber(YearRules, text)
}

// ExtractReleaseDates maps channel to the trimmed rest of the
// "Releasing on ..." line. The map is empty, never nil.
func ExtractReleaseDates(description string) map[string]string {
	dates := make(map[string]string, len(ReleaseDateRules))
	for _, r := range ReleaseDateRules {
		if m := r.Pattern.FindStringSubmatch(description); m != nil {
			dates[r.Channel] = strings.TrimSpace(m[1])
		}
	}
	return dates
}

// IsExtended reports whether the title advertises an extended cut.
func IsExtended(title string) bool {
	return strings.Contains(strings.ToLower(title), "extended")
}
