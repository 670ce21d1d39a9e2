package organizer

import (
	"regexp"
	"strconv"
	"strings"
)

// OtherSeries is the series name given to titles no rule recognises.
const OtherSeries = "Other"

// SeriesRule maps a title pattern to the canonical series name it stands for.
// Rules are evaluated in order by [ExtractSeriesName]; first match wins.
type SeriesRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// NumberRule captures an integer in group 1. Rules are evaluated in order;
// a rule whose capture does not parse is skipped.
type NumberRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DateRule pulls a free-text release date for one channel out of a
// description.
type DateRule struct {
	Channel string
	Pattern *regexp.Regexp
}

// SeriesRules is the closed list of known shows.
var SeriesRules = []SeriesRule{
	{"Hammy and Olivia", regexp.MustCompile(`(?i)(Hammy and Olivia|Hammy & Olivia)`)},
	{"Timmy Vs Jimmy", regexp.MustCompile(`(?i)(Timmy Vs Jimmy)`)},
	{"Gorilla Tag", regexp.MustCompile(`(?i)(Gorilla Tag)`)},
	{"Beluga and the", regexp.MustCompile(`(?i)(Beluga and the)`)},
	{"Smudge's Adventures", regexp.MustCompile(`(?i)(Smudge's Adventures)`)},
	{"Dystopian Cats", regexp.MustCompile(`(?i)(Dystopian Cats)`)},
	{"The Melon Sandbox", regexp.MustCompile(`(?i)(The Melon Sandbox)`)},
	{"The Talking Kitty Cat", regexp.MustCompile(`(?i)(The Talking Kitty Cat)`)},
	{"Evil Cat", regexp.MustCompile(`(?i)(Evil Cat)`)},
	{"Sanic Chase", regexp.MustCompile(`(?i)(Sanic Chase)`)},
	{"SHADOW.", regexp.MustCompile(`(?i)(SHADOW\.)`)},
	{"Beluga Gets Ready", regexp.MustCompile(`(?i)(Beluga Gets Ready)`)},
}

// EpisodeRules are tried in order. The trailing-number rule comes last, so
// "Part 2" wins over a trailing year, but a bare title ending in a year
// reports the year as its episode number.
var EpisodeRules = []NumberRule{
	{"part", regexp.MustCompile(`(?i)Part (\d+)`)},
	{"movie", regexp.MustCompile(`(?i)Movie (\d+)`)},
	{"episode", regexp.MustCompile(`(?i)Episode (\d+)`)},
	{"sxxexx", regexp.MustCompile(`(?i)S\d+E(\d+)`)},
	{"trailing", regexp.MustCompile(`(\d+)$`)},
}

var SeasonRules = []NumberRule{
	{"sxxe", regexp.MustCompile(`(?i)S(\d+)E`)},
}

var YearRules = []NumberRule{
	{"20xx", regexp.MustCompile(`(20\d{2})`)},
}

// ReleaseDateRules are case-sensitive and capture the rest of the line.
var ReleaseDateRules = []DateRule{
	{"youtube", regexp.MustCompile(`Releasing on YT (.+?)(?:\n|$)`)},
	{"lpf_plus", regexp.MustCompile(`Releasing on LPF\+ (.+?)(?:\n|$)`)},
}

// firstNumber runs rules in order and returns the first capture that
// parses as an int.
func firstNumber(rules []NumberRule, s string) *int {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}
