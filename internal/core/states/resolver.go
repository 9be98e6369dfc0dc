// Package states maps free-text Indian state names to the two-digit GST
// state codes used as the reporting dimension. Unknown names resolve to the
// home state; that is the documented fallback policy of the filing flow,
// not an error path.
package states

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HomeCode is the filer's registered state (Maharashtra).
const HomeCode = "27"

var codeByName = map[string]string{
	"JAMMU AND KASHMIR": "01", "JAMMU & KASHMIR": "01",
	"HIMACHAL PRADESH": "02",
	"PUNJAB":           "03",
	"CHANDIGARH":       "04",
	"UTTARAKHAND":      "05",
	"HARYANA":          "06",
	"DELHI":            "07", "DELHI (NCT)": "07", "NEW DELHI": "07",
	"RAJASTHAN":         "08",
	"UTTAR PRADESH":     "09",
	"BIHAR":             "10",
	"SIKKIM":            "11",
	"ARUNACHAL PRADESH": "12",
	"NAGALAND":          "13",
	"MANIPUR":           "14",
	"MIZORAM":           "15",
	"TRIPURA":           "16",
	"MEGHALAYA":         "17",
	"ASSAM":             "18",
	"WEST BENGAL":       "19",
	"JHARKHAND":         "20",
	"ODISHA":            "21", "ORISSA": "21", "ODISHA (ORISSA)": "21",
	"CHHATTISGARH":   "22",
	"MADHYA PRADESH": "23",
	"GUJARAT":        "24",
	"DAMAN AND DIU":  "25", "DAMAN & DIU": "25",
	"DADRA AND NAGAR HAVELI": "26", "DADRA & NAGAR HAVELI": "26",
	"MAHARASHTRA": "27",
	"KARNATAKA":   "29",
	"GOA":         "30",
	"LAKSHADWEEP": "31",
	"KERALA":      "32",
	"TAMIL NADU":  "33",
	"PUDUCHERRY":  "34", "PONDICHERRY": "34",
	"ANDAMAN AND NICOBAR ISLANDS": "35", "ANDAMAN & NICOBAR ISLANDS": "35",
	"TELANGANA":      "36",
	"ANDHRA PRADESH": "37",
	"LADAKH":         "38",
}

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)

	codeByKey map[string]string
	matcher   *closestmatch.ClosestMatch
)

func init() {
	codeByKey = make(map[string]string, len(codeByName))
	keys := make([]string, 0, len(codeByName))
	for name, code := range codeByName {
		key := Normalize(name)
		codeByKey[key] = code
		keys = append(keys, key)
	}
	matcher = closestmatch.New(keys, []int{2, 3})
}

// Normalize folds a state name to its lookup key: diacritics stripped,
// upper-cased, punctuation collapsed to single spaces.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, name)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Lookup resolves a state name to its code, reporting whether it was known.
func Lookup(name string) (string, bool) {
	code, ok := codeByKey[Normalize(name)]
	return code, ok
}

// Resolve maps a state name to its two-digit code, falling back to the home
// state for unknown or empty input.
func Resolve(name string) string {
	if code, ok := Lookup(name); ok {
		return code
	}
	return HomeCode
}

// Suggest returns the closest known state name for an unresolvable input so
// callers can log a hint. The resolved code is never affected by this.
func Suggest(name string) (string, bool) {
	key := Normalize(name)
	if key == "" {
		return "", false
	}
	if _, ok := codeByKey[key]; ok {
		return "", false
	}
	match := matcher.Closest(key)
	return match, match != ""
}

// Title capitalizes a state name for display: first letter of each word
// upper, the rest lower. The code remains the join key everywhere.
func Title(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
