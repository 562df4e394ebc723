package services

import (
	"fmt"
	"strings"

	"airbnb-features/models"
)

// Ordered preferences for the columns the stages have to pick between.
var (
	ListingKeyPreference  = []string{models.ColID, models.ColListingID}
	CalendarKeyPreference = []string{models.ColListingID, models.ColID}
	TargetPreference      = []string{models.ColInstantBookable, models.ColHostSuperhost}
)

// Selection is the outcome of resolving an ordered preference list.
type Selection struct {
	Column string
	Found  bool
	Reason string
}

// Resolve picks the first candidate present in t. When none is present the
// Selection says so in Reason instead of returning an error.
func Resolve(t *models.Table, candidates ...string) Selection {
	for i, c := range candidates {
		if t.Has(c) {
			reason := fmt.Sprintf("using %q", c)
			if i > 0 {
				reason = fmt.Sprintf("using %q, %s not present", c, quoteAll(candidates[:i]))
			}
			return Selection{Column: c, Found: true, Reason: reason}
		}
	}
	return Selection{Reason: fmt.Sprintf("none of %s present", quoteAll(candidates))}
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
