// Package filter derives the displayed subset of activities from a free-text query.
package filter

import (
	"strings"

	"actividades-cli/internal/model"
)

// Activities returns the records of list that match query, in their original order.
//
// A record matches when its description, priority, state or assigned user name
// contains query, ignoring case. Absent fields never match. An empty query
// returns list unchanged. The query is used as given (no trimming).
func Activities(list []model.Activity, query string) []model.Activity {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)
	out := make([]model.Activity, 0, len(list))
	for _, a := range list {
		if Matches(a, q) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether a matches the already lower-cased query q.
func Matches(a model.Activity, q string) bool {
	for _, field := range searchableFields(a) {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func searchableFields(a model.Activity) [4]string {
	return [4]string{
		a.DescriptionText(),
		a.Priority,
		string(a.State),
		a.AssignedUserName(),
	}
}
