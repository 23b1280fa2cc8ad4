// Package keywords decides which observed search queries become negative
// keywords for a campaign or ad group, and which existing negatives conflict
// with the positive keyword list.
package keywords

import "strings"

// Contains reports whether keyword occurs in query as whole word(s). A
// multi-word keyword must appear as the same contiguous words, in order.
//
// The only word separator recognised is the space character; punctuation is
// treated as part of a word.
func Contains(query, keyword string) bool {
	if query == keyword {
		return true
	}
	if keyword == "" {
		return false
	}

	index := strings.Index(query, keyword)
	if index < 0 {
		return false
	}

	after := index + len(keyword)
	return (index == 0 || query[index-1] == ' ') &&
		(after == len(query) || query[after] == ' ')
}

// CountMatches counts the positive keywords contained in query, in list order,
// and stops as soon as the count reaches threshold. Duplicated keywords count
// once per occurrence.
func CountMatches(query string, positives []string, threshold int) int {
	matches := 0
	if threshold <= 0 {
		return matches
	}
	for _, kw := range positives {
		if !Contains(query, kw) {
			continue
		}
		matches++
		if matches >= threshold {
			traceLog("Query '%s' contains positive keyword '%s'; skipping.", query, kw)
			break
		}
		traceLog("Query '%s' contains positive keyword '%s', but continuing (%d < %d matches).", query, kw, matches, threshold)
	}
	return matches
}
