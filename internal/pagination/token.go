// Package pagination implements the opaque page-cursor scheme used by
// range queries: a token is a base-10 rendering of a zero-based page index.
package pagination

import "strconv"

const DefaultPageSize = 25

func EncodePageToken(pageIndex int) string {
	return strconv.Itoa(pageIndex)
}

// DecodePageToken is fail-open: an empty, malformed, or negative token
// restarts pagination at page 0 rather than erroring.
func DecodePageToken(token string) int {
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
