package httpclient

import "strings"

const summaryLimit = 120

// SummarizeBody returns a short, single-purpose rendition of a response body
// for error messages and debug logs.
func SummarizeBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	switch {
	case s == "":
		return "empty body"
	case len(s) > summaryLimit:
		return s[:summaryLimit] + "..."
	}
	return s
}
