package models

// ParsedLine is the outcome of parsing one access log line. When Valid is false
// the line was unparseable and URL and RequestTime are zero.
type ParsedLine struct {
	URL         string
	RequestTime float64
	Valid       bool
}

func NewParsedLine(url string, requestTime float64) ParsedLine {
	return ParsedLine{URL: url, RequestTime: requestTime, Valid: true}
}

func FailedParsedLine() ParsedLine {
	return ParsedLine{}
}
