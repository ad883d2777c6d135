package models

// URLStats is one row of the report: timing statistics of a single URL.
// Float fields are rounded to 3 decimals.
//
// Example JSON:
//
//	{
//	  "url": "/api/v2/banner/25019354",
//	  "count": 1,
//	  "count_perc": 100,
//	  "time_sum": 0.39,
//	  "time_perc": 100,
//	  "time_avg": 0.39,
//	  "time_max": 0.39,
//	  "time_med": 0.39
//	}
type URLStats struct {
	URL        string  `json:"url"`
	Count      int     `json:"count"`
	CountPerc  float64 `json:"count_perc"`
	TimeSum    float64 `json:"time_sum"`
	TimePerc   float64 `json:"time_perc"`
	TimeAvg    float64 `json:"time_avg"`
	TimeMax    float64 `json:"time_max"`
	TimeMedian float64 `json:"time_med"`
}

// AggregationResult holds the top URLs by total request time together with the
// counters of the pass that produced them. Stats is nil when the error limit was
// reached and empty when the requested report size is zero.
type AggregationResult struct {
	Stats       []URLStats
	TotalLines  int
	FailedLines int
	ErrorRate   float64
}
