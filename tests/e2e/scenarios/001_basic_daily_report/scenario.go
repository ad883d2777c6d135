package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalLines     = 20000 // Total number of log lines to generate
	malformedEvery = 50    // Every n-th line is written without the request section
	logDate        = "20170630"
	reportDate     = "2017.06.30"
)

var urls = []string{
	"/api/v2/banner/25019354",
	"/api/1/photogenic_banners/list/?server_name=WIN7RB4",
	"/api/v2/group/7786679/statistic/sites/?date_type=day&date_from=2017-06-28&date_to=2017-06-28",
	"/export/appinstall_raw/2017-06-29/",
}

// ### End - fixed configs

type runResponse struct {
	RunID      string `json:"runId"`
	Outcome    string `json:"outcome"`
	ReportDate string `json:"reportDate"`
}

type reportItem struct {
	Date string `json:"date"`
	Path string `json:"path"`
}

// main runs the e2e scenario: 001_basic_daily_report
//
// It writes a gzip-compressed access log into the report server's LOG_DIR,
// triggers an analysis through POST /runs and reads the report back.
//
// What it tests:
//   - Latest log discovery and gzip decoding
//   - Tolerant parsing (2% malformed lines stay under the error limit)
//   - Report creation and the GET /reports, GET /reports/{date} endpoints
//   - Idempotence: a second run answers report_exists
//
// Start the server with LOG_ANALYZER_LOG_DIR and LOG_ANALYZER_REPORT_DIR pointing
// at the directories below before running the scenario.
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the report server
	logDir := ".tmp/log"               // LOG_DIR of the server, relative to project root
	reportDir := ".tmp/reports"        // REPORT_DIR of the server, relative to project root
	wantClean := true                  // If true, remove both directories before running

	projectRoot, err := findProjectRoot()
	if err != nil {
		fail("%v", err)
	}
	logPath := filepath.Join(projectRoot, logDir)
	reportPath := filepath.Join(projectRoot, reportDir)

	if wantClean {
		fmt.Printf("Cleaning %s and %s\n", logPath, reportPath)
		_ = os.RemoveAll(logPath)
		_ = os.RemoveAll(reportPath)
	}

	fmt.Println("Starting e2e scenario: 001_basic_daily_report")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("LOG_PATH: %s\n", logPath)
	fmt.Printf("TOTAL_LINES: %d\n", totalLines)
	fmt.Println()

	if err := writeLog(logPath); err != nil {
		fail("failed to write log: %v", err)
	}

	first, err := triggerRun(baseURL)
	if err != nil {
		fail("first run failed: %v", err)
	}
	fmt.Printf("First run %s: %s (%s)\n", first.RunID, first.Outcome, first.ReportDate)
	if first.Outcome != "report_created" || first.ReportDate != reportDate {
		fail("expected report_created for %s", reportDate)
	}

	second, err := triggerRun(baseURL)
	if err != nil {
		fail("second run failed: %v", err)
	}
	fmt.Printf("Second run %s: %s\n", second.RunID, second.Outcome)
	if second.Outcome != "report_exists" {
		fail("expected report_exists on the second run")
	}

	var items []reportItem
	if err := getJSON(baseURL+"/reports", &items); err != nil {
		fail("failed to list reports: %v", err)
	}
	if len(items) != 1 || items[0].Date != reportDate {
		fail("unexpected report listing: %+v", items)
	}

	resp, err := http.Get(baseURL + items[0].Path)
	if err != nil {
		fail("failed to fetch report: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fail("GET %s returned %d", items[0].Path, resp.StatusCode)
	}
	for _, url := range urls {
		// the JSON payload escapes '&' as \u0026
		if !bytes.Contains(body, []byte(strings.ReplaceAll(url, "&", `\u0026`))) {
			fail("report does not mention %s", url)
		}
	}

	fmt.Println("Scenario completed successfully")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod above the working directory")
		}
		dir = parent
	}
}

func writeLog(logPath string) error {
	if err := os.MkdirAll(logPath, 0755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(logPath, "nginx-access-ui.log-"+logDate+".gz"))
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	rng := rand.New(rand.NewPCG(2017, 630))
	for i := 0; i < totalLines; i++ {
		url := urls[i%len(urls)]
		requestTime := float64(rng.IntN(2000)) / 1000
		var line string
		if i%malformedEvery == 0 {
			line = fmt.Sprintf("GET %s HTTP/1.1 1.99.174.176 - [30/Jun/2017:03:50:22 +0300] %.3f\n", url, requestTime)
		} else {
			line = fmt.Sprintf(`1.196.116.32 -  - [30/Jun/2017:03:50:22 +0300] "GET %s HTTP/1.1" 200 927 "-" "Lynx/2.8.8dev.9" "-" "1498697422-2190034393-4708-%d" "dc7161be3" %.3f`+"\n", url, i, requestTime)
		}
		if _, err := gz.Write([]byte(line)); err != nil {
			return err
		}
	}
	return gz.Close()
}

func triggerRun(baseURL string) (*runResponse, error) {
	resp, err := http.Post(baseURL+"/runs", "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var run runResponse
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

func getJSON(url string, target any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
