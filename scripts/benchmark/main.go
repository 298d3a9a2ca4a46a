// Command benchmark measures search and title-generation latency of a
// running listingkit server and writes a JSON report.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

var (
	apiURL   = flag.String("api-url", "http://localhost:3000", "listingkit API base URL")
	apiKey   = flag.String("api-key", "", "API key for authenticated requests")
	runs     = flag.Int("runs", 3, "runs per keyword and operation")
	output   = flag.String("output", "benchmark-results.json", "JSON output file path")
	skipSrch = flag.Bool("skip-search", false, "benchmark title generation only")
)

var keywords = []string{
	"tech gadgets",
	"wireless earbuds",
	"standing desk",
	"coffee grinder",
}

// Response shapes, reduced to what the report needs.
type apiResponse struct {
	Success  bool              `json:"success"`
	Titles   []string          `json:"titles"`
	Products []json.RawMessage `json:"products"`
	Count    int               `json:"count"`
	Timing   *struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type runResult struct {
	Run       int    `json:"run"`
	ServerMs  int64  `json:"server_ms"`
	ClientMs  int64  `json:"client_ms"`
	Items     int    `json:"items"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type caseResult struct {
	Operation string      `json:"operation"`
	Keyword   string      `json:"keyword"`
	Runs      []runResult `json:"runs"`
	AvgMs     float64     `json:"avg_ms"`
	AvgItems  float64     `json:"avg_items"`
	OK        int         `json:"ok"`
}

type report struct {
	Timestamp string       `json:"timestamp"`
	APIURL    string       `json:"api_url"`
	Runs      int          `json:"runs"`
	Results   []caseResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== listingkit benchmark ===")
	fmt.Printf("API URL:  %s\n", *apiURL)
	fmt.Printf("Runs:     %d\n\n", *runs)

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	rep := report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		APIURL:    *apiURL,
		Runs:      *runs,
	}

	ops := []string{"generate-title"}
	if !*skipSrch {
		ops = append(ops, "search")
	}

	for _, op := range ops {
		for _, kw := range keywords {
			fmt.Printf("[%s] %q\n", op, kw)
			cr := caseResult{Operation: op, Keyword: kw}
			for i := 1; i <= *runs; i++ {
				rr := runOnce(op, kw, i)
				if rr.Success {
					fmt.Printf("  run %d: OK  %dms  %d items\n", i, rr.ClientMs, rr.Items)
				} else {
					fmt.Printf("  run %d: FAILED %s\n", i, rr.ErrorKind)
				}
				cr.Runs = append(cr.Runs, rr)
			}
			summarize(&cr)
			rep.Results = append(rep.Results, cr)
		}
		fmt.Println()
	}

	printTable(rep.Results)

	if err := writeJSON(*output, rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func runOnce(op, keyword string, run int) runResult {
	rr := runResult{Run: run}

	var payload any
	switch op {
	case "search":
		payload = map[string]string{"keyword": keyword}
	default:
		payload = map[string]string{"product_keywords": keyword}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		rr.ErrorKind = "MARSHAL"
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/"+op, bytes.NewReader(body))
	if err != nil {
		rr.ErrorKind = "REQUEST"
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	start := time.Now()
	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		rr.ErrorKind = "CONNECT"
		return rr
	}
	defer resp.Body.Close()

	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		rr.ErrorKind = "DECODE"
		return rr
	}
	rr.ClientMs = time.Since(start).Milliseconds()

	rr.Success = ar.Success
	if ar.Timing != nil {
		rr.ServerMs = ar.Timing.TotalMs
	}
	if op == "search" {
		rr.Items = ar.Count
	} else {
		rr.Items = len(ar.Titles)
	}
	if ar.Error != nil {
		rr.ErrorKind = ar.Error.Code
	}
	return rr
}

func summarize(cr *caseResult) {
	var ms, items float64
	for _, r := range cr.Runs {
		if !r.Success {
			continue
		}
		cr.OK++
		ms += float64(r.ClientMs)
		items += float64(r.Items)
	}
	if cr.OK > 0 {
		cr.AvgMs = ms / float64(cr.OK)
		cr.AvgItems = items / float64(cr.OK)
	}
}

func printTable(results []caseResult) {
	fmt.Println(strings.Repeat("─", 72))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Operation\tKeyword\tAvg Latency\tAvg Items\tOK\n")
	for _, r := range results {
		if r.OK == 0 {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t0/%d\n", r.Operation, r.Keyword, len(r.Runs))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%.1f\t%d/%d\n",
			r.Operation, r.Keyword, int64(r.AvgMs), r.AvgItems, r.OK, len(r.Runs))
	}
	w.Flush()
	fmt.Println(strings.Repeat("─", 72))
}

func writeJSON(path string, rep report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
