package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	Offers            int
	Outcomes          map[string]int
	CountersAccepted  int
	CountersRejected  int
	Restarts          int
	SecurityFailures  int
	CartFailures      int
	RateLimited       int
	TotalErrors       int
	ProductActivities map[string]int
	ErrorPatterns     map[string]int
}

var (
	outcomeRegex   = regexp.MustCompile(`Outcome: ([a-z_]+)`)
	productIDRegex = regexp.MustCompile(`Product ID: ([^,\s]+)`)
	// strips "ERROR: 2006/01/02 15:04:05 file.go:12: "
	logPrefixRegex = regexp.MustCompile(`^[A-Z]+: \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} [^:]+:\d+: `)
	digitsRegex    = regexp.MustCompile(`\d+`)
)

func newLogStats() *LogStats {
	return &LogStats{
		Outcomes:          make(map[string]int),
		ProductActivities: make(map[string]int),
		ErrorPatterns:     make(map[string]int),
	}
}

func main() {
	logDir := flag.String("dir", "./logs", "log directory")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := newLogStats()
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), stats.analyzeInfo)
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), stats.analyzeErrors)

	printReport(os.Stdout, stats)
}

func analyzeFile(logFile string, analyze func(io.Reader)) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()
	analyze(file)
}

func (s *LogStats) analyzeInfo(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "Offer decision"):
			s.Offers++
			if m := outcomeRegex.FindStringSubmatch(line); m != nil {
				s.Outcomes[m[1]]++
			}
			s.extractProduct(line)
		case strings.Contains(line, "Counter offer accepted"):
			s.CountersAccepted++
			s.extractProduct(line)
		case strings.Contains(line, "Offer negotiation restarted"):
			s.Restarts++
		}
	}
}

func (s *LogStats) analyzeErrors(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		s.TotalErrors++

		switch {
		case strings.Contains(line, "Security check failed"):
			s.SecurityFailures++
		case strings.Contains(line, "Counter acceptance rejected"):
			s.CountersRejected++
		case strings.Contains(line, "Rate limit exceeded"):
			s.RateLimited++
		case strings.Contains(line, "Failed to add product"):
			s.CartFailures++
		}

		s.extractErrorPattern(line)
	}
}

func (s *LogStats) extractProduct(line string) {
	if m := productIDRegex.FindStringSubmatch(line); m != nil {
		s.ProductActivities[m[1]]++
	}
}

// extractErrorPattern groups messages that only differ in ids and amounts
func (s *LogStats) extractErrorPattern(line string) {
	msg := logPrefixRegex.ReplaceAllString(line, "")
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	msg = digitsRegex.ReplaceAllString(strings.TrimSpace(msg), "N")
	if msg != "" {
		s.ErrorPatterns[msg]++
	}
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Make Offer Log Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Offer Statistics:")
	fmt.Fprintf(w, "   Offers Submitted: %d\n", stats.Offers)
	fmt.Fprintf(w, "   Accepted Outright: %d\n", stats.Outcomes["accepted"])
	fmt.Fprintf(w, "   Countered: %d\n", stats.Outcomes["counter_offer"])
	fmt.Fprintf(w, "   Final Offers: %d\n", stats.Outcomes["final_offer"])
	fmt.Fprintf(w, "   Counters Accepted: %d\n", stats.CountersAccepted)
	fmt.Fprintf(w, "   Counters Rejected: %d\n", stats.CountersRejected)
	fmt.Fprintf(w, "   Restarts: %d\n", stats.Restarts)

	fmt.Fprintln(w, "\n2. Security Incidents:")
	fmt.Fprintf(w, "   Failed Nonce Checks: %d\n", stats.SecurityFailures)
	fmt.Fprintf(w, "   Rate Limited Requests: %d\n", stats.RateLimited)

	fmt.Fprintln(w, "\n3. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(w, "   Cart Insertion Failures: %d\n", stats.CartFailures)

	fmt.Fprintln(w, "\n4. Most Negotiated Products:")
	printTop(w, stats.ProductActivities, 5, "product %s: %d offers")

	fmt.Fprintln(w, "\n5. Most Common Errors:")
	printTop(w, stats.ErrorPatterns, 5, "%s: %d occurrences")
}

func printTop(w io.Writer, counts map[string]int, limit int, format string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for key, count := range counts {
		entries = append(entries, entry{key, count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "   "+format+"\n", e.key, e.count)
	}
}
