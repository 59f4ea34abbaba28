package parser

import (
	"regexp"
	"sort"
	"time"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// Month-year buckets ("MM-YYYY") group an input file's outputs into an
// archival folder, chosen by transaction-date frequency.
const monthYearLayout = "01-2006"

var (
	saldoNameRegex     = regexp.MustCompile(`(?i)<NAME>\s*Saldo`)
	dtPostedDateRegex  = regexp.MustCompile(`<DTPOSTED>(\d{8})`)
	dtStartRegex       = regexp.MustCompile(`<DTSTART>(\d{8})`)
	filenameMonthRegex = regexp.MustCompile(`(\d{1,2})[-_]?(\d{4})`)
)

// MonthYearFromOFX picks the most frequent DTPOSTED month-year among the
// file's transactions. "Saldo" entries (Saldo Anterior, Saldo do dia) are
// bookkeeping markers, not movements, and are excluded from the tally.
// They are still parsed as transactions elsewhere. Falls back to the
// DTSTART header, then to the clock.
func MonthYearFromOFX(data []byte, now normalizer.Clock) string {
	content := decodeText(data)

	counts := map[string]int{}
	for _, entry := range stmtTrnRegex.FindAllStringSubmatch(content, -1) {
		block := entry[1]
		if saldoNameRegex.MatchString(block) {
			continue
		}
		dateMatch := dtPostedDateRegex.FindStringSubmatch(block)
		if dateMatch == nil {
			continue
		}
		if t, err := time.Parse("20060102", dateMatch[1]); err == nil {
			counts[t.Format(monthYearLayout)]++
		}
	}
	if bucket := mostFrequent(counts); bucket != "" {
		return bucket
	}

	if startMatch := dtStartRegex.FindStringSubmatch(content); startMatch != nil {
		if t, err := time.Parse("20060102", startMatch[1]); err == nil {
			return t.Format(monthYearLayout)
		}
	}

	return clockMonthYear(now)
}

// MonthYearFromTransactions picks the most frequent month-year among
// parsed transaction dates, falling back to the clock.
func MonthYearFromTransactions(txs []*models.Transaction, now normalizer.Clock) string {
	counts := map[string]int{}
	for _, tx := range txs {
		counts[tx.Date.Format(monthYearLayout)]++
	}
	if bucket := mostFrequent(counts); bucket != "" {
		return bucket
	}
	return clockMonthYear(now)
}

// MonthYearFromFilename extracts a month-year from names like
// "extrato-112025.ofx" or "extrato-11-2025.ofx", falling back to the clock.
func MonthYearFromFilename(filename string, now normalizer.Clock) string {
	if m := filenameMonthRegex.FindStringSubmatch(filename); m != nil {
		month := m[1]
		if len(month) == 1 {
			month = "0" + month
		}
		return month + "-" + m[2]
	}
	return clockMonthYear(now)
}

// mostFrequent returns the highest-count key, breaking count ties by the
// lexicographically smallest key so the result is deterministic.
func mostFrequent(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	return keys[0]
}

func clockMonthYear(now normalizer.Clock) string {
	if now == nil {
		now = time.Now
	}
	return now().Format(monthYearLayout)
}
