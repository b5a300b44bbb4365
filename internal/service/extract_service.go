package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"sliplens/internal/models"

	"go.uber.org/zap"
)

// Slip text patterns. The numeric classes admit the letters o and l because
// tesseract regularly reads 0 and 1 as them; the month class admits | and $
// for the same reason. First match wins, fields are independent.
var (
	bankPattern   = regexp.MustCompile(`(?i)(kbank|scb)`)
	amountPattern = regexp.MustCompile(`(?i)amount:*\s*([\d,ol]+\.?[\d,ol]*)\s*baht`)
	feePattern    = regexp.MustCompile(`(?i)(fee:?|baht)\s*([\d,ol]+\.?[\d,ol]*)\s*baht`)
	datePattern   = regexp.MustCompile(`(?i)(\d{1,2}(\s[\w|$]{3})?\s\d{2,4})`)
	timePattern   = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s[ap]\.?[m\[]\.?|\d{1,2}:\d{2})`)
	memoPattern   = regexp.MustCompile(`(?i)memo:\s*(.*)`)

	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// bankNames maps recognized bank tokens to display names.
var bankNames = map[string]string{
	"kbank": "ธนาคารกสิกรไทย",
	"scb":   "ธนาคารไทยพาณิชย์",
}

// ExtractService parses structured transaction fields out of joined OCR
// text. Extraction is best effort: a field whose pattern does not match
// resolves to its zero value and never to an error.
type ExtractService struct {
	logger *zap.Logger
}

func NewExtractService(logger *zap.Logger) *ExtractService {
	return &ExtractService{logger: logger}
}

// Extract parses bank, amount, fee, date, time and memo from the text.
// Running it twice over the same text yields identical fields.
func (s *ExtractService) Extract(text string) models.SlipFields {
	cleaned := CleanText(text)

	var fields models.SlipFields
	if m := bankPattern.FindStringSubmatch(cleaned); m != nil {
		fields.Bank = bankNames[strings.ToLower(m[1])]
	}
	if m := amountPattern.FindStringSubmatch(cleaned); m != nil {
		fields.Amount = CorrectNumeric(m[1])
	}
	if m := feePattern.FindStringSubmatch(cleaned); m != nil {
		fields.Fee = CorrectNumeric(m[2])
	}
	if m := datePattern.FindStringSubmatch(cleaned); m != nil {
		fields.Date = parseSlipDate(strings.TrimSpace(m[1]))
	}
	if m := timePattern.FindStringSubmatch(cleaned); m != nil {
		fields.Time = parseSlipTime(strings.TrimSpace(m[1]))
	}
	if m := memoPattern.FindStringSubmatch(cleaned); m != nil {
		fields.Memo = strings.TrimSpace(m[1])
	}

	return fields
}

// CleanText collapses whitespace runs to single spaces, trims the ends and
// strips zero-width spaces.
func CleanText(text string) string {
	cleaned := whitespaceRuns.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.ReplaceAll(cleaned, "​", "")
}

// CorrectNumeric repairs OCR letter/digit confusion (o as 0, l as 1), strips
// thousands separators and parses the result. Unparseable values resolve
// to 0.
func CorrectNumeric(value string) float64 {
	corrected := strings.ReplaceAll(value, "o", "0")
	corrected = strings.ReplaceAll(corrected, "l", "1")
	corrected = strings.ReplaceAll(corrected, ",", "")

	v, err := strconv.ParseFloat(corrected, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseSlipDate parses "4 mar 24" style dates into ISO form. Anything the
// day-month-year layout rejects resolves to empty.
func parseSlipDate(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 3 {
		parts[1] = capitalize(parts[1])
	}
	t, err := time.Parse("2 Jan 06", strings.Join(parts, " "))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// parseSlipTime parses "6:23 pm" style times into ISO form with
// microseconds. Bare or punctuated variants the 12-hour layout rejects
// resolve to empty.
func parseSlipTime(s string) string {
	t, err := time.Parse("3:04 PM", strings.ToUpper(s))
	if err != nil {
		return ""
	}
	return t.Format("15:04:05.000000")
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
