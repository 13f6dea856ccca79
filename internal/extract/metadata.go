package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

var (
	reDate  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	reMoney = regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)`)
	reCNPJ  = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)

	// Number labeled after words meaning "certificate": "Certidão nº 123",
	// "Certificado Número: 04.123/2025" and similar.
	reCertNumber = regexp.MustCompile(`(?:Certidão|Certificado)\s+(?:n[º°.]\s*|[Nn]úmero\s*[:=]?\s*)(\d[\d./-]+)`)
)

// issuerWindow is how many characters of context are captured around an
// issuer name fragment.
const issuerWindow = 50

// ExtractMetadata pulls structured fields out of raw text. All fields are
// optional; absent ones are simply left unset. Certificate number and
// issuer are only extracted for certidão documents.
func ExtractMetadata(text string, typ constants.DocumentType) Metadata {
	var md Metadata

	dates := extractDates(text)
	if len(dates) > 0 {
		// First date in document order is the issue date; the last one, if
		// more than one exists, is the expiration date.
		md.IssueDate = &dates[0]
		if len(dates) > 1 {
			md.ExpirationDate = &dates[len(dates)-1]
		}
	}

	values := extractMoneyValues(text)
	if len(values) > 0 {
		md.ProposalValue = &values[0]
		if len(values) > 1 {
			md.BidValue = &values[1]
			if values[1] > 0 {
				diff := (values[0] - values[1]) / values[1] * 100
				md.PercentageDifference = &diff
			}
		}
	}

	if m := reCNPJ.FindString(text); m != "" {
		md.CNPJ = m
	}

	if typ == constants.TypeCertidao {
		if m := reCertNumber.FindStringSubmatch(text); m != nil {
			md.DocumentNumber = m[1]
		}
		for _, issuer := range constants.Issuers {
			if strings.Contains(text, issuer) {
				md.Issuer = issuerContext(text, issuer)
				break
			}
		}
	}

	return md
}

// extractDates returns every parseable dd/mm/yyyy date in document order.
// Substrings that match the pattern but are not valid calendar dates
// (e.g. 31/02/2025) are discarded individually.
func extractDates(text string) []time.Time {
	var dates []time.Time
	for _, m := range reDate.FindAllString(text, -1) {
		d, err := time.Parse("02/01/2006", m)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// extractMoneyValues returns every R$-prefixed amount parsed from the
// Brazilian convention (dot thousands separator, comma decimal separator).
func extractMoneyValues(text string) []float64 {
	var values []float64
	for _, m := range reMoney.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// issuerContext captures the issuer fragment with up to issuerWindow
// characters of surrounding context, whitespace-collapsed.
func issuerContext(text, issuer string) string {
	runes := []rune(text)
	idx := runeIndex(runes, []rune(issuer))
	if idx < 0 {
		return issuer
	}
	start := idx - issuerWindow
	if start < 0 {
		start = 0
	}
	end := idx + len([]rune(issuer)) + issuerWindow
	if end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(reWhitespace.ReplaceAllString(string(runes[start:end]), " "))
}

var reWhitespace = regexp.MustCompile(`\s+`)

func runeIndex(haystack, needle []rune) int {
	idx := strings.Index(string(haystack), string(needle))
	if idx < 0 {
		return -1
	}
	return len([]rune(string(haystack)[:idx]))
}
