package extraction

import (
	"regexp"
	"strings"
)

// amountPattern matches a monetary amount: 1-3 leading digits, optional
// comma-separated thousands groups, and exactly two cents digits.
const amountPattern = `(\d{1,3}(?:,\d{3})*\.\d{2})`

// totalLabels is the set of label spellings that may precede a receipt
// total. Receipts vary enormously in layout, so the set trades precision
// for recall; new spellings are additions here, not code changes.
var totalLabels = []string{
	`total net`,
	`total \(cad\)`,
	`total \(usd\)`,
	`total\(cad\)`,
	`total\(usd\)`,
	`total cad`,
	`total usd`,
	`totalcad`,
	`totalusd`,
	`total`,
	`paid`,
}

var totalRules = compileTotalRules()

// compileTotalRules builds one pattern per label: the label, optional
// whitespace/colon, an optional dollar sign, then the amount. Labels
// ending in a closing parenthesis get no trailing word boundary, since
// \b never holds between ')' and whitespace.
func compileTotalRules() []*regexp.Regexp {
	rules := make([]*regexp.Regexp, 0, len(totalLabels))
	for _, label := range totalLabels {
		expr := `(?i)\b` + label
		if !strings.HasSuffix(label, `\)`) {
			expr += `\b`
		}
		expr += `[\s:]*\$?\s*` + amountPattern
		rules = append(rules, regexp.MustCompile(expr))
	}
	return rules
}

// ExtractTotal finds a labeled monetary amount in text. Every rule is
// tried and the match earliest in the document wins; rule order never
// affects priority. The amount is returned verbatim, thousands
// separators intact. The second return is false when nothing matched.
func ExtractTotal(text string) (string, bool) {
	best := -1
	amount := ""
	for _, rule := range totalRules {
		loc := rule.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			amount = text[loc[2]:loc[3]]
		}
	}
	return amount, best != -1
}
