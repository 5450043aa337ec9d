package duplicates

import "strings"

// The heuristics run in a fixed order per candidate: exact email, exact
// phone, then substring name and address. Exact contact matches are
// decisive on their own; fuzzy fields need at least two agreeing.

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Compare checks one candidate against the input and reports which fields
// agree, or nil if nothing matched.
func Compare(input Profile, candidate Candidate) *Match {
	var fields []string
	exact := false

	if email := normalizeEmail(input.Email); email != "" && email == normalizeEmail(candidate.Email) {
		fields = append(fields, "email")
		exact = true
	}
	if phone := normalizePhone(input.Phone); phone != "" && phone == normalizePhone(candidate.Phone) {
		fields = append(fields, "phone")
		exact = true
	}
	if containsEither(normalizeText(input.Name), normalizeText(candidate.Name)) {
		fields = append(fields, "name")
	}
	if containsEither(normalizeText(input.Address), normalizeText(candidate.Address)) {
		fields = append(fields, "address")
	}

	if len(fields) == 0 {
		return nil
	}
	return &Match{
		UserID:        candidate.UserID,
		MatchedFields: fields,
		ExactContact:  exact,
	}
}

// BuildReport runs Compare over all candidates and folds the results into
// a Report.
func BuildReport(input Profile, candidates []Candidate) Report {
	var report Report
	for _, c := range candidates {
		m := Compare(input, c)
		if m == nil {
			continue
		}
		report.Matches = append(report.Matches, *m)
		if m.ExactContact || len(m.MatchedFields) >= 2 {
			report.Likely = true
		}
	}
	return report
}
