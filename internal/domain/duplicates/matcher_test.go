package duplicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_ExactEmail(t *testing.T) {
	input := Profile{Email: " Jane.Doe@Example.COM "}
	candidate := Candidate{UserID: 5, Email: "jane.doe@example.com"}

	m := Compare(input, candidate)
	require.NotNil(t, m)
	assert.True(t, m.ExactContact)
	assert.Equal(t, []string{"email"}, m.MatchedFields)
}

func TestCompare_PhoneIgnoresFormatting(t *testing.T) {
	input := Profile{Phone: "(312) 555-0142"}
	candidate := Candidate{UserID: 5, Phone: "3125550142"}

	m := Compare(input, candidate)
	require.NotNil(t, m)
	assert.True(t, m.ExactContact)
	assert.Equal(t, []string{"phone"}, m.MatchedFields)
}

func TestCompare_NameSubstringEitherDirection(t *testing.T) {
	input := Profile{Name: "Jane Doe"}

	m := Compare(input, Candidate{UserID: 5, Name: "jane doe-smith"})
	require.NotNil(t, m)
	assert.False(t, m.ExactContact)

	m = Compare(Profile{Name: "jane doe-smith"}, Candidate{UserID: 5, Name: "Jane Doe"})
	require.NotNil(t, m)
}

func TestCompare_EmptyFieldsNeverMatch(t *testing.T) {
	m := Compare(Profile{}, Candidate{UserID: 5})
	assert.Nil(t, m)
}

func TestCompare_NoOverlap(t *testing.T) {
	input := Profile{Name: "Jane Doe", Phone: "3125550142", Email: "jane@example.com"}
	candidate := Candidate{UserID: 5, Name: "Bob Roberts", Phone: "2125559999", Email: "bob@example.com"}

	assert.Nil(t, Compare(input, candidate))
}

func TestBuildReport_ExactContactIsLikely(t *testing.T) {
	input := Profile{Email: "jane@example.com", Name: "Totally Different"}
	candidates := []Candidate{
		{UserID: 1, Email: "jane@example.com"},
		{UserID: 2, Name: "Nobody"},
	}

	report := BuildReport(input, candidates)
	require.Len(t, report.Matches, 1)
	assert.True(t, report.Likely)
	assert.Equal(t, int64(1), report.Matches[0].UserID)
}

func TestBuildReport_TwoFuzzyFieldsIsLikely(t *testing.T) {
	input := Profile{Name: "Jane Doe", Address: "123 Main St Springfield"}
	candidates := []Candidate{
		{UserID: 3, Name: "Jane Doe", Address: "123 main st springfield"},
	}

	report := BuildReport(input, candidates)
	require.Len(t, report.Matches, 1)
	assert.True(t, report.Likely)
	assert.ElementsMatch(t, []string{"name", "address"}, report.Matches[0].MatchedFields)
}

func TestBuildReport_SingleFuzzyFieldIsNotLikely(t *testing.T) {
	input := Profile{Name: "Jane Doe"}
	candidates := []Candidate{
		{UserID: 3, Name: "Jane Doe"},
	}

	report := BuildReport(input, candidates)
	require.Len(t, report.Matches, 1)
	assert.False(t, report.Likely)
}
