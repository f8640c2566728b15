package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmail(t *testing.T) {
	tests := []struct {
		email string
		want  int
	}{
		// role local (0) + business domain (1) + single word (0.5) = 1.5 -> 2
		{"info@business.com", 2},
		// person (2) + webmail (0.5) + dotted name (1) = 3.5 -> 4
		{"john.doe@gmail.com", 4},
		// person (2) + business domain (1) + dotted name (1) = 4 -> 4
		{"jane.smith@acme.com", 4},
		// person (2) + business domain (1) + underscore name (1) = 4
		{"jane_smith@acme.com", 4},
		// person (2) + business domain (1) + single word (0.5) = 3.5 -> 4
		{"jane@acme.com", 4},
		// person (2) + disposable domain (0) + single word (0.5) = 2.5 -> 3
		{"jane@mailinator.com", 3},
		// role local (0) + webmail (0.5) + single word (0.5) = 1 -> 1
		{"support@gmail.com", 1},
		// person (2) + business domain (1) + digits in local (0) = 3
		{"jane42@acme.com", 3},
		// no @ is invalid
		{"not-an-email", 1},
		{"", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreEmail(tt.email), "email %q", tt.email)
	}
}

func TestScoreEmailRange(t *testing.T) {
	emails := []string{
		"a@b.c", "info@x.com", "john.doe@gmail.com", "x@mailinator.com",
		"noreply@site.org", "first.last@company.io", "weird+tag@host.net",
		"UPPER.CASE@ACME.COM", "no-at-sign",
	}
	for _, email := range emails {
		score := ScoreEmail(email)
		assert.GreaterOrEqual(t, score, 1, "email %q", email)
		assert.LessOrEqual(t, score, 5, "email %q", email)
	}
}

func TestBestEmail(t *testing.T) {
	email, score := BestEmail([]string{"jane@mailinator.com", "john.doe@acme.com"})
	assert.Equal(t, "john.doe@acme.com", email)
	assert.Equal(t, 4, score)

	// ties break lexicographically
	email, _ = BestEmail([]string{"zoe@acme.com", "amy@acme.com"})
	assert.Equal(t, "amy@acme.com", email)

	email, score = BestEmail(nil)
	assert.Equal(t, "", email)
	assert.Equal(t, 0, score)
}

func TestIsRoleAddress(t *testing.T) {
	assert.True(t, IsRoleAddress("info@acme.com"))
	assert.True(t, IsRoleAddress("support-desk@acme.com"))
	assert.True(t, IsRoleAddress("no-reply@acme.com"))
	assert.False(t, IsRoleAddress("jane@acme.com"))
	assert.False(t, IsRoleAddress("not-an-email"))
}
