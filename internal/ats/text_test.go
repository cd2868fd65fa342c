package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"managing", "manag"},
		{"managed", "manag"},
		{"manage", "manag"},
		{"teams", "team"},
		{"studies", "stud"},
		{"go", "go"},
		{"led", "led"},
		{"aws", "aws"},
		{"python", "python"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stem(tt.in), "stem(%q)", tt.in)
	}
}

func TestTokenizeKeepsSkillTokens(t *testing.T) {
	tokens := tokenize("Skilled in C++, C# and Node.js (plus CI/CD).")
	assert.Contains(t, tokens, "c++")
	assert.Contains(t, tokens, "c#")
	assert.Contains(t, tokens, "node.js")
	assert.Contains(t, tokens, "ci/cd")
	assert.Contains(t, tokens, "skilled")
	assert.NotContains(t, tokens, "")
}

func TestContainsPhrase(t *testing.T) {
	norm := normalizeText("Experienced manager of large teams")

	assert.True(t, containsPhrase(norm, "manager"))
	assert.True(t, containsPhrase(norm, "large teams"))
	assert.False(t, containsPhrase(norm, "age"), "substrings inside words must not match")
	assert.False(t, containsPhrase(norm, "team"), "prefix of a longer word must not match")
}

func TestEditDistanceAtMostOne(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"python", "python", true},
		{"python", "pyton", true},
		{"python", "pythonn", true},
		{"python", "jython", true},
		{"python", "pyhton", false},
		{"python", "java", false},
		{"go", "got", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistanceAtMostOne(tt.a, tt.b), "editDistanceAtMostOne(%q, %q)", tt.a, tt.b)
	}
}

func TestNormalizeLines(t *testing.T) {
	lines := normalizeLines("Heading\r\n  body   text  \r\n\r\nnext")
	assert.Equal(t, []string{"Heading", "body text", "", "next"}, lines)
}

func TestAverageSentenceLength(t *testing.T) {
	avg := averageSentenceLength("This first sentence has seven words total. Another one with five words.")
	assert.InDelta(t, 6.0, avg, 0.01)

	assert.Zero(t, averageSentenceLength(""))
}
