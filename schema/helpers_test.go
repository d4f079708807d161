package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"DrNykterstein", "drnykterstein"}, // mixed case
		{"  alice  ", "alice"},             // surrounding spaces
		{"@Bob", "bob"},                    // leading at-sign
		{"(carol)", "carol"},               // wrapped in punctuation
		{"dave_the-king", "dave_the-king"}, // underscore and hyphen kept
		{"", ""},                           // empty
		{"!!!", ""},                        // punctuation only
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUsername(tt.name))
		})
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("magnus"))
	assert.True(t, ValidUsername("  @Hikaru "))
	assert.False(t, ValidUsername("a"))
	assert.False(t, ValidUsername("has space"))
	assert.False(t, ValidUsername("this-name-is-definitely-way-too-long-for-lichess"))
}

func TestDedupeUsernames(t *testing.T) {
	got := DedupeUsernames([]string{"Alice", "bob", "ALICE", " ", "@bob", "carol"})
	assert.Equal(t, []string{"alice", "bob", "carol"}, got)
	assert.Empty(t, DedupeUsernames(nil))
}

func TestFormatUsernames(t *testing.T) {
	assert.Equal(t, "alice, bob", FormatUsernames([]string{"alice", "bob"}))
	assert.Equal(t, "", FormatUsernames(nil))
}

func TestUsernamesEqual(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"both empty", []string{}, []string{}, true},
		{"same order", []string{"a1", "b2"}, []string{"a1", "b2"}, true},
		{"different order", []string{"a1", "b2"}, []string{"b2", "a1"}, true},
		{"different case", []string{"Alice"}, []string{"alice"}, true},
		{"different length", []string{"a1"}, []string{"a1", "b2"}, false},
		{"different names", []string{"a1", "b2"}, []string{"a1", "c3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsernamesEqual(tt.a, tt.b))
		})
	}
}
