package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "12.5", ToString(12.5))
	assert.Equal(t, "42", ToString(int64(42)))
	assert.Equal(t, "2003-02-24", ToString(time.Date(2003, 2, 24, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2003-02-24T10:30:00Z", ToString(time.Date(2003, 2, 24, 10, 30, 0, 0, time.UTC)))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 7, ToInt("7"))
	assert.Equal(t, 7, ToInt([]byte(" 7 ")))
	assert.Equal(t, 3, ToInt(3.9))
	assert.Equal(t, 0, ToInt("ten"))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("YES"))
	assert.True(t, ToBool(int64(1)))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(2.0))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"Int", 5, 5, true},
		{"WholeFloat", 5.0, 5, true},
		{"Fraction", 5.5, 0, false},
		{"String", "12", 12, true},
		{"Dirty", "5a", 0, false},
		{"Word", "two", 0, false},
		{"Number", json.Number("9"), 9, true},
		{"Nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	f, ok := ParseFloat("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = ParseFloat("N/A")
	assert.False(t, ok)
	_, ok = ParseFloat("one hundred")
	assert.False(t, ok)
	_, ok = ParseFloat(nil)
	assert.False(t, ok)
}
