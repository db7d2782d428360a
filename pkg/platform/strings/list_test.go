package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		normalize Normalizer
		expected  []string
	}{
		{name: "nil stays nil", input: nil, normalize: Trim, expected: nil},
		{name: "empty stays empty", input: []string{}, normalize: Trim, expected: []string{}},
		{name: "blank elements dropped", input: []string{" ", "", "citas"}, normalize: Trim, expected: []string{"citas"}},
		{name: "first occurrence wins", input: []string{"triage", "citas", "triage"}, normalize: Trim, expected: []string{"triage", "citas"}},
		{name: "trim keeps case", input: []string{" Citas", "citas"}, normalize: Trim, expected: []string{"Citas", "citas"}},
		{name: "lower folds case", input: []string{" Citas", "CITAS ", "recetas"}, normalize: TrimLower, expected: []string{"citas", "recetas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input, tt.normalize))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("", Trim))
	assert.Nil(t, SplitList("  ", Trim))
	assert.Nil(t, SplitList(" , ,", Trim))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitList("kafka-1:9092, kafka-2:9092,kafka-1:9092", Trim))
	assert.Equal(t, []string{"citas", "triage"}, SplitList("citas, Triage,citas,", TrimLower))
}
