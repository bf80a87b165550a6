package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected LocationParts
	}{
		{
			"three segments",
			"Alvalade, Lisboa, Lisboa",
			LocationParts{Neighborhood: "Alvalade", City: "Lisboa", State: "Lisboa", Complete: true},
		},
		{
			"two segments has empty neighborhood",
			"Cascais, Lisboa",
			LocationParts{City: "Cascais", State: "Lisboa", Complete: true},
		},
		{
			"neighborhood with embedded comma",
			"Alvalade, São João de Brito, Lisboa, Lisboa",
			LocationParts{Neighborhood: "Alvalade, São João de Brito", City: "Lisboa", State: "Lisboa", Complete: true},
		},
		{
			"single segment is incomplete",
			"Lisboa",
			LocationParts{State: "Lisboa"},
		},
		{
			"empty string",
			"",
			LocationParts{},
		},
		{
			"whitespace only",
			"   ",
			LocationParts{},
		},
		{
			"segments are trimmed",
			"  Alvalade ,  Lisboa ,  Lisboa  ",
			LocationParts{Neighborhood: "Alvalade", City: "Lisboa", State: "Lisboa", Complete: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLocation(tt.raw))
		})
	}
}
