package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []uint
		ok   bool
	}{
		{name: "dedupes", in: []string{"30", " 31", "30"}, want: []uint{30, 31}, ok: true},
		{name: "non numeric", in: []string{"30", "crew-a"}, ok: false},
		{name: "zero", in: []string{"0"}, ok: false},
		{name: "empty", in: nil, want: []uint{}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseUserIDs(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
