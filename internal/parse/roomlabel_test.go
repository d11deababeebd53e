package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLabel(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  ParsedLabel
		valid bool
	}{
		{"block dash floor room", "A-203", ParsedLabel{Block: "A", Floor: 2, Seq: 3}, true},
		{"block space number", "B 1204", ParsedLabel{Block: "B", Floor: 12, Seq: 4}, true},
		{"no separator", "C101", ParsedLabel{Block: "C", Floor: 1, Seq: 1}, true},
		{"lowercase block is normalized", "b-305", ParsedLabel{Block: "B", Floor: 3, Seq: 5}, true},
		{"multi letter block", "PG-402", ParsedLabel{Block: "PG", Floor: 4, Seq: 2}, true},
		{"two digits is a bare sequence", "A-12", ParsedLabel{Block: "A", Floor: 0, Seq: 12}, true},
		{"single digit", "A-7", ParsedLabel{Block: "A", Floor: 0, Seq: 7}, true},
		{"surrounding whitespace", "  A-203  ", ParsedLabel{Block: "A", Floor: 2, Seq: 3}, true},
		{"digits only", "203", ParsedLabel{}, false},
		{"letters only", "Annex", ParsedLabel{}, false},
		{"free text", "near the stairs", ParsedLabel{}, false},
		{"empty", "", ParsedLabel{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RoomLabel(tc.raw)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
