package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var labelRe = regexp.MustCompile(`^([A-Za-z]+)[\s-]*(\d+)$`)

// ParsedLabel holds the structured data parsed from a room label.
type ParsedLabel struct {
	Block string
	Floor int
	Seq   int
}

// RoomLabel extracts block, floor, and room sequence from a label such
// as "A-203" or "B 1204": the letters are the block, the last two digits
// the room sequence on the floor, and anything before them the floor.
// Two-digit-or-shorter numbers are treated as a bare sequence on an
// unknown floor.
func RoomLabel(raw string) (ParsedLabel, error) {
	s := strings.TrimSpace(raw)
	matches := labelRe.FindStringSubmatch(s)
	if matches == nil {
		return ParsedLabel{}, fmt.Errorf("unable to parse room label: %q", raw)
	}

	block := strings.ToUpper(matches[1])
	digits := matches[2]

	if len(digits) <= 2 {
		seq, err := strconv.Atoi(digits)
		if err != nil {
			return ParsedLabel{}, fmt.Errorf("unable to parse room label: %q", raw)
		}
		return ParsedLabel{Block: block, Floor: 0, Seq: seq}, nil
	}

	floor, err := strconv.Atoi(digits[:len(digits)-2])
	if err != nil {
		return ParsedLabel{}, fmt.Errorf("unable to parse room label: %q", raw)
	}
	seq, err := strconv.Atoi(digits[len(digits)-2:])
	if err != nil {
		return ParsedLabel{}, fmt.Errorf("unable to parse room label: %q", raw)
	}
	return ParsedLabel{Block: block, Floor: floor, Seq: seq}, nil
}
