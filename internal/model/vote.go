package model

import (
	"encoding/json"
	"errors"
	"strconv"
)

var ErrVoteOutOfRange = errors.New(`vote must be an integer in 1..10 or "skip"`)

// Vote is a single cast value: an integer in 1..10, or the skip sentinel.
type Vote int

const (
	VoteSkip Vote = 0
	VoteMin  Vote = 1
	VoteMax  Vote = 10
)

func (v Vote) IsSkip() bool {
	return v == VoteSkip
}

func (v Vote) Valid() bool {
	return v == VoteSkip || (v >= VoteMin && v <= VoteMax)
}

// On the wire a vote is a JSON number or the string "skip".
func (v Vote) MarshalJSON() ([]byte, error) {
	if v.IsSkip() {
		return []byte(`"skip"`), nil
	}
	return []byte(strconv.Itoa(int(v))), nil
}

func (v *Vote) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "skip" {
			*v = VoteSkip
			return nil
		}
		return ErrVoteOutOfRange
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrVoteOutOfRange
	}
	if n < int(VoteMin) || n > int(VoteMax) {
		return ErrVoteOutOfRange
	}
	*v = Vote(n)
	return nil
}

// Tally partitions a round's cast values into numeric votes and a count of
// skips. It is the payload of the round-ended broadcast.
type Tally struct {
	Votes   []int `json:"votes"`
	Skipped int   `json:"skipped"`
}
