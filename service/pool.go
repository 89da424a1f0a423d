package service

import (
	"strconv"
	"strings"
)

// RewardPool is the parsed form of a key's pool descriptor: a
// semicolon-separated list of "Component: value" pairs. Recognized
// components are "Points: low-high" (inclusive random credit range) and
// "Role: name" (capability grant passed through verbatim).
type RewardPool struct {
	HasPoints  bool
	PointsLow  int64
	PointsHigh int64
	Role       string
}

// ParseRewardPool parses a pool descriptor leniently: unrecognized
// components are ignored and a malformed Points range degrades to "no
// point grant" instead of failing the redemption.
func ParseRewardPool(descriptor string) RewardPool {
	var pool RewardPool

	for _, component := range strings.Split(descriptor, ";") {
		name, value, found := strings.Cut(component, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		switch strings.ToLower(name) {
		case "points":
			low, high, ok := parsePointRange(value)
			if ok {
				pool.HasPoints = true
				pool.PointsLow = low
				pool.PointsHigh = high
			}
		case "role":
			if value != "" {
				pool.Role = value
			}
		}
	}

	return pool
}

// parsePointRange parses "low-high" into an inclusive range. A single
// value "n" is accepted as the degenerate range n-n.
func parsePointRange(value string) (int64, int64, bool) {
	lowStr, highStr, found := strings.Cut(value, "-")
	if !found {
		highStr = lowStr
	}

	low, err := strconv.ParseInt(strings.TrimSpace(lowStr), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	high, err := strconv.ParseInt(strings.TrimSpace(highStr), 10, 64)
	if err != nil {
		return 0, 0, false
	}

	if low < 0 || high < low {
		return 0, 0, false
	}

	return low, high, true
}
