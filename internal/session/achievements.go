package session

import "slices"

// Achievement is a tile threshold with a display label.
type Achievement struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
}

// Achievements is the ordered unlock table, lowest threshold first.
var Achievements = []Achievement{
	{Threshold: 64, Label: "Fresh Start"},
	{Threshold: 128, Label: "Small Success"},
	{Threshold: 256, Label: "Getting Warm"},
	{Threshold: 512, Label: "Through the Door"},
	{Threshold: 1024, Label: "Pure Flame"},
	{Threshold: 2048, Label: "Summit"},
	{Threshold: 4096, Label: "Beyond Mortal"},
	{Threshold: 8192, Label: "Divine Touch"},
}

// Unlocked is the set of unlocked thresholds, kept in table order.
type Unlocked []int

// Has reports whether threshold is unlocked.
func (u Unlocked) Has(threshold int) bool {
	_, found := slices.BinarySearch(u, threshold)
	return found
}

// add inserts threshold in order. Returns false if it was already present.
func (u *Unlocked) add(threshold int) bool {
	i, found := slices.BinarySearch(*u, threshold)
	if found {
		return false
	}
	*u = slices.Insert(*u, i, threshold)
	return true
}

// CheckAchievements unlocks every threshold maxTile has reached and returns
// the newly unlocked entries in table order.
func CheckAchievements(maxTile int, unlocked *Unlocked) []Achievement {
	var fresh []Achievement
	for _, a := range Achievements {
		if maxTile < a.Threshold {
			break
		}
		if unlocked.add(a.Threshold) {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// AchievementLabel returns the label for threshold, or "" if none exists.
func AchievementLabel(threshold int) string {
	for _, a := range Achievements {
		if a.Threshold == threshold {
			return a.Label
		}
	}
	return ""
}
