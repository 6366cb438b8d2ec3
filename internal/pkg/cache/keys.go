package cache

import "fmt"

// Keys for club reads
const (
	KeyAllClubs = "clubs:all"
)

// ClubKey is the cache key of one club
func ClubKey(id int64) string {
	return fmt.Sprintf("club:%d", id)
}

// ClubNameKey is the cache key of a club looked up by name
func ClubNameKey(name string) string {
	return "club:name:" + name
}
