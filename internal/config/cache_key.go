package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EnrollmentOverviewKey returns the cache key for the enrollment overview.
func (r *CacheKeyStruct) EnrollmentOverviewKey() string {
	return "stats:enrollment:overview"
}

// ClassRosterKey returns the cache key for a class roster snapshot.
func (r *CacheKeyStruct) ClassRosterKey(classID int) string {
	return fmt.Sprintf("stats:class:%d:roster", classID)
}

var CacheKey = NewCacheKeyStruct()
