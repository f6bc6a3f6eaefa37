package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionSnapshotKey returns the cache key holding a user's paused quiz
// session snapshot. At most one snapshot exists per user.
func (r *CacheKeyStruct) SessionSnapshotKey(userID string) string {
	return fmt.Sprintf("user:%s:quiz:snapshot", userID)
}

// CorpusKey returns the cache key for the prewarmed question corpus.
func (r *CacheKeyStruct) CorpusKey() string {
	return "questions:corpus"
}

var CacheKey = NewCacheKeyStruct()
