package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentReportKey returns the cache key for a student's grade-card
// snapshot up to a semester.
func (r *CacheKeyStruct) StudentReportKey(rollNo, semNo, year int) string {
	return fmt.Sprintf("student:%d:report:%d:%d", rollNo, semNo, year)
}

// StudentIndicesKey returns the cache key for a student's SPI/CPI series.
func (r *CacheKeyStruct) StudentIndicesKey(rollNo, semNo int) string {
	return fmt.Sprintf("student:%d:indices:%d", rollNo, semNo)
}

// StudentCachePattern matches every cached read for a student; used
// for invalidation after grade or index writes.
func (r *CacheKeyStruct) StudentCachePattern(rollNo int) string {
	return fmt.Sprintf("student:%d:*", rollNo)
}

// BatchProgressChannel returns the Redis PubSub channel carrying
// per-student progress events for a cohort batch run.
func (r *CacheKeyStruct) BatchProgressChannel(jobID string) string {
	return fmt.Sprintf("batch:%s:progress", jobID)
}

var CacheKey = NewCacheKeyStruct()
