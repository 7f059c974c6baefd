package core

import "log/slog"

// progressSampler emits a debug log line only when progress crosses into a
// new bucket, so fast poll loops do not flood the log.
type progressSampler struct {
	log        *slog.Logger
	bucketSize float64
	lastBucket int
}

func newProgressSampler(log *slog.Logger, bucketSize float64) *progressSampler {
	if bucketSize <= 0 {
		bucketSize = 0.1
	}
	return &progressSampler{log: log, bucketSize: bucketSize, lastBucket: -1}
}

func (s *progressSampler) observe(progress float64) {
	bucket := int(clamp01(progress) / s.bucketSize)
	if bucket <= s.lastBucket {
		return
	}
	s.lastBucket = bucket
	s.log.Debug("load progress", "progress", clamp01(progress))
}
