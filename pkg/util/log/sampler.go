// SPDX-License-Identifier: AGPL-3.0-only

package log

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

// SampledError is an error that should only be logged once every freq
// occurrences.
type SampledError struct {
	err     error
	sampler *Sampler
}

func (s SampledError) Error() string {
	return s.err.Error()
}

func (s SampledError) Unwrap() error { return s.err }

// ShouldLog reports whether this occurrence was sampled, along with a reason
// suitable for a log line.
func (s SampledError) ShouldLog() (bool, string) {
	if s.sampler == nil {
		return true, ""
	}
	return s.sampler.Sample(), fmt.Sprintf("sampled 1/%d", s.sampler.freq)
}

type Sampler struct {
	freq  int64
	count atomic.Int64
}

// NewSampler returns a sampler letting one in every freq events through, or
// nil if freq is zero. A nil sampler lets everything through.
func NewSampler(freq int64) *Sampler {
	if freq <= 0 {
		return nil
	}
	return &Sampler{freq: freq}
}

func (s *Sampler) Sample() bool {
	if s == nil {
		return true
	}
	count := s.count.Inc()
	return (count-1)%s.freq == 0
}

func (s *Sampler) WrapError(err error) error {
	if s == nil || err == nil {
		return err
	}
	return SampledError{err: err, sampler: s}
}

// WarnSampled logs err at warning level, unless it is a SampledError whose
// occurrence was not sampled.
func WarnSampled(logger log.Logger, msg string, err error, keyvals ...interface{}) {
	var sampled SampledError
	if errors.As(err, &sampled) {
		ok, reason := sampled.ShouldLog()
		if !ok {
			return
		}
		if reason != "" {
			keyvals = append(keyvals, "sampled", reason)
		}
	}
	kvs := append([]interface{}{"msg", msg, "err", err}, keyvals...)
	level.Warn(logger).Log(kvs...)
}
