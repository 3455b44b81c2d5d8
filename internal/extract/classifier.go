package extract

import (
	"context"
	"errors"
	"strings"
)

type errorClass int

const (
	classFatal errorClass = iota
	classRateLimit
	classTransient
)

var transientIndicators = []string{
	"timeout",
	"connection",
	"network",
	"temporary",
	"unavailable",
	"service",
	"502",
	"503",
	"504",
	"gateway",
}

// classify buckets a model-call failure by its message text, the only
// signal the providers expose. Rate limiting wins over transient when both
// match. Evaluated fresh on every attempt.
func classify(err error) errorClass {
	if err == nil {
		return classFatal
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate") {
		return classRateLimit
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return classTransient
	}
	for _, indicator := range transientIndicators {
		if strings.Contains(msg, indicator) {
			return classTransient
		}
	}

	return classFatal
}

// label is the human-readable class name used in error records.
func (c errorClass) label() string {
	switch c {
	case classRateLimit:
		return "Rate limit"
	case classTransient:
		return "Transient error"
	default:
		return "Fatal"
	}
}

// metricLabel is the class name used for the retry counter.
func (c errorClass) metricLabel() string {
	switch c {
	case classRateLimit:
		return "rate_limit"
	case classTransient:
		return "transient"
	default:
		return "fatal"
	}
}
