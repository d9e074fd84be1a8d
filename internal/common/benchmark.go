package common

import (
	"time"

	"go.uber.org/zap"
)

type Benchmarker struct {
	logger *zap.Logger
	start  time.Time
	label  string
}

func RuntimeBenchmark[T any](logger *zap.Logger, label string, functionUnderTest func() (T, error)) (T, error) {
	start := time.Now()
	result, err := functionUnderTest()
	logger.Debug("benchmark", zap.String("label", label), zap.Duration("elapsed", time.Since(start)), zap.Bool("failed", err != nil))
	return result, err
}

func NewBenchmarker(logger *zap.Logger, label string) *Benchmarker {
	return &Benchmarker{logger: logger, start: time.Now(), label: label}
}

// Close logs the elapsed time and returns it.
func (benchmarker *Benchmarker) Close() time.Duration {
	elapsed := time.Since(benchmarker.start)
	benchmarker.logger.Debug("benchmark", zap.String("label", benchmarker.label), zap.Duration("elapsed", elapsed))
	return elapsed
}
