// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package infer

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var inferTracer = otel.Tracer("cssr.infer")

var (
	metricsOnce sync.Once

	runCounter      metric.Int64Counter
	splitCounter    metric.Int64Counter
	stateHistogram  metric.Int64Histogram
	runDurationHist metric.Float64Histogram
)

// initMetrics lazily creates the instruments on first use so packages that
// never run inference pay nothing.
func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter("cssr.infer")

		runCounter, _ = meter.Int64Counter("cssr.infer.runs",
			metric.WithDescription("Completed inference runs by outcome"))
		splitCounter, _ = meter.Int64Counter("cssr.infer.splits",
			metric.WithDescription("State splits across refinement and determinization"))
		stateHistogram, _ = meter.Int64Histogram("cssr.infer.states",
			metric.WithDescription("Final causal state count per run"))
		runDurationHist, _ = meter.Float64Histogram("cssr.infer.duration_seconds",
			metric.WithDescription("Wall-clock inference duration"),
			metric.WithUnit("s"))
	})
}

func recordRun(ctx context.Context, outcome string, states, splits int, seconds float64) {
	initMetrics()
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	runCounter.Add(ctx, 1, attrs)
	if outcome == "ok" {
		splitCounter.Add(ctx, int64(splits))
		stateHistogram.Record(ctx, int64(states))
		runDurationHist.Record(ctx, seconds)
	}
}
