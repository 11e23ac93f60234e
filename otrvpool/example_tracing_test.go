// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otrvpool_test

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/petenewcomb/rvpool-go"
	"github.com/petenewcomb/rvpool-go/otrvpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Example demonstrating a traced sum whose spans are exported by the stdout
// exporter. The exporter writes to io.Discard here to keep the output stable;
// pass os.Stdout to see the spans.
func Example_tracing() {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(io.Discard), stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatal(err)
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	ctx, rootSpan := otel.Tracer("example").Start(context.Background(), "sum-request")
	defer rootSpan.End()

	pool, err := rvpool.NewPool(rvpool.DefaultWorkerCount())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Shutdown()

	input := make([]uint16, 10_000)
	for i := range input {
		input[i] = 1
	}
	sum, err := otrvpool.TracedSum(ctx, pool, input, 8)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("sum:", sum)
	// Output: sum: 10000
}
