// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool_test

import (
	"fmt"
	"testing"

	"github.com/petenewcomb/rvpool-go"
)

func BenchmarkSum(b *testing.B) {
	input := make([]uint32, 1<<22)
	for i := range input {
		input[i] = 1
	}

	b.Run("serial", func(b *testing.B) {
		for b.Loop() {
			if _, err := rvpool.SumSerial(input); err != nil {
				b.Fatal(err)
			}
		}
	})

	pool, err := rvpool.NewPool(rvpool.DefaultWorkerCount())
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Shutdown()

	for _, k := range []int{1, 2, 4, 8, 16, 32} {
		b.Run(fmt.Sprintf("tasks=%d", k), func(b *testing.B) {
			for b.Loop() {
				if _, err := rvpool.Sum(pool, input, k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
