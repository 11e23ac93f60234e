// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/petenewcomb/rvpool-go"
)

// Sums the integers 1 through 1,000,000 with four chunk tasks.
func Example_sum() {
	pool, err := rvpool.NewPool(rvpool.DefaultWorkerCount())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Shutdown()

	input := make([]uint32, 1_000_000)
	for i := range input {
		input[i] = uint32(i + 1)
	}

	sum, err := rvpool.Sum(pool, input, 4)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sum)
	// Output: 500000500000
}

// Counts words with a generic reduction over three chunks.
func Example_reduce() {
	pool, err := rvpool.NewPool(2)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Shutdown()

	text := "a rendezvous barrier lets every chunk finish before the fold"
	words := strings.Fields(text)

	count, err := rvpool.Reduce(pool, words, 3,
		func(chunk []string) (int, error) {
			return len(chunk), nil
		},
		func(left, right int) (int, error) {
			return left + right, nil
		},
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(count)
	// Output: 10
}
