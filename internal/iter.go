// Package internal holds iterator helpers shared by the machine and the
// emulator.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Sorted iterates over a map in key order.
func Sorted[K cmp.Ordered, V any](table map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range slices.Sorted(maps.Keys(table)) {
			if !yield(key, table[key]) {
				return
			}
		}
	}
}

// Concat2 chains dual-value iterators, one after another.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
