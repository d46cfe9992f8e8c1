/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package rng provides the single seeded pseudo-random source solmutate
// draws from. Cryptographic strength is explicitly not required (spec §9):
// the only guarantee that matters is that the same seed reproduces the same
// stream, so two runs with identical (AST, algorithms, seed, count) produce
// byte-identical mutants in the same order.
package rng

import "math/rand"

// Source is the sole source of non-determinism in solmutate. It wraps
// math/rand.Rand so that every caller draws from the same reproducible
// stream instead of reaching for the unseeded global source.
type Source struct {
	r *rand.Rand
}

// New creates a Source seeded with the given 64-bit seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}

// Int63 returns a pseudo-random non-negative int64.
func (s *Source) Int63() int64 {
	return s.r.Int63()
}

// Shuffle pseudo-randomly permutes n elements via swap(i, j).
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Perm returns a pseudo-random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.r.Perm(n)
}

// Pick returns a pseudo-random element of a non-empty slice of indices
// together with the remaining indices, useful for sampling-without-
// replacement loops in the mutation generator.
func (s *Source) Pick(candidates []int) (picked int, rest []int) {
	i := s.Intn(len(candidates))
	picked = candidates[i]
	rest = make([]int, 0, len(candidates)-1)
	rest = append(rest, candidates[:i]...)
	rest = append(rest, candidates[i+1:]...)

	return picked, rest
}
