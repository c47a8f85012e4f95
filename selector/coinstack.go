// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selector

import (
	"sort"

	"github.com/varcoin-project/txcore/wtype"
)

// coinStack is an ordered map from a uint64 key (a leading digit within
// have_coins, or a raw amount within dust_coins) to a LIFO stack of
// unspents sharing that key. It stands in for the original's
// std::map<uint64_t, std::vector<api::Output>>: sorted iteration and
// lower_bound are used by the fixed-point loop and the dust pre-fill phase,
// while each leaf behaves like a vector with push_back/pop_back.
type coinStack struct {
	keys []uint64 // sorted ascending
	m    map[uint64][]wtype.UnspentOutput
}

func newCoinStack() *coinStack {
	return &coinStack{m: make(map[uint64][]wtype.UnspentOutput)}
}

func (s *coinStack) empty() bool {
	return len(s.keys) == 0
}

func (s *coinStack) count(key uint64) int {
	return len(s.m[key])
}

func (s *coinStack) push(key uint64, out wtype.UnspentOutput) {
	if _, ok := s.m[key]; !ok {
		i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
		s.keys = append(s.keys, 0)
		copy(s.keys[i+1:], s.keys[i:])
		s.keys[i] = key
	}
	s.m[key] = append(s.m[key], out)
}

// pop removes and returns the top of the stack at key, dropping the key
// entirely once its stack empties.
func (s *coinStack) pop(key uint64) wtype.UnspentOutput {
	stack := s.m[key]
	out := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(s.m, key)
		i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
		s.keys = append(s.keys[:i], s.keys[i+1:]...)
	} else {
		s.m[key] = stack
	}
	return out
}

// top returns the top of the stack at key without removing it.
func (s *coinStack) top(key uint64) wtype.UnspentOutput {
	stack := s.m[key]
	return stack[len(stack)-1]
}

// maxKey returns the largest present key, analogous to --m.end().
func (s *coinStack) maxKey() (uint64, bool) {
	if len(s.keys) == 0 {
		return 0, false
	}
	return s.keys[len(s.keys)-1], true
}

// lowerBound returns the smallest present key >= v, analogous to
// m.lower_bound(v).
func (s *coinStack) lowerBound(v uint64) (uint64, bool) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= v })
	if i == len(s.keys) {
		return 0, false
	}
	return s.keys[i], true
}

// haveCoins is have_coins: digit -> leading digit -> stack of unspents.
type haveCoins map[int]*coinStack

func (h haveCoins) maxDigitPresent() int {
	max := -1
	for d := range h {
		if d > max {
			max = d
		}
	}
	return max
}
