// Package bloom provides probabilistic seen-URL tracking for link discovery.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tracks URLs already seen while discovering links. A Bloom filter
// may report a fresh URL as seen (dropping it from discovery), but never
// reports a seen URL as fresh, so results stay duplicate-free.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a filter for n expected URLs at the given false positive
// rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add marks a URL as seen.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether the URL has probably been seen.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd reports whether the URL has probably been seen and marks it
// seen in one pass.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}
