package tooldoc

import (
	"testing"
)

func BenchmarkDescribe_Summary(b *testing.B) {
	e := lbEntry()
	for b.Loop() {
		_, _ = Describe(e, DetailSummary)
	}
}

func BenchmarkDescribe_Full(b *testing.B) {
	e := lbEntry()
	for b.Loop() {
		_, _ = Describe(e, DetailFull)
	}
}
