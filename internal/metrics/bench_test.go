package metrics

import "testing"

// BenchmarkCollector_BuildStarted measures the overhead of recording a
// build (atomic add plus timestamp).
func BenchmarkCollector_BuildStarted(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.BuildStarted()
	}
}

// BenchmarkCollector_Snapshot measures the cost of taking a snapshot.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := New()
	c.BuildStarted()
	c.InstanceCreated(8)
	c.BuildFailed("test")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}

// BenchmarkNilCollector verifies nil-safe no-ops have zero overhead.
func BenchmarkNilCollector(b *testing.B) {
	var c *Collector
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.BuildStarted()
		c.InstanceCreated(8)
		c.BuildFailed("test")
	}
}
