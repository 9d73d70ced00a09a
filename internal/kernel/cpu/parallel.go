package cpu

import "github.com/latticeforge/symten/internal/parallel"

// runParallel runs f(i) for i in [0, n) using the backend's parallel
// config, falling back to sequential execution below the chunk-size
// threshold exactly as internal/parallel.For does.
func runParallel(b *Backend, n int, f func(i int)) {
	parallel.For(n, f, b.par)
}
