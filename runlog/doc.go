// Package runlog keeps a SQLite log of quantization runs.
//
// Each Run stores the backend, attempt count, gap and total objective of a
// quantization, with the evaluator report and the solver statistics as JSON
// documents. The store uses the pure-Go modernc.org/sqlite driver; ":memory:"
// opens a private in-memory log.
package runlog
