// Package progress keeps the running counters of a single range-generation
// task.  The tracker is owned by the worker that produces the output; status
// pollers receive value snapshots so reads never block the producer.
package progress
