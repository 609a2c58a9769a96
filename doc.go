// Package uuidrange analyzes, generates and enumerates RFC-4122 UUIDs, with
// particular depth on version 1: it decodes the embedded 60-bit timestamp,
// classifies version and variant bit patterns (including a clearly labelled
// heuristic for DCE Security v2), and exhaustively enumerates every UUID
// between two time-ordered endpoints as a cancellable, progress-reporting
// background task streaming one UUID per line.
//
// End-users interact through the Service facade exposed by this package:
//
//	srv := uuidrange.New()
//	rec, _ := srv.Analyze(ctx, "0867d7ee-f8d5-11ef-8a38-aedb2c11800f", "")
//	id, _ := srv.StartRangeGeneration(ctx, startUUID, endUUID)
//	task, _ := srv.GetTaskStatus(ctx, id)
//
// Analysis is synchronous and stateless; only range generation performs
// blocking I/O, always off the request path.  See the sub-packages for the
// codec, analyzer, enumerator and task engine.
package uuidrange
