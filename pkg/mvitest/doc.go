// Package mvitest provides testing helpers for mvi containers.
//
// # Recording Collector Output
//
// A Recorder is a thread-safe sink for values produced on collector
// goroutines:
//
//	names := mvitest.NewRecorder[string]()
//	mvi.CollectChangesOf(col, func(s State) string { return s.Name }, names.Record)
//	names.WaitLen(t, 1)
//
// # States and Events
//
//	states := mvitest.RecordStates(t, c.UIState())
//	c.UpdateState(inc)
//	states.WaitFor(t, func(v []State) bool { return v[len(v)-1].Count == 1 })
//
//	toast := mvitest.NextEvent(t, c.UIEvent())
//
// Every wait fails the test after DefaultTimeout.
package mvitest
