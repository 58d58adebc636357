// Package task runs background work in-process: a bounded TaskQueue feeds a
// WorkerPool, and EmailDispatcher turns outgoing account emails into tasks.
package task
