package storage

// ResetCache is the test-only hook for clearing the process-wide cached
// handle between cases. It is deliberately unexported in store.go so
// production code cannot reach it.
var ResetCache = resetCache
