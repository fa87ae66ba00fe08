package port

// Task is a single unit of scan work: one port on one target.
// It is created at dispatch and consumed by exactly one worker.
type Task struct {
	Target string
	Port   uint16
}

// Outcome reports whether a probed port accepted a connection.
// All failure modes collapse to Open == false.
type Outcome struct {
	Port uint16
	Open bool
}
