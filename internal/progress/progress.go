// Package progress decouples the OperationExecutor (and DiffEngine scan)
// from the terminal renderer via an event bus, per §5's requirement that
// UI updates are driven by discrete progress events rather than the
// worker logic polling a shared counter.
//
// The teacher (FolderChecksum) has no UI layer at all — fileCheckWorker
// and dbUpdateWorker in worker.go simply print directly to cfg.outFile
// with fmt.Fprintln. This package is grounded on rolldone/make-sync's use
// of asaskevich/EventBus to publish worker progress to a separate
// rendering goroutine, generalized so the render package can subscribe
// without opexec/diffengine importing it back.
package progress

import EventBus "github.com/asaskevich/EventBus"

// Topics are the fixed event channel names published during a run.
const (
	TopicScanned   = "backuptools:scanned"   // one read pattern was expanded while diffing (Path: the pattern, Bytes: the number of paths found)
	TopicOperation = "backuptools:operation" // one addition/modification/rename/deletion was applied
	TopicDone      = "backuptools:done"      // the run (diff or apply) has finished
)

// Kind classifies an Event published on TopicOperation.
type Kind string

const (
	KindAddition     Kind = "addition"
	KindModification Kind = "modification"
	KindRename       Kind = "rename"
	KindDeletion     Kind = "deletion"
	KindWarning      Kind = "warning"
)

// Event is the payload carried on every topic.
type Event struct {
	Kind    Kind
	Path    string
	Bytes   int64
	Message string
}

// Publisher wraps an EventBus.Bus with the fixed topic set above.
type Publisher struct {
	bus EventBus.Bus
}

// New returns a ready Publisher with no subscribers.
func New() *Publisher {
	return &Publisher{bus: EventBus.New()}
}

// Subscribe registers fn to receive every Event published on topic.
func (p *Publisher) Subscribe(topic string, fn func(Event)) error {
	return p.bus.SubscribeAsync(topic, fn, false)
}

// Publish fires ev on topic. Safe to call with no subscribers.
func (p *Publisher) Publish(topic string, ev Event) {
	p.bus.Publish(topic, ev)
}

// WaitAsync blocks until every asynchronous subscriber has drained its
// queue, used before the process exits so no progress line is lost.
func (p *Publisher) WaitAsync() {
	p.bus.WaitAsync()
}
