// Package latest tags asynchronous requests with the input they were issued
// for, so a result that arrives after the input moved on can be dropped.
// Nothing is cancelled; late results are simply recognised and ignored.
package latest

// Ticket identifies one issued request.
type Ticket[T comparable] struct {
	Seq    uint64
	Target T
}

// Tracker records the most recently accepted input. The zero value is ready
// to use. It is not safe for concurrent use; it is meant to live inside a
// single Update loop.
type Tracker[T comparable] struct {
	seq     uint64
	current T
	set     bool
}

// Issue accepts target as the latest input and returns a ticket for it.
func (t *Tracker[T]) Issue(target T) Ticket[T] {
	t.seq++
	t.current = target
	t.set = true
	return Ticket[T]{Seq: t.seq, Target: target}
}

// Current returns the latest accepted input.
func (t *Tracker[T]) Current() (T, bool) {
	return t.current, t.set
}

// Matches reports whether the ticket targets the latest accepted input,
// regardless of which request issued it.
func (t *Tracker[T]) Matches(k Ticket[T]) bool {
	return t.set && k.Target == t.current
}

// IsCurrent reports whether k is the most recently issued ticket.
func (t *Tracker[T]) IsCurrent(k Ticket[T]) bool {
	return t.set && k.Seq == t.seq
}
