// Package link implements the directed, latency-carrying channel between two
// LPs (or an LP and itself).
package link

import "github.com/pholdsim/phold/pkg/phevent"

// Inbox is satisfied by whatever owns the destination LP's pending-event
// queue (a scheduler partition). Link code has no knowledge of partitioning;
// it only knows how to compute an arrival time and hand the event off.
type Inbox interface {
	// Enqueue accepts an event addressed to toID, arriving at the given
	// virtual time. The implementation assigns the enqueue sequence used to
	// break arrival-time ties.
	Enqueue(toID int, arrival float64, ev phevent.Event)
}

// Link is a directed connection from one LP to another (or to itself).
// Latency is zero for self-links; the caller of a self-link must include the
// lookahead in the delay argument itself.
type Link struct {
	From, To int
	Latency  float64
	Inbox    Inbox
}

// New constructs a Link from "from" to "to" with the given fixed latency,
// delivering into inbox.
func New(from, to int, latency float64, inbox Inbox) *Link {
	return &Link{From: from, To: to, Latency: latency, Inbox: inbox}
}

// Send schedules ev for delivery. For a cross-LP link the arrival time is
// now + Latency + delay; for a self-link (Latency == 0 by construction) it is
// now + delay, where the caller already folded the lookahead into delay.
func (l *Link) Send(now, delay float64, ev phevent.Event) {
	arrival := now + l.Latency + delay
	l.Inbox.Enqueue(l.To, arrival, ev)
}
