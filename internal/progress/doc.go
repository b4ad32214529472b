// Package progress mirrors scheduler task outcomes to connected dashboard
// clients over Socket.IO. It is a scheduler.Observer and nothing more: a
// scheduler runs identically whether or not a Broadcaster is subscribed.
package progress
