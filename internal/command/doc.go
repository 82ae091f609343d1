// Package command dispatches the closed Heima command vocabulary.
//
// Every request is validated in full before any state is touched: an
// unknown command yields ErrUnsupportedCommand and a bad target or
// parameter yields ErrInvalidCommand, both with nothing written. Accepted
// commands are recorded in the audit trail and, except notify_event,
// schedule an evaluation cycle.
package command
