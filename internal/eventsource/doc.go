// Package eventsource coordinates writes to the event log and delivery to
// read models.
//
// Source.Update is the only path by which events enter the system. It appends
// the model to the event store first and then hands it to every registered
// Observer in registration order, so an event is durable before any read
// model sees it. A failure during fan-out never loses the event; it only
// leaves the failing observer behind until it is caught up again.
//
// Thread-safety model:
//   - Update and the catch-up methods hold one mutex for the append and the
//     whole fan-out, so every observer sees events in log order.
//   - Register is safe from any goroutine.
//
// Failure policy (see FailurePolicy):
//   - IsolateFailures: every observer is notified; failures are logged,
//     counted and returned together in a *FanOutError.
//   - AbortOnFailure: notification stops at the first failure; the error
//     reports which observers were skipped.
package eventsource
