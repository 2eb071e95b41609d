// Package order holds the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root with items, parties, locations and history
//   - Status, Actor, Action: the vocabulary of the lifecycle
//   - Plan/Apply: the transition table shared by customers, shops and partners
//   - StatusChanged, OrderCreated: events emitted after persistence
//
// Plan never mutates; Apply mutates only the in-memory copy. Persisting is the job
// of a conditional update in the store, keyed on Transition.From and, for partner
// assignment, on the order having no partner.
package order
