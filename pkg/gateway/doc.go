// Package gateway implements the single-session completion gateway.
//
// The gateway owns exactly one conversational session at a time. Clients
// cannot touch the session directly; they can only ask for a completion
// (Generate) or a wholesale replacement of the session (Reset). A mutex
// inside the gateway guarantees at most one generation in flight, which
// is what keeps a shared conversational context coherent.
//
// Two busy policies exist for a completion that arrives mid-generation:
// "queue" (the default) waits its turn, "reject" fails fast with
// ErrSessionBusy so the HTTP layer can answer 503 immediately.
package gateway
