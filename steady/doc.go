// Package steady implements the client core of the steady-view feature:
// it fans position-offset samples from an external stabilization service
// out to a set of attached consumers, auto-reverts offsets after
// inactivity, and forwards the service's metadata handshake at a bounded
// rate. The service link (Connection), the sample channel (EventSource)
// and the rendering side (Consumer) are collaborator interfaces.
package steady
