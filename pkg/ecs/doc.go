// Package ecs provides the core Entity Component System runtime for veldt.
//
// State is organized as lightweight entities carrying typed components,
// behavior as systems advanced through a fixed lifecycle by a tick loop.
// Three managers own everything: the EventManager (type-indexed
// publish/subscribe), the EntityManager (entity and component lifetime),
// and the SystemManager (per-system state machine and scheduling). A World
// bundles the three; NewWorld is the primary entry point and Default
// provides a lazy process-wide instance.
//
// The runtime is single-threaded and cooperative: all operations complete
// synchronously and managers must not be driven from multiple goroutines
// concurrently.
package ecs
