// Package services provides domain services that orchestrate business operations
// across the order aggregate in the fulfillment system. It implements workflows
// that don't naturally belong to a single entity.
//
// The package includes:
//   - Workflow: the engine that interprets the declarative transition table,
//     fires auto transitions, runs transition effects, and reports the executed
//     transitions for the post-commit observer fan-out
//   - PaymentWorkflow, SimpleShippingWorkflow, PartialShippingWorkflow, and
//     CancellationWorkflow: the policies contributing transitions to the engine
//
// Exactly one shipping policy is composed into the engine per deployment; the
// choice is made once at application configuration and injected through the
// engine constructor rather than through inheritance-style mixing.
package services
