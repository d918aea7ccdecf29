/*
Package domain contains the core domain models of the pulsegraph simulator.

It defines the values exchanged between the loaders, the simulation runtime and
the adapters: module definitions, pulses, pulse counts, query results and the
lifecycle hooks used for observability. This package is kept pure and free of
I/O, following the same Hexagonal Architecture split as the rest of the module.

# Key Entities

  - ModuleSpec: A parsed module definition (name, kind, ordered outputs).
  - Pulse: A low or high signal travelling from one module to another.
  - Counts: Low/high pulse totals accumulated over one or more button presses.
  - BoundedResult / TargetResult: Answers to the two supported queries.
  - LifecycleHooks: Callbacks fired by the runtime for logging and metrics.
*/
package domain
