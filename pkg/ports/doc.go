/*
Package ports defines the driven ports (interfaces) of the pulse simulator.

These interfaces decouple the simulation core from where module definitions
come from, where answers are memoised and how concurrent replicas coordinate.

# Key Interfaces

  - GraphLoader: Loads module definitions (e.g., from a file, Loam or memory).
  - ResultCache: Memoises query answers keyed by graph content and query.
  - DistributedLocker: Lets replicas agree on who computes a missing answer.
  - Simulator: The driving surface used by the HTTP and MCP adapters.
*/
package ports
