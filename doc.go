// Caching and single-flight coordination for expensive, externally-billed
// analysis computations (LLM analysis of code, graphs, and profiles).
//
// Each product vertical gets its own namespaced Cache through a Registry.
// On a miss, concurrent requests for the same fingerprint are collapsed into a
// single invocation of the caller-supplied compute function; every waiter
// receives the identical result. Successful results are written to a pluggable
// store backend (in-process memory or redis) with a TTL; failures are never
// persisted, so the next request retries fresh.
package analysiscache
