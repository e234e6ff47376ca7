// Key/value backends for cached analysis results, with expiry and bulk
// invalidation by namespace.
//
// Includes an interface and implementations using redis and in-process memory.
// Values are opaque bytes produced and consumed by the calling vertical's
// schema layer; the store never inspects payload structure.
package store
