// Derives stable cache keys for analysis results.
//
// A key binds together the namespace (product vertical), the analysis kind,
// the canonicalized input content, and the version tag of the prompt or
// algorithm that produced the analysis. Bumping the version tag changes every
// key for that kind, so results computed under an old prompt are never served.
//
// Callers are responsible for canonicalizing input content (ordering,
// whitespace) before hashing; this package only encodes exactly what it is
// given.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"net/url"
)

// Key returns the cache key for the given analysis input. It is deterministic
// and never fails.
//
// Keys are formatted as "<namespace>/<kind>/<hex digest>" so that every key in
// a namespace shares a literal string prefix, which the store backends rely on
// for namespace-wide invalidation. The namespace and kind segments are
// path-escaped, so a "/" inside either cannot make one namespace's keys look
// like another's.
func Key(namespace, kind string, input []byte, version string) string {
	h := sha256.New()
	writeField(h.Write, []byte(namespace))
	writeField(h.Write, []byte(kind))
	writeField(h.Write, input)
	writeField(h.Write, []byte(version))
	return url.PathEscape(namespace) + "/" + url.PathEscape(kind) + "/" + hex.EncodeToString(h.Sum(nil))
}

// NamespacePrefix returns the key prefix shared by every key in a namespace.
// All prefix matching against keys must go through this, never a hand-built
// "namespace + /", or escaped segments won't line up.
func NamespacePrefix(namespace string) string {
	return url.PathEscape(namespace) + "/"
}

// Each field is length-prefixed before hashing, so adjacent fields can never
// collide by shifting bytes across a boundary ("ab"+"c" vs "a"+"bc").
func writeField(w func([]byte) (int, error), field []byte) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(field)))
	w(buf[:])
	w(field)
}
