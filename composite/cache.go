package composite

import (
	"encoding/hex"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"cibuild/internal/capability"
)

// typeCache reuses materialized types for repeated capability sets.
// Only the Type is shared; New still allocates a fresh Instance per
// Build, so instances never share slots.
type typeCache struct {
	types *lru.Cache[string, *Type]
}

func newTypeCache(size int) (*typeCache, error) {
	c, err := lru.New[string, *Type](size)
	if err != nil {
		return nil, err
	}
	return &typeCache{types: c}, nil
}

// fingerprint hashes the ordered capability set and base type.
func fingerprint(caps []reflect.Type, base reflect.Type) string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	for _, c := range caps {
		h.Write([]byte(capability.TypeID(c)))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	h.Write([]byte(capability.TypeID(base)))
	return hex.EncodeToString(h.Sum(nil))
}

// get returns the cached type for caps and base.  Distinct types that
// share a TypeID (function-local declarations) hash alike, so a hit is
// confirmed by identity before it is used.
func (c *typeCache) get(caps []reflect.Type, base reflect.Type) (*Type, bool) {
	t, ok := c.types.Get(fingerprint(caps, base))
	if !ok || t.Base != base || len(t.caps) != len(caps) {
		return nil, false
	}
	for i := range caps {
		if t.caps[i] != caps[i] {
			return nil, false
		}
	}
	return t, true
}

func (c *typeCache) put(t *Type) {
	c.types.Add(fingerprint(t.caps, t.Base), t)
}

func (c *typeCache) size() int { return c.types.Len() }
