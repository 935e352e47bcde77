package ecs

import (
	"reflect"
	"sync"
)

// TypeKey is a runtime token uniquely identifying a concrete Go type.
// Tokens are dense, assigned monotonically on first reference through
// KeyOf, and are shared process-wide so that two worlds agree on them.
type TypeKey uint32

// InvalidTypeKey is the zero token; KeyOf never returns it.
const InvalidTypeKey TypeKey = 0

var typeRegistry = struct {
	mu     sync.Mutex
	byType map[reflect.Type]TypeKey
	names  []string
}{
	byType: make(map[reflect.Type]TypeKey),
	names:  []string{"<invalid>"},
}

// KeyOf returns the token for T, minting one on first reference.
func KeyOf[T any]() TypeKey {
	t := reflect.TypeFor[T]()
	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()
	if key, ok := typeRegistry.byType[t]; ok {
		return key
	}
	key := TypeKey(len(typeRegistry.names))
	typeRegistry.byType[t] = key
	typeRegistry.names = append(typeRegistry.names, t.String())
	return key
}

// String returns the Go type name the token was minted for.
func (k TypeKey) String() string {
	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()
	if int(k) < len(typeRegistry.names) {
		return typeRegistry.names[k]
	}
	return "<unknown>"
}
