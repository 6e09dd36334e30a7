package attribute

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidKey is returned for keys that fail namespace/name validation.
	ErrInvalidKey = errors.New("invalid attribute key")

	// ErrInvalidKind is returned for unsupported value kinds.
	ErrInvalidKind = errors.New("invalid attribute kind")

	// ErrKindMismatch is returned when a stored value has a different kind
	// than the one requested.
	ErrKindMismatch = errors.New("attribute kind mismatch")
)

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)
	namePattern      = regexp.MustCompile(`^[a-z0-9/._-]+$`)
)

// Key addresses one attribute: a namespace (usually the owning plugin)
// plus a name.
type Key struct {
	Namespace string
	Name      string
}

// NewKey validates and builds a Key.
func NewKey(namespace, name string) (Key, error) {
	k := Key{Namespace: namespace, Name: name}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Validate checks both parts against the allowed character sets.
func (k Key) Validate() error {
	if !namespacePattern.MatchString(k.Namespace) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidKey, k.Namespace)
	}
	if !namePattern.MatchString(k.Name) {
		return fmt.Errorf("%w: name %q", ErrInvalidKey, k.Name)
	}
	return nil
}

func (k Key) String() string { return k.Namespace + ":" + k.Name }
