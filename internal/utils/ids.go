package utils

import (
	"github.com/google/uuid"
)

// instanceNamespace scopes the deterministic ids of generated daily instances.
var instanceNamespace = uuid.MustParse("6f1c7a52-4d0e-4b7a-9c1e-2a8f3e5d9b10")

// NewID returns a random identifier for a new document.
func NewID() string {
	return uuid.NewString()
}

// InstanceID returns the identifier of the instance generated from templateID
// on dateKey. The same pair always yields the same id, so a second writer
// collides with the first instead of creating a duplicate.
func InstanceID(templateID, dateKey string) string {
	return uuid.NewSHA1(instanceNamespace, []byte(templateID+"|"+dateKey)).String()
}
