package storage

import "time"

// Operation names reported to an Observer.
const (
	OpPut     = "put"
	OpCopy    = "copy"
	OpList    = "list"
	OpDelete  = "delete"
	OpPresign = "presign"
)

// Observer is notified after every provider operation.
type Observer interface {
	ObserveOperation(provider ProviderID, op string, took time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(provider ProviderID, op string, took time.Duration, err error)

// ObserveOperation implements Observer.
func (f ObserverFunc) ObserveOperation(provider ProviderID, op string, took time.Duration, err error) {
	f(provider, op, took, err)
}
