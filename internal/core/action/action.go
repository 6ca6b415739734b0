// Package action contains the pool engine: the Action interface, the
// registry of action types, result codes, and the Engine that validates
// and applies actions against the pool ledger.
package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownAction is returned when an action name is not registered.
var ErrUnknownAction = errors.New("unknown action")

// Common holds the fields shared by every action.
type Common struct {
	// Action is the registered action name.
	Action string `json:"action"`

	// Account is the account the action is executed for.
	Account string `json:"account"`
}

// Action is one operation against the pool ledger. Validate checks the
// payload in isolation; Apply runs against ledger state and must leave
// no partial changes behind on failure.
type Action interface {
	Name() string
	GetCommon() *Common
	Validate() error
	Apply(ctx *ApplyContext) Result
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Action)
)

// Register makes an action constructor available to FromJSON. Called
// from init in the packages defining action types.
func Register(name string, factory func() Action) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("action %q registered twice", name))
	}
	registry[name] = factory
}

// NewFromName creates an empty action of the given registered type.
func NewFromName(name string) (Action, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return factory(), nil
}

// FromJSON decodes an action from its JSON form. The "action" field
// selects the concrete type.
func FromJSON(data []byte) (Action, error) {
	var raw struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	act, err := NewFromName(raw.Action)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, act); err != nil {
		return nil, err
	}
	return act, nil
}

// RegisteredNames returns all registered action names, sorted.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseValidationError extracts a result code from a validation error.
// Validate implementations prefix their messages with the stable code
// string, e.g. "pemBAD_PAIR: ...".
func parseValidationError(err error) Result {
	msg := err.Error()
	codes := []Result{
		PemBAD_PAIR,
		PemBAD_AMOUNT,
		PemBAD_TRADE_TYPE,
		PemBAD_SHARES_OUT,
		PemBAD_SLIPPAGE,
		PemNO_ACCOUNT,
		PemUNKNOWN_ACTION,
		PemMALFORMED,
	}
	for _, code := range codes {
		prefix := code.String()
		if strings.HasPrefix(msg, prefix) {
			if len(msg) == len(prefix) || msg[len(prefix)] == ':' || msg[len(prefix)] == ' ' {
				return code
			}
		}
	}
	return PemMALFORMED
}
