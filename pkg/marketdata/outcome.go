package marketdata

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	ModelIntraday = "intraday"
	ModelDaily    = "daily"
)

// FetchError is the failure half of an Outcome. Message is the underlying
// transport, status or decode error.
type FetchError struct {
	Endpoint string
	Message  string
}

func (e *FetchError) Error() string {
	return e.Endpoint + ": " + e.Message
}

// Outcome is the result of a single source call. Exactly one of Payload and
// Err is set.
type Outcome struct {
	Endpoint string
	Payload  json.RawMessage
	Err      error
}

func Ok(endpoint string, payload json.RawMessage) Outcome {
	return Outcome{Endpoint: endpoint, Payload: payload}
}

func Failed(endpoint string, err error) Outcome {
	if err == nil {
		err = errors.New("unknown error")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		fe = &FetchError{Endpoint: endpoint, Message: err.Error()}
	}

	return Outcome{Endpoint: endpoint, Err: fe}
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message returns the failure message without the endpoint prefix.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}

	var fe *FetchError
	if errors.As(o.Err, &fe) {
		return fe.Message
	}
	return o.Err.Error()
}

// Snapshot identifies which recorded data a source should return.
type Snapshot struct {
	Date string
	Slot string
}

func (s Snapshot) Model() string {
	if s.Slot != "" {
		return ModelIntraday
	}
	return ModelDaily
}

type Source interface {
	Name() string
	Fetch(ctx context.Context, snap Snapshot) Outcome
}
