package transform

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// DecodeFunc rebuilds a step from the documents returned by Step.Encode.
type DecodeFunc func(config, state []byte, opts ...StepOption) (Step, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]DecodeFunc{
		MinMaxScalerKind:   decodeMinMaxScaler,
		OrdinalEncoderKind: decodeOrdinalEncoder,
		OneHotEncoderKind:  decodeOneHotEncoder,
		RounderKind:        decodeRounder,
	}
)

// Register makes a custom step kind decodable.
func Register(kind string, fn DecodeFunc) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[kind]; ok {
		return errors.Wrapf(ErrKindRegistered, "%q", kind)
	}
	registry[kind] = fn

	return nil
}

// Decode rebuilds a step of the given kind. Every failure matches ErrSerialization.
func Decode(kind string, config, state []byte, opts ...StepOption) (Step, error) {
	registryMu.RLock()
	fn, ok := registry[kind]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}

	step, err := fn(config, state, opts...)
	if errors.Is(err, ErrSerialization) {
		return nil, errors.Wrapf(err, "unable to decode %s", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrSerialization, "unable to decode %s: %v", kind, err)
	}

	return step, nil
}

// Marshal encodes v with sorted map keys so equal values give equal bytes.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	err := enc.Encode(v)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode")
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data produced by Marshal. Failures match ErrSerialization.
func Unmarshal(data []byte, v interface{}) error {
	err := msgpack.Unmarshal(data, v)
	if err != nil {
		return errors.Wrapf(ErrSerialization, "%v", err)
	}

	return nil
}

// encodeStep marshals a configuration and an optional state. A nil state pointer
// encodes as a msgpack nil and decodes back to an unfitted step.
func encodeStep(config, state interface{}) ([]byte, []byte, error) {
	cfg, err := Marshal(config)
	if err != nil {
		return nil, nil, errors.Wrap(err, "config")
	}

	st, err := Marshal(state)
	if err != nil {
		return nil, nil, errors.Wrap(err, "state")
	}

	return cfg, st, nil
}
