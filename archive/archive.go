// Package archive serializes foundation objects to CBOR.
//
// Every archived object is a two-field record naming its class and carrying
// a class-specific value. Arrays nest records for their elements. Decoding
// constructs fresh objects through the runtime, so a record that fails a
// class's init surfaces as object.ErrConstruction.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/objective/foundation"
	"github.com/chazu/objective/object"
	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
)

// ErrUnsupported is returned for objects whose class has no archive format.
var ErrUnsupported = errors.New("archive: unsupported class")

func logger() commonlog.Logger {
	return commonlog.GetLogger("objective.archive")
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("archive: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// record is the wire form of one object.
type record struct {
	Class string          `cbor:"class"`
	Value cbor.RawMessage `cbor:"value"`
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// Marshal encodes o and, for arrays, everything it contains.
func Marshal(o *object.Object) ([]byte, error) {
	r, err := encode(o)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(r)
}

// archivable lists the classes with a wire format, most derived first. An
// instance of any other subclass is archived as its nearest listed ancestor.
var archivable = []*object.Class{
	foundation.MutableStringClass,
	foundation.StringClass,
	foundation.IndexPathClass,
	foundation.DateClass,
	foundation.ArrayClass,
}

// archivedClass returns the class o is archived as, or nil.
func archivedClass(o *object.Object) *object.Class {
	for _, c := range archivable {
		if object.IsKind(o, c) {
			return c
		}
	}
	return nil
}

func encode(o *object.Object) (*record, error) {
	class := archivedClass(o)

	var value any
	switch class {
	case foundation.StringClass, foundation.MutableStringClass:
		s, _ := foundation.AsString(o)
		value = s.Chars()
	case foundation.IndexPathClass:
		p, _ := foundation.AsIndexPath(o)
		value = p.Indexes()
	case foundation.DateClass:
		d, _ := foundation.AsDate(o)
		value = d.Time().UnixMicro()
	case foundation.ArrayClass:
		a, _ := foundation.AsArray(o)
		elems := a.Objects()
		records := make([]*record, len(elems))
		for i, e := range elems {
			r, err := encode(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			records[i] = r
		}
		value = records
	default:
		logger().Debugf("cannot archive %s", o)
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, o.ClassName())
	}
	if class != o.Class() {
		logger().Debugf("archiving %s as %s", o.ClassName(), class.Name)
	}

	raw, err := encMode.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("archive: marshal %s: %w", o.ClassName(), err)
	}
	return &record{Class: class.Name, Value: raw}, nil
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// Unmarshal decodes an object archived by Marshal. The caller owns the
// whole decoded graph and releases it with Destroy.
func Unmarshal(data []byte) (*object.Object, error) {
	var r record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("archive: unmarshal: %w", err)
	}
	return decode(&r)
}

func decode(r *record) (*object.Object, error) {
	switch r.Class {
	case foundation.StringClass.Name, foundation.MutableStringClass.Name:
		var chars string
		if err := unmarshalValue(r, &chars); err != nil {
			return nil, err
		}
		if r.Class == foundation.MutableStringClass.Name {
			return object.New(foundation.MutableStringClass, chars)
		}
		return object.New(foundation.StringClass, chars)

	case foundation.IndexPathClass.Name:
		var indexes []int
		if err := unmarshalValue(r, &indexes); err != nil {
			return nil, err
		}
		return object.NewWith(foundation.IndexPathClass, "initWithIndexes", indexes)

	case foundation.DateClass.Name:
		var micros int64
		if err := unmarshalValue(r, &micros); err != nil {
			return nil, err
		}
		return object.NewWith(foundation.DateClass, "initWithTime", time.UnixMicro(micros).UTC())

	case foundation.ArrayClass.Name:
		var records []*record
		if err := unmarshalValue(r, &records); err != nil {
			return nil, err
		}
		return decodeArray(records)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, r.Class)
}

func unmarshalValue(r *record, v any) error {
	if err := cbor.Unmarshal(r.Value, v); err != nil {
		return fmt.Errorf("archive: unmarshal %s: %w", r.Class, err)
	}
	return nil
}

// decodeArray builds the elements first. If any element or the array itself
// fails, everything built so far is destroyed.
func decodeArray(records []*record) (*object.Object, error) {
	elems := make([]*object.Object, 0, len(records))
	cleanup := func() {
		for _, e := range elems {
			Destroy(e)
		}
	}
	for i, r := range records {
		e, err := decode(r)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems = append(elems, e)
	}
	arr, err := foundation.NewArray(elems...)
	if err != nil {
		cleanup()
		return nil, err
	}
	return arr.Object, nil
}

// Destroy releases a graph returned by Unmarshal, descending into arrays.
func Destroy(o *object.Object) {
	if a, err := foundation.AsArray(o); err == nil {
		for _, e := range a.Objects() {
			Destroy(e)
		}
	}
	object.Destroy(o)
}
