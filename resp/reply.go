package resp

import "fmt"

// ReadValue assembles one complete top-level reply value from f, driving the
// Framer and Parse together the way the teacher's meta/reader.go ReadResponse
// drives a size-then-body read in one pass. It implements spec §4.4's
// parse-driven transition table end to end for a single reply, including the
// two-line error case and full multi-bulk accumulation — nesting is not
// required by this protocol version, so a multi-bulk element is read as a
// bulk header directly rather than by recursing into ReadValue.
//
// Elements are appended to the multi-bulk buffer in arrival order. The
// spec's reference actor conses new elements onto the front of a list and
// reverses it at delivery; a plain append produces the identical final order
// without that extra step.
func ReadValue(f *Framer) (Value, error) {
	line, err := f.ReadLine()
	if err != nil {
		return Value{}, err
	}

	ev, _, err := Parse(StateHeader, line)
	if err != nil {
		return Value{}, err
	}

	switch ev.Kind {
	case EventScalar:
		return ev.Value, nil

	case EventErrorHead:
		textLine, err := f.ReadLine()
		if err != nil {
			return Value{}, err
		}
		textEv, _, err := Parse(StateErrorText, textLine)
		if err != nil {
			return Value{}, err
		}
		return textEv.Value, nil

	case EventBulkNil:
		return Nil(), nil
	case EventBulkZero:
		return Bulk([]byte{}), nil
	case EventBulkN:
		body, err := f.ReadCounted(ev.N)
		if err != nil {
			return Value{}, err
		}
		return Bulk(append([]byte{}, body...)), nil

	case EventMultiNil:
		return Nil(), nil
	case EventMultiZero:
		return MultiBulk(nil), nil
	case EventMultiN:
		return readMultiBulkElements(f, ev.N)

	default:
		return Value{}, &MalformedError{Reason: fmt.Errorf("resp: unexpected top-level event %v", ev.Kind)}
	}
}

// readMultiBulkElements reads exactly n Bulk/Nil elements, per spec §3's "a
// multi-bulk contains only Bulk or Nil" restriction.
func readMultiBulkElements(f *Framer, n int) (Value, error) {
	buffer := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		line, err := f.ReadLine()
		if err != nil {
			return Value{}, err
		}
		ev, _, err := Parse(StateHeader, line)
		if err != nil {
			return Value{}, err
		}
		switch ev.Kind {
		case EventBulkNil:
			buffer = append(buffer, Nil())
		case EventBulkZero:
			buffer = append(buffer, Bulk([]byte{}))
		case EventBulkN:
			body, err := f.ReadCounted(ev.N)
			if err != nil {
				return Value{}, err
			}
			buffer = append(buffer, Bulk(append([]byte{}, body...)))
		default:
			return Value{}, &MalformedError{Reason: fmt.Errorf("resp: multi-bulk element must be bulk or nil, got %v", ev.Kind)}
		}
	}
	return MultiBulk(buffer), nil
}
