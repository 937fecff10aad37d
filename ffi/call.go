package ffi

// Call runs one boundary crossing: invoke receives a zeroed error slot, and
// the slot decides what happens to the raw payload. On failure the payload is
// discarded untouched, since the editor makes no promises about it. On
// success the payload is handed to decode.
func Call[Raw, Out any](invoke func(*Error) Raw, decode func(Raw) (Out, error)) (Out, error) {
	var slot Error
	raw := invoke(&slot)
	if slot.IsSet() {
		var zero Out
		return zero, slot.take()
	}
	return decode(raw)
}

// CallNone is Call for editor functions without a return payload.
func CallNone(invoke func(*Error)) error {
	var slot Error
	invoke(&slot)
	if slot.IsSet() {
		return slot.take()
	}
	return nil
}
