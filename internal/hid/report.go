package hid

// ReportSize is the fixed size of a mouse input report in bytes.
const ReportSize = 3

// ButtonLeft is the bit for button 1 in the report's button byte.
const ButtonLeft = 0x01

// MouseReport is one input report as sent to the host. Constructed fresh each
// cycle, never persisted.
//
// Wire layout, matching ReportDescriptor:
//
//	byte 0: button bitmask (bit 0 = left), reserved bits zero
//	byte 1: dx as int8
//	byte 2: dy as int8
type MouseReport struct {
	Buttons uint8
	DX      int8
	DY      int8
}

// NewMouseReport builds a report from a cursor delta and the debounced
// button state.
func NewMouseReport(dx, dy int8, pressed bool) MouseReport {
	var buttons uint8
	if pressed {
		buttons = ButtonLeft
	}
	return MouseReport{Buttons: buttons, DX: dx, DY: dy}
}

// MarshalBinary encodes the report to its fixed 3-byte wire format.
func (r MouseReport) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = r.Buttons
	b[1] = byte(r.DX)
	b[2] = byte(r.DY)
	return b, nil
}
