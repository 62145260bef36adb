package hid

// ReportDescriptor is the HID report descriptor for a one-button relative
// mouse. It must be registered with the transport byte-for-byte before
// advertising starts; hosts parse it to learn the 3-byte input report layout
// (1 button byte, dx, dy). Protocol compatibility artifact, do not edit.
//
// Input report (no report ID):
//
//	byte 0: bit 0 = left button, bits 1-7 constant padding
//	byte 1: dx, signed 8-bit relative
//	byte 2: dy, signed 8-bit relative
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Buttons)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x01, //     Usage Maximum (Button 1)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x02, //     Input (Data, Variable, Absolute)
	0x75, 0x07, //     Report Size (7)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x03, //     Input (Constant) -- button byte padding
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0xC0, //   End Collection
	0xC0, // End Collection
}
