package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMouseReportWireFormat(t *testing.T) {
	b, err := NewMouseReport(5, -3, true).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x05, 0xFD}, b)

	b, err = NewMouseReport(-20, 20, false).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xEC, 0x14}, b)
}

func TestMouseReportReservedBitsZero(t *testing.T) {
	r := NewMouseReport(0, 0, true)
	assert.Zero(t, r.Buttons&^uint8(ButtonLeft))
}

func TestReportDescriptorShape(t *testing.T) {
	// The descriptor is a fixed compatibility artifact; pin its identity.
	require.Len(t, ReportDescriptor, 50)
	assert.Equal(t, byte(0x05), ReportDescriptor[0])
	assert.Equal(t, byte(0xC0), ReportDescriptor[len(ReportDescriptor)-1])
	assert.Equal(t, byte(0xC0), ReportDescriptor[len(ReportDescriptor)-2])
}
