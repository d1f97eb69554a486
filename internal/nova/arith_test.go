package nova

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd8CarryAndOverflow(t *testing.T) {
	result, carry, overflow := add8(0xFF, 0x01)
	assert.Equal(t, uint8(0), result)
	assert.True(t, carry)
	assert.False(t, overflow, "unsigned wrap alone is not a signed overflow")

	result, carry, overflow = add8(0x7F, 0x01) // 127 + 1 signed overflow
	assert.Equal(t, uint8(0x80), result)
	assert.False(t, carry)
	assert.True(t, overflow)
}

func TestSub8Borrow(t *testing.T) {
	result, carry, _ := sub8(0x00, 0x01)
	assert.Equal(t, uint8(0xFF), result)
	assert.True(t, carry, "a<b must report a borrow")
}

func TestMul8SignedOverflow(t *testing.T) {
	_, overflow := mul8(100, 100) // 10000 signed, way outside int8 range
	assert.True(t, overflow)

	_, overflow = mul8(2, 3)
	assert.False(t, overflow)
}

func TestDivModByZeroReportsSticky(t *testing.T) {
	_, divByZero := div8(10, 0)
	assert.True(t, divByZero)
	_, divByZero = mod16(10, 0)
	assert.True(t, divByZero)

	result, divByZero := div8(10, 5)
	assert.False(t, divByZero)
	assert.Equal(t, uint8(2), result)
}

func TestShiftLoop8CapsAtWidthPlusOne(t *testing.T) {
	result, carry := shiftLoop8(0xFF, 255, true)
	assert.Equal(t, uint8(0), result, "shifting out every bit leaves zero")
	assert.False(t, carry, "past the cap the carry-out bit is always 0 (no bit left to shift out)")
}

func TestRotateLoop8ByExactWidthStillReportsCarry(t *testing.T) {
	// Rotating a full 8 places returns to the same value, but the bit
	// that rotated through the carry position on the last step is still
	// meaningful and must not read as "no carry" just because count%8==0.
	result, carry := rotateLoop8(0x81, 8, true)
	assert.Equal(t, uint8(0x81), result)
	assert.True(t, carry)
}

func TestRotateLoop8ByZeroIsNoOpWithNoCarry(t *testing.T) {
	result, carry := rotateLoop8(0x81, 0, true)
	assert.Equal(t, uint8(0x81), result)
	assert.False(t, carry)
}

func TestRotateLoop16RoundTrip(t *testing.T) {
	left, _ := rotateLoop16(0x1234, 4, true)
	back, _ := rotateLoop16(left, 4, false)
	assert.Equal(t, uint16(0x1234), back)
}
