// Package byteutils provides helper utilities for working with bytes
package byteutils

import (
	"fmt"
)

// LeftPad prepends zeros to the bytes slice to make it exactly `length` bytes
// long. It fails if the slice is already longer than that.
func LeftPad(bytes []byte, length int) ([]byte, error) {
	if len(bytes) > length {
		return nil, fmt.Errorf(
			"cannot pad %v byte array to %v bytes", len(bytes), length,
		)
	}

	result := make([]byte, length-len(bytes), length)
	result = append(result, bytes...)

	return result, nil
}

// LeftPadTo32Bytes prepends zeros to the bytes slice to make it exactly 32
// bytes long, the width of a secp256k1 field element or scalar.
func LeftPadTo32Bytes(bytes []byte) ([]byte, error) {
	return LeftPad(bytes, 32)
}
