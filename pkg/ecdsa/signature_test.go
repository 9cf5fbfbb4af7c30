package ecdsa

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
)

func TestSignatureString(t *testing.T) {
	signature := &Signature{
		R: big.NewInt(1234567890),
		S: big.NewInt(963852741),
	}
	expectedString := "R: 0x499602d2, S: 0x397339c5"

	if signature.String() != expectedString {
		t.Errorf(
			"unexpected signature.String() result\n"+
				"expected: [%s]\n"+
				"actual:   [%s]",
			expectedString,
			signature.String(),
		)
	}
}

func TestRecoverableSignatureString(t *testing.T) {
	signature := &RecoverableSignature{
		Signature: Signature{
			R: big.NewInt(1234567890),
			S: big.NewInt(963852741),
		},
		RecoveryID: 1,
	}
	expectedString := "R: 0x499602d2, S: 0x397339c5, RecoveryID: 1, Compressed: false"

	if signature.String() != expectedString {
		t.Errorf(
			"unexpected signature.String() result\n"+
				"expected: [%s]\n"+
				"actual:   [%s]",
			expectedString,
			signature.String(),
		)
	}
}

func TestSerializeDER(t *testing.T) {
	var tests = map[string]struct {
		r           int64
		s           int64
		expectedDER string
	}{
		"single byte components": {
			r:           1,
			s:           1,
			expectedDER: "3006020101020101",
		},
		"component with high bit set": {
			r:           0x80,
			s:           0x7f,
			expectedDER: "30070202008002017f",
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			signature := NewSignature(big.NewInt(test.r), big.NewInt(test.s))

			der, err := signature.SerializeDER()
			if err != nil {
				t.Fatal(err)
			}

			if hex.EncodeToString(der) != test.expectedDER {
				t.Errorf(
					"unexpected DER encoding\nexpected: [%s]\nactual:   [%x]",
					test.expectedDER,
					der,
				)
			}

			parsed, err := ParseDERSignature(der)
			if err != nil {
				t.Fatal(err)
			}

			if !parsed.IsEqual(signature) {
				t.Errorf(
					"unexpected signature\nexpected: [%v]\nactual:   [%v]",
					signature,
					parsed,
				)
			}
		})
	}
}

func TestDERRoundTrip(t *testing.T) {
	r, _ := new(big.Int).SetString("9b32c3623b6a16e87b4d3a56cd67c666c9897751e24a51518136185403b1cba2", 16)
	s, _ := new(big.Int).SetString("90838891021e1c7d0d1336613f24ecab703dee5ff1b6c8881bccc2c011606a35", 16)
	signature := NewSignature(r, s)

	der, err := signature.SerializeDER()
	if err != nil {
		t.Fatal(err)
	}

	// Both components have the high bit set and get a leading zero byte.
	if len(der) != 72 {
		t.Errorf(
			"unexpected DER length\nexpected: [%d]\nactual:   [%d]",
			72,
			len(der),
		)
	}

	parsed, err := ParseDERSignature(der)
	if err != nil {
		t.Fatal(err)
	}

	if !parsed.IsEqual(signature) {
		t.Errorf(
			"unexpected signature\nexpected: [%v]\nactual:   [%v]",
			signature,
			parsed,
		)
	}
}

func TestParseDERSignatureErrors(t *testing.T) {
	var tests = map[string]string{
		"empty":                "",
		"truncated":            "30060201010201",
		"trailing data":        "300602010102010100",
		"single component":     "3003020101",
		"three components":     "3009020101020101020101",
		"negative r":           "30060201ff020101",
		"zero s":               "3006020101020100",
		"non-minimal integer":  "300702020001020101",
		"octet string element": "3006040101020101",
		"not a sequence":       "020101",
	}

	for testName, encoded := range tests {
		t.Run(testName, func(t *testing.T) {
			der, _ := hex.DecodeString(encoded)

			_, err := ParseDERSignature(der)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf(
					"unexpected error\nexpected: [%v]\nactual:   [%v]",
					ErrInvalidFormat,
					err,
				)
			}
		})
	}
}

func TestRecoverableSignatureSerialize(t *testing.T) {
	signature := &RecoverableSignature{
		Signature: Signature{
			R: big.NewInt(0x0102),
			S: big.NewInt(0x0304),
		},
		RecoveryID: 2,
	}

	var tests = map[string]struct {
		compressed     bool
		expectedHeader byte
	}{
		"uncompressed key": {
			compressed:     false,
			expectedHeader: 29,
		},
		"compressed key": {
			compressed:     true,
			expectedHeader: 33,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			signature.Compressed = test.compressed

			serialized, err := signature.Serialize(MessageHeaderOffset)
			if err != nil {
				t.Fatal(err)
			}

			expected := make([]byte, RecoverableSignatureLen)
			expected[0] = test.expectedHeader
			expected[31] = 0x01
			expected[32] = 0x02
			expected[63] = 0x03
			expected[64] = 0x04

			if !bytes.Equal(expected, serialized) {
				t.Errorf(
					"unexpected serialization\nexpected: [%x]\nactual:   [%x]",
					expected,
					serialized,
				)
			}

			parsed, err := ParseRecoverableSignature(serialized, MessageHeaderOffset)
			if err != nil {
				t.Fatal(err)
			}

			if !parsed.Signature.IsEqual(&signature.Signature) ||
				parsed.RecoveryID != signature.RecoveryID ||
				parsed.Compressed != signature.Compressed {
				t.Errorf(
					"unexpected signature\nexpected: [%v]\nactual:   [%v]",
					signature,
					parsed,
				)
			}
		})
	}
}

func TestRecoverableSignatureSerializeErrors(t *testing.T) {
	tooLarge := new(big.Int).Lsh(big.NewInt(1), 256)

	var tests = map[string]*RecoverableSignature{
		"recovery ID too large": {
			Signature:  Signature{R: big.NewInt(1), S: big.NewInt(1)},
			RecoveryID: 4,
		},
		"negative recovery ID": {
			Signature:  Signature{R: big.NewInt(1), S: big.NewInt(1)},
			RecoveryID: -1,
		},
		"r wider than 32 bytes": {
			Signature: Signature{R: tooLarge, S: big.NewInt(1)},
		},
		"missing s": {
			Signature: Signature{R: big.NewInt(1)},
		},
	}

	for testName, signature := range tests {
		t.Run(testName, func(t *testing.T) {
			_, err := signature.Serialize(MessageHeaderOffset)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf(
					"unexpected error\nexpected: [%v]\nactual:   [%v]",
					ErrInvalidFormat,
					err,
				)
			}
		})
	}
}

func TestParseRecoverableSignatureHeader(t *testing.T) {
	withHeader := func(header byte) []byte {
		serialized := make([]byte, RecoverableSignatureLen)
		serialized[0] = header
		serialized[32] = 0x01
		serialized[64] = 0x01
		return serialized
	}

	var tests = map[string]struct {
		serialized         []byte
		expectedRecoveryID int
		expectedCompressed bool
		expectedError      error
	}{
		"header 27": {
			serialized:         withHeader(27),
			expectedRecoveryID: 0,
		},
		"header 30": {
			serialized:         withHeader(30),
			expectedRecoveryID: 3,
		},
		"header 31": {
			serialized:         withHeader(31),
			expectedRecoveryID: 0,
			expectedCompressed: true,
		},
		"header 34": {
			serialized:         withHeader(34),
			expectedRecoveryID: 3,
			expectedCompressed: true,
		},
		"extra bytes are ignored": {
			serialized:         append(withHeader(28), 0xff, 0xff),
			expectedRecoveryID: 1,
		},
		"header 26": {
			serialized:    withHeader(26),
			expectedError: ErrInvalidFormat,
		},
		"header 35": {
			serialized:    withHeader(35),
			expectedError: ErrInvalidFormat,
		},
		"truncated": {
			serialized:    withHeader(27)[:64],
			expectedError: ErrInvalidFormat,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			signature, err := ParseRecoverableSignature(
				test.serialized,
				MessageHeaderOffset,
			)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf(
					"unexpected error\nexpected: [%v]\nactual:   [%v]",
					test.expectedError,
					err,
				)
			}
			if test.expectedError != nil {
				return
			}

			if signature.RecoveryID != test.expectedRecoveryID {
				t.Errorf(
					"unexpected recovery ID\nexpected: [%d]\nactual:   [%d]",
					test.expectedRecoveryID,
					signature.RecoveryID,
				)
			}
			if signature.Compressed != test.expectedCompressed {
				t.Errorf(
					"unexpected compression\nexpected: [%v]\nactual:   [%v]",
					test.expectedCompressed,
					signature.Compressed,
				)
			}
			if signature.R.Cmp(big.NewInt(1)) != 0 ||
				signature.S.Cmp(big.NewInt(1)) != 0 {
				t.Errorf("unexpected signature components [%v]", signature)
			}
		})
	}
}
