package ecdsa

import (
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/keep-network/keep-eckey/pkg/utils/byteutils"
)

const (
	// RecoverableSignatureLen is the length of a serialized recoverable
	// signature: `<header> + <32-byte r> + <32-byte s>`.
	RecoverableSignatureLen = 65

	// MessageHeaderOffset is the header offset used by the signed message
	// format of the reference client. The header byte is equal to
	// `27 + recovery ID`, increased by 4 for compressed public keys.
	MessageHeaderOffset byte = 27

	compressedHeaderFlag = 4
	maxRecoveryID        = 3
)

// Signature holds an ECDSA signature in a form of two big.Int `r` and `s`
// values.
type Signature struct {
	R *big.Int
	S *big.Int
}

// derSignature is the ASN.1 structure of a DER encoded signature.
type derSignature struct {
	R *big.Int
	S *big.Int
}

// NewSignature creates a signature from its components.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}
}

// SerializeDER encodes the signature as an ASN.1 SEQUENCE of two INTEGERs.
// The result is usually 70-72 bytes long.
func (s *Signature) SerializeDER() ([]byte, error) {
	if s.R == nil || s.S == nil {
		return nil, fmt.Errorf("%w: signature component not set", ErrInvalidFormat)
	}

	der, err := asn1.Marshal(derSignature{R: s.R, S: s.S})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signature: [%w]", err)
	}

	return der, nil
}

// ParseDERSignature decodes an ASN.1 DER encoded signature. The sequence
// must hold exactly two positive integers and no data may follow it.
func ParseDERSignature(der []byte) (*Signature, error) {
	elements, err := parseSequence(der)
	if err != nil {
		return nil, fmt.Errorf("malformed DER signature: [%w]", err)
	}

	if len(elements) != 2 {
		return nil, fmt.Errorf(
			"%w: DER signature must have [2] elements, has [%d]",
			ErrInvalidFormat,
			len(elements),
		)
	}

	components := make([]*big.Int, len(elements))
	for i, element := range elements {
		if err := unmarshalElement(element, &components[i]); err != nil {
			return nil, fmt.Errorf(
				"%w: invalid signature component: [%v]",
				ErrInvalidFormat,
				err,
			)
		}

		if components[i].Sign() <= 0 {
			return nil, fmt.Errorf(
				"%w: signature components must be positive",
				ErrInvalidFormat,
			)
		}
	}

	return &Signature{R: components[0], S: components[1]}, nil
}

// IsEqual returns true if both signatures have the same components.
func (s *Signature) IsEqual(other *Signature) bool {
	return other != nil && s.R.Cmp(other.R) == 0 && s.S.Cmp(other.S) == 0
}

func (s *Signature) String() string {
	return fmt.Sprintf("R: %#x, S: %#x", s.R, s.S)
}

// RecoverableSignature is a signature extended with the information needed
// to recover the signer's public key: the recovery ID in {0, 1, 2, 3} and the
// encoding of the signer's public key.
type RecoverableSignature struct {
	Signature
	RecoveryID int
	Compressed bool
}

// Serialize encodes the signature in the fixed width layout
// `<header> + <32-byte r> + <32-byte s>`, where the header is
// `headerOffset + RecoveryID`, increased by 4 if the signer's public key is
// compressed.
func (rs *RecoverableSignature) Serialize(headerOffset byte) ([]byte, error) {
	if rs.RecoveryID < 0 || rs.RecoveryID > maxRecoveryID {
		return nil, fmt.Errorf(
			"%w: recovery ID [%d] out of range",
			ErrInvalidFormat,
			rs.RecoveryID,
		)
	}
	if rs.R == nil || rs.S == nil {
		return nil, fmt.Errorf("%w: signature component not set", ErrInvalidFormat)
	}

	r, err := byteutils.LeftPadTo32Bytes(rs.R.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid r: [%v]", ErrInvalidFormat, err)
	}
	s, err := byteutils.LeftPadTo32Bytes(rs.S.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid s: [%v]", ErrInvalidFormat, err)
	}

	header := headerOffset + byte(rs.RecoveryID)
	if rs.Compressed {
		header += compressedHeaderFlag
	}

	serialized := make([]byte, 0, RecoverableSignatureLen)
	serialized = append(serialized, header)
	serialized = append(serialized, r...)
	serialized = append(serialized, s...)

	return serialized, nil
}

// ParseRecoverableSignature decodes a signature serialized with Serialize.
// At least 65 bytes are required and the header byte has to be in
// `[headerOffset, headerOffset + 7]`; bytes past the 65th are ignored.
func ParseRecoverableSignature(
	serialized []byte,
	headerOffset byte,
) (*RecoverableSignature, error) {
	if len(serialized) < RecoverableSignatureLen {
		return nil, fmt.Errorf(
			"%w: signature truncated, expected [%d] bytes and got [%d]",
			ErrInvalidFormat,
			RecoverableSignatureLen,
			len(serialized),
		)
	}

	header := int(serialized[0])
	minHeader := int(headerOffset)
	maxHeader := minHeader + compressedHeaderFlag + maxRecoveryID
	if header < minHeader || header > maxHeader {
		return nil, fmt.Errorf(
			"%w: header byte [%d] out of range [%d, %d]",
			ErrInvalidFormat,
			header,
			minHeader,
			maxHeader,
		)
	}

	compressed := false
	if header >= minHeader+compressedHeaderFlag {
		compressed = true
		header -= compressedHeaderFlag
	}

	return &RecoverableSignature{
		Signature: Signature{
			R: new(big.Int).SetBytes(serialized[1:33]),
			S: new(big.Int).SetBytes(serialized[33:65]),
		},
		RecoveryID: header - minHeader,
		Compressed: compressed,
	}, nil
}

func (rs *RecoverableSignature) String() string {
	return fmt.Sprintf(
		"%s, RecoveryID: %d, Compressed: %t",
		rs.Signature.String(),
		rs.RecoveryID,
		rs.Compressed,
	)
}
