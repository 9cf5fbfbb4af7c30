package ecdsa

import (
	"encoding/asn1"
	"fmt"
	"math/big"
)

// ecPrivateKeyVersion is the only version of the EC private key structure.
const ecPrivateKeyVersion = 1

// oidNamedCurveSecp256k1 identifies the secp256k1 curve, see [SEC 2]
// section A.2.
//
//	[SEC 2]: Standards for Efficient Cryptography, SEC 2: Recommended Elliptic
//	  Curve Domain Parameters, https://www.secg.org/sec2-v2.pdf
var oidNamedCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

// ecPrivateKey is the EC private key structure produced by OpenSSL and stored
// by the reference client in its wallet. See ec_asn1.c in OpenSSL sources:
//
//	ASN1_SEQUENCE(EC_PRIVATEKEY) = {
//	  ASN1_SIMPLE(EC_PRIVATEKEY, version, LONG),
//	  ASN1_SIMPLE(EC_PRIVATEKEY, privateKey, ASN1_OCTET_STRING),
//	  ASN1_EXP_OPT(EC_PRIVATEKEY, parameters, ECPKPARAMETERS, 0),
//	  ASN1_EXP_OPT(EC_PRIVATEKEY, publicKey, ASN1_BIT_STRING, 1)
//	} ASN1_SEQUENCE_END(EC_PRIVATEKEY)
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"explicit,tag:1"`
}

// MarshalASN1 serializes the key to the ASN.1 EC private key structure.
func (k *PrivateKey) MarshalASN1() ([]byte, error) {
	publicKey := k.pub.Bytes()

	der, err := asn1.Marshal(ecPrivateKey{
		Version:       ecPrivateKeyVersion,
		PrivateKey:    k.d.Bytes(),
		NamedCurveOID: oidNamedCurveSecp256k1,
		PublicKey: asn1.BitString{
			Bytes:     publicKey,
			BitLength: 8 * len(publicKey),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: [%w]", err)
	}

	return der, nil
}

// MarshalASN1 serializes the key to the ASN.1 EC private key structure. It
// fails with ErrNoPrivateKey for keys holding only the public part.
func MarshalASN1(key KeyPair) ([]byte, error) {
	privateKey, err := AsPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return privateKey.MarshalASN1()
}

// ParsePrivateKeyASN1 parses the ASN.1 EC private key structure and derives
// the public key from the private scalar. Only the version and the private
// key elements are validated; the public key element is used to restore the
// key encoding. This is an expensive operation as it requires a full scalar
// multiplication.
func ParsePrivateKeyASN1(der []byte) (*PrivateKey, error) {
	elements, err := parseSequence(der)
	if err != nil {
		return nil, err
	}

	if len(elements) != 4 {
		return nil, fmt.Errorf(
			"%w: EC private key must have [4] elements, has [%d]",
			ErrInvalidFormat,
			len(elements),
		)
	}

	var version int
	if err := unmarshalElement(elements[0], &version); err != nil {
		return nil, fmt.Errorf("%w: invalid version: [%v]", ErrInvalidFormat, err)
	}
	if version != ecPrivateKeyVersion {
		return nil, fmt.Errorf(
			"%w: unsupported EC private key version [%d]",
			ErrInvalidFormat,
			version,
		)
	}

	var privateKeyBytes []byte
	if err := unmarshalElement(elements[1], &privateKeyBytes); err != nil {
		return nil, fmt.Errorf(
			"%w: invalid private key octets: [%v]",
			ErrInvalidFormat,
			err,
		)
	}

	privateKey, err := NewPrivateKey(new(big.Int).SetBytes(privateKeyBytes))
	if err != nil {
		return nil, err
	}

	if isCompressedPublicKeyElement(elements[3]) {
		return privateKey.Compressed(), nil
	}
	return privateKey, nil
}

// isCompressedPublicKeyElement checks if the explicitly tagged public key
// element holds a key in the compressed form.
func isCompressedPublicKeyElement(element asn1.RawValue) bool {
	if element.Class != asn1.ClassContextSpecific || element.Tag != 1 {
		return false
	}

	var publicKey asn1.BitString
	if err := unmarshalElement(asn1.RawValue{FullBytes: element.Bytes}, &publicKey); err != nil {
		return false
	}

	return len(publicKey.Bytes) == CompressedPointLen
}

// parseSequence parses a DER SEQUENCE into its raw elements without
// interpreting them.
func parseSequence(der []byte) ([]asn1.RawValue, error) {
	var sequence asn1.RawValue
	rest, err := asn1.Unmarshal(der, &sequence)
	if err != nil {
		return nil, fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf(
			"%w: [%d] bytes of trailing data",
			ErrInvalidFormat,
			len(rest),
		)
	}
	if sequence.Class != asn1.ClassUniversal ||
		sequence.Tag != asn1.TagSequence ||
		!sequence.IsCompound {
		return nil, fmt.Errorf("%w: not an ASN.1 sequence", ErrInvalidFormat)
	}

	elements := []asn1.RawValue{}
	for data := sequence.Bytes; len(data) > 0; {
		var element asn1.RawValue
		data, err = asn1.Unmarshal(data, &element)
		if err != nil {
			return nil, fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
		}
		elements = append(elements, element)
	}

	return elements, nil
}

func unmarshalElement(element asn1.RawValue, value interface{}) error {
	rest, err := asn1.Unmarshal(element.FullBytes, value)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("[%d] bytes of trailing data", len(rest))
	}
	return nil
}
