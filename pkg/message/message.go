// Package message implements the signed message scheme of the Bitcoin
// reference client, as exposed by its `signmessage` and `verifymessage`
// commands.
//
// The signed text is prefixed with a magic string, both serialized as
// variable length strings, and hashed twice with SHA-256. The signature is
// transported as base64 of the 65-byte recoverable layout, so the verifier
// can recover the signer's public key and compare it with the expected one.
package message

import (
	"bytes"
	crand "crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-log"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

var logger = log.Logger("keep-message")

// BitcoinMagic is the magic prefix of messages signed with Bitcoin keys.
const BitcoinMagic = "Bitcoin Signed Message:\n"

// ErrCouldNotRecover is returned when a well formed signature does not lead
// to any public key.
var ErrCouldNotRecover = errors.New("could not recover public key from signature")

// Signer signs and verifies messages formatted with the given magic prefix.
// It is safe for concurrent use if its source of randomness is.
type Signer struct {
	magic string
	rand  io.Reader
}

// Default signs Bitcoin messages using crypto/rand as the source of
// signature nonces.
var Default = New(BitcoinMagic, crand.Reader)

// New creates a message signer for the given magic prefix. Signature nonces
// are drawn from rand.
func New(magic string, rand io.Reader) *Signer {
	return &Signer{
		magic: magic,
		rand:  rand,
	}
}

// Magic returns the magic prefix of signed messages.
func (s *Signer) Magic() string {
	return s.magic
}

// Format serializes the message the way it is hashed for signing:
// `varstr(magic) + varstr(text)`.
func (s *Signer) Format(text string) []byte {
	buffer := &bytes.Buffer{}

	// Writes to bytes.Buffer do not fail.
	_ = wire.WriteVarString(buffer, 0, s.magic)
	_ = wire.WriteVarString(buffer, 0, text)

	return buffer.Bytes()
}

// Hash returns double SHA-256 of the formatted message.
func (s *Signer) Hash(text string) []byte {
	return chainhash.DoubleHashB(s.Format(text))
}

// SignMessage signs the message with the key and returns the base64 encoded
// recoverable signature. The signature header tells the verifier whether
// the key uses the compressed encoding. It fails with ecdsa.ErrNoPrivateKey
// if the key holds only the public part.
func (s *Signer) SignMessage(key ecdsa.KeyPair, text string) (string, error) {
	privateKey, err := ecdsa.AsPrivateKey(key)
	if err != nil {
		return "", err
	}

	signature, err := privateKey.SignRecoverable(s.rand, s.Hash(text))
	if err != nil {
		return "", fmt.Errorf("failed to sign message: [%w]", err)
	}

	serialized, err := signature.Serialize(ecdsa.MessageHeaderOffset)
	if err != nil {
		return "", fmt.Errorf("failed to serialize signature: [%w]", err)
	}

	return base64.StdEncoding.EncodeToString(serialized), nil
}

// RecoverPublicKey recovers the public key which signed the message. The
// key uses the encoding indicated by the signature header. Malformed
// signatures are reported with ecdsa.ErrInvalidFormat, signatures which do
// not recover to any key with ErrCouldNotRecover.
func (s *Signer) RecoverPublicKey(
	text string,
	signatureBase64 string,
) (*ecdsa.PublicKey, error) {
	serialized, err := base64.StdEncoding.DecodeString(signatureBase64)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: signature is not valid base64: [%v]",
			ecdsa.ErrInvalidFormat,
			err,
		)
	}

	signature, err := ecdsa.ParseRecoverableSignature(
		serialized,
		ecdsa.MessageHeaderOffset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature: [%w]", err)
	}

	publicKey, ok := ecdsa.RecoverPublicKey(
		signature.RecoveryID,
		&signature.Signature,
		s.Hash(text),
		signature.Compressed,
	)
	if !ok {
		logger.Debugf("could not recover public key from [%v]", signature)
		return nil, ErrCouldNotRecover
	}

	return publicKey, nil
}

// VerifyMessage checks whether the message was signed by the key. The key
// has to use the same encoding the signer's key used. Signatures which do
// not recover to any key are reported as invalid, malformed signatures as
// errors. A nil key fails with ecdsa.ErrNoKey.
func (s *Signer) VerifyMessage(
	key ecdsa.KeyPair,
	text string,
	signatureBase64 string,
) (bool, error) {
	if key == nil || key.PublicKey() == nil {
		return false, ecdsa.ErrNoKey
	}

	publicKey, err := s.recoverForVerification(text, signatureBase64)
	if err != nil || publicKey == nil {
		return false, err
	}

	return publicKey.IsEqual(key.PublicKey()), nil
}

// VerifyMessageHash160 checks whether the message was signed by the key of
// the given public key hash. The hash is compared with hashes of both key
// encodings.
func (s *Signer) VerifyMessageHash160(
	hash160 []byte,
	text string,
	signatureBase64 string,
) (bool, error) {
	publicKey, err := s.recoverForVerification(text, signatureBase64)
	if err != nil || publicKey == nil {
		return false, err
	}

	return bytes.Equal(publicKey.Hash160(), hash160) ||
		bytes.Equal(publicKey.CompressedHash160(), hash160), nil
}

func (s *Signer) recoverForVerification(
	text string,
	signatureBase64 string,
) (*ecdsa.PublicKey, error) {
	publicKey, err := s.RecoverPublicKey(text, signatureBase64)
	if errors.Is(err, ErrCouldNotRecover) {
		return nil, nil
	}
	return publicKey, err
}

// SignMessage signs the Bitcoin message with the key.
func SignMessage(key ecdsa.KeyPair, text string) (string, error) {
	return Default.SignMessage(key, text)
}

// RecoverPublicKey recovers the public key which signed the Bitcoin message.
func RecoverPublicKey(text, signatureBase64 string) (*ecdsa.PublicKey, error) {
	return Default.RecoverPublicKey(text, signatureBase64)
}

// VerifyMessage checks whether the Bitcoin message was signed by the key.
func VerifyMessage(key ecdsa.KeyPair, text, signatureBase64 string) (bool, error) {
	return Default.VerifyMessage(key, text, signatureBase64)
}

// VerifyMessageHash160 checks whether the Bitcoin message was signed by the
// key of the given public key hash.
func VerifyMessageHash160(hash160 []byte, text, signatureBase64 string) (bool, error) {
	return Default.VerifyMessageHash160(hash160, text, signatureBase64)
}
