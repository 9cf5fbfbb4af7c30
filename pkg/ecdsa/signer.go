package ecdsa

import (
	cecdsa "crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
)

// Sign calculates an ECDSA signature over the provided hash with a fresh
// random nonce drawn from the given source of randomness. Production code
// should pass crypto/rand.Reader. The nonce depends on the reader only, so
// a deterministic reader gives a deterministic signature, which
// crypto/ecdsa.Sign does not guarantee. The hash is expected to be the output of
// a cryptographic hash function, usually 32 bytes long.
func (k *PrivateKey) Sign(rand io.Reader, hash []byte) (*Signature, error) {
	n := Params().N
	e := hashToInt(hash)

	for {
		nonce, err := randomScalar(rand)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signature nonce: [%w]", err)
		}

		// r = (k * G).x mod n
		point := ScalarBaseMult(nonce)
		r := new(big.Int).Mod(point.X, n)
		if r.Sign() == 0 {
			continue
		}

		// s = k⁻¹ * (e + r * d) mod n
		s := new(big.Int).Mul(r, k.d)
		s.Add(s, e)
		s.Mul(s, new(big.Int).ModInverse(nonce, n))
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		return &Signature{R: r, S: s}, nil
	}
}

// SignDER calculates a signature over the hash and encodes it in the ASN.1
// DER form.
func (k *PrivateKey) SignDER(rand io.Reader, hash []byte) ([]byte, error) {
	signature, err := k.Sign(rand, hash)
	if err != nil {
		return nil, err
	}
	return signature.SerializeDER()
}

// SignRecoverable calculates a signature over the hash and finds the
// recovery ID which allows to recover the signer's public key from it.
func (k *PrivateKey) SignRecoverable(
	rand io.Reader,
	hash []byte,
) (*RecoverableSignature, error) {
	signature, err := k.Sign(rand, hash)
	if err != nil {
		return nil, err
	}

	recoveryID, err := FindRecoveryID(signature, hash, k.pub)
	if err != nil {
		return nil, fmt.Errorf("failed to find recovery ID: [%w]", err)
	}

	return &RecoverableSignature{
		Signature:  *signature,
		RecoveryID: recoveryID,
		Compressed: k.pub.IsCompressed(),
	}, nil
}

// Sign calculates a signature over the hash with the given key. It fails with
// ErrNoPrivateKey if the key holds only the public part.
func Sign(rand io.Reader, key KeyPair, hash []byte) (*Signature, error) {
	privateKey, err := AsPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return privateKey.Sign(rand, hash)
}

// Verify checks the signature over the hash against the public key.
func (pk *PublicKey) Verify(hash []byte, signature *Signature) bool {
	return Verify(pk, hash, signature)
}

// Verify checks the signature over the hash against the public key. Signature
// components out of `[1, n)` make the signature invalid.
func Verify(publicKey *PublicKey, hash []byte, signature *Signature) bool {
	if publicKey == nil || signature == nil ||
		signature.R == nil || signature.S == nil {
		return false
	}

	n := Params().N
	r, s := signature.R, signature.S
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return false
	}

	return cecdsa.Verify(publicKey.ToECDSA(), hash, r, s)
}

// VerifyDER checks a DER encoded signature over the hash against a public key
// serialized in the compressed or uncompressed form. A malformed signature
// or public key is reported as an error, not as a failed verification.
func VerifyDER(hash, signature, publicKey []byte) (bool, error) {
	parsedSignature, err := ParseDERSignature(signature)
	if err != nil {
		return false, fmt.Errorf("failed to parse signature: [%w]", err)
	}

	parsedPublicKey, err := ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}

	return Verify(parsedPublicKey, hash, parsedSignature), nil
}
