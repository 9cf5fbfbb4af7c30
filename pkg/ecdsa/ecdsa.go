// Package ecdsa implements secp256k1 keys, ECDSA signing and verification and
// public key recovery, using standards described in [SEC 1].
//
// A key is either a signing key (*PrivateKey) or a verify-only key
// (*PublicKey). Both satisfy KeyPair, so code that only needs the public part
// can accept either one, while signing requires a *PrivateKey.
//
//	[SEC 1]: Standards for Efficient Cryptography, SEC 1: Elliptic Curve
//	  Cryptography, Certicom Research, https://www.secg.org/sec1-v2.pdf
package ecdsa

import (
	"crypto/elliptic"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/ipfs/go-log"
)

var logger = log.Logger("keep-eckey")

// Cofactor is the cofactor `h` of the secp256k1 curve.
const Cofactor = 1

// Curve returns the secp256k1 curve implementation all keys and signatures of
// this package are computed on.
func Curve() *btcec.KoblitzCurve {
	return btcec.S256()
}

// Params returns secp256k1 domain parameters: the field prime `P`, the group
// order `N`, the curve constant `B` and the generator point `(Gx, Gy)`.
func Params() *elliptic.CurveParams {
	return btcec.S256().Params()
}

// hashToInt converts a hash value to an integer. Hashes longer than the group
// order are truncated to its bit length.
//
// This code is borrowed from Golang's crypto/ecdsa/ecdsa.go.
func hashToInt(hash []byte) *big.Int {
	orderBits := Params().N.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

func isOdd(a *big.Int) bool {
	return a.Bit(0) == 1
}
