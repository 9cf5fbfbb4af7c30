package ecdsa

import (
	"fmt"
	"math/big"
)

// recoveryIDCount is the number of candidate public keys for a signature,
// `2 * (h + 1)`. For secp256k1 the cofactor `h` is 1, so there are four.
const recoveryIDCount = 2 * (Cofactor + 1)

// RecoverPublicKey recovers a public key from the signature's `r` and `s`
// values for the given message hash. Based on the algorithm described in
// section 4.1.6 of [SEC 1].
//
// Signature in a form `(r, s)` contains `r` value which is a `x` coordinate
// of the point `R` chosen during signing. The curve has up to 4 points
// matching the given `r`: the recovery ID selects the `x` coordinate
// (`r` or `r + n`, bit 1) and the oddness of the `y` coordinate (bit 0).
// This is consistent with the solution implemented by btcd.
//
// The second return value is false when the recovery ID does not lead to
// a valid public key. It is a regular outcome, not an error.
func RecoverPublicKey(
	recoveryID int,
	signature *Signature,
	hash []byte,
	compressed bool,
) (*PublicKey, bool) {
	if recoveryID < 0 || recoveryID >= recoveryIDCount {
		return nil, false
	}

	n := Params().N
	r, s := signature.R, signature.S
	if r == nil || s == nil ||
		r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return nil, false
	}

	// 1.1 Calculate x coordinate of the R point.
	// x = r + (j * n)
	j := recoveryID / 2
	x := new(big.Int).Mul(big.NewInt(int64(j)), n)
	x.Add(x, r)

	// 1.2 and 1.3 Decompress the R point. For each x coordinate there are two
	// points on the curve, `R` and `-R`, with y coordinates of different
	// oddness.
	point, err := DecompressPoint(x, recoveryID%2 == 1)
	if err != nil {
		logger.Debugf(
			"no curve point for recovery ID [%d]: [%v]",
			recoveryID,
			err,
		)
		return nil, false
	}

	// 1.4 `n * R` has to be the point at infinity.
	if !hasGroupOrder(point) {
		return nil, false
	}

	// 1.5 Calculate `e` from message using the same algorithm as ecdsa
	// signature calculation.
	e := hashToInt(hash)

	// 1.6.1 Calculate the public key candidate.
	// Q = r⁻¹ * (s * R - e * G)
	rInverse := new(big.Int).ModInverse(r, n)
	minusE := new(big.Int).Neg(e)
	minusE.Mod(minusE, n)

	sR := ScalarMult(point, s)
	minusEG := ScalarBaseMult(minusE)
	q := ScalarMult(Add(sR, minusEG), rInverse)

	if q.IsInfinity() {
		return nil, false
	}

	return &PublicKey{point: q, compressed: compressed}, true
}

// FindRecoveryID finds the recovery ID under which the public key recovered
// from the signature matches the expected key. Keys are compared by their
// serialized form, so the expected key encoding matters.
func FindRecoveryID(
	signature *Signature,
	hash []byte,
	expected *PublicKey,
) (int, error) {
	expectedBytes := expected.Bytes()

	for recoveryID := 0; recoveryID < recoveryIDCount; recoveryID++ {
		publicKey, ok := RecoverPublicKey(
			recoveryID,
			signature,
			hash,
			expected.IsCompressed(),
		)
		if !ok {
			logger.Debugf(
				"could not recover public key for recovery ID [%d]",
				recoveryID,
			)
			continue
		}

		if publicKey.IsEqual(expected) {
			return recoveryID, nil
		}

		logger.Debugf(
			"public key [%x] recovered for recovery ID [%d] does not match [%x]",
			publicKey.Bytes(),
			recoveryID,
			expectedBytes,
		)
	}

	return -1, fmt.Errorf("%w: [%v]", ErrRecoveryIDNotFound, signature)
}
