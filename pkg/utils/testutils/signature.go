// Package testutils contains helpers validating signatures produced by this
// module against independent secp256k1 implementations.
package testutils

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

// VerifyEthereumSignature validates that signature in form (r, s, recoveryID)
// is a valid ethereum signature. `SigToPub` is a wrapper on `Ecrecover` that
// allows us to validate a signature in the same way as it's done on-chain, we
// extract public key from the signature and compare it with signer's public key.
func VerifyEthereumSignature(
	t *testing.T,
	hash []byte,
	signature *ecdsa.RecoverableSignature,
	expectedPublicKey *ecdsa.PublicKey,
) {
	serializedSignature, err := serializeEthereumSignature(signature)
	if err != nil {
		t.Fatalf("failed to serialize signature: [%v]", err)
	}

	publicKey, err := crypto.SigToPub(hash, serializedSignature)
	if err != nil {
		t.Fatalf("failed to get public key from signature: [%v]", err)
	}

	if expectedPublicKey.X().Cmp(publicKey.X) != 0 ||
		expectedPublicKey.Y().Cmp(publicKey.Y) != 0 {
		t.Errorf(
			"invalid public key:\nexpected: [%x]\nactual:   [%x]\n",
			expectedPublicKey.SerializeUncompressed(),
			crypto.FromECDSAPub(publicKey),
		)
	}
}

// serializeEthereumSignature converts the signature to the layout expected
// by go-ethereum: `<32-byte r> + <32-byte s> + <recovery ID>`. It is the
// message layout with zero header offset and the header moved to the end.
func serializeEthereumSignature(
	signature *ecdsa.RecoverableSignature,
) ([]byte, error) {
	uncompressed := *signature
	uncompressed.Compressed = false

	serialized, err := uncompressed.Serialize(0)
	if err != nil {
		return nil, err
	}

	return append(serialized[1:], serialized[0]), nil
}
