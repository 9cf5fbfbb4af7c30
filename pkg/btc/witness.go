package btc

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

// PublicKeyHashWitness builds a pay-to-witness-public-key-hash (P2WPKH)
// witness for a transaction input. Witness contains a DER signature with the
// SIGHASH_ALL type appended and the compressed public key according to
// [BIP-141].
//
// [BIP-141]: https://github.com/bitcoin/bips/blob/master/bip-0141.mediawiki#p2wpkh
func PublicKeyHashWitness(
	signature *ecdsa.Signature,
	publicKey *ecdsa.PublicKey,
) (wire.TxWitness, error) {
	der, err := signature.SerializeDER()
	if err != nil {
		return nil, err
	}

	sig := append(der, byte(txscript.SigHashAll))

	return wire.TxWitness{sig, publicKey.SerializeCompressed()}, nil
}

// SetSignatureWitnessToTransaction sets a P2WPKH witness on the transaction
// input.
func SetSignatureWitnessToTransaction(
	signature *ecdsa.Signature,
	publicKey *ecdsa.PublicKey,
	inputIndex int,
	msgTx *wire.MsgTx,
) error {
	if inputIndex < 0 || inputIndex >= len(msgTx.TxIn) {
		return fmt.Errorf(
			"input index [%d] out of range, transaction has [%d] inputs",
			inputIndex,
			len(msgTx.TxIn),
		)
	}

	txWitness, err := PublicKeyHashWitness(signature, publicKey)
	if err != nil {
		return err
	}

	msgTx.TxIn[inputIndex].Witness = txWitness
	return nil
}
