// Package btc connects secp256k1 keys to Bitcoin: addresses derived from
// public key hashes, wallet import format of private keys and transaction
// witnesses.
package btc

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
	"github.com/keep-network/keep-eckey/pkg/message"
)

// PublicKeyHashAddress converts public key to bitcoin Pay-to-Public-Key-Hash
// address. The hash is calculated over the public key serialized in the form
// the key uses, so compressed and uncompressed keys have different addresses.
func PublicKeyHashAddress(
	publicKey *ecdsa.PublicKey,
	netParams *chaincfg.Params,
) (string, error) {
	address, err := btcutil.NewAddressPubKeyHash(publicKey.Hash160(), netParams)
	if err != nil {
		return "", err
	}

	return address.EncodeAddress(), nil
}

// CompressedPublicKeyHashAddress converts public key to bitcoin
// Pay-to-Public-Key-Hash address of the compressed public key, regardless of
// the form the key uses.
func CompressedPublicKeyHashAddress(
	publicKey *ecdsa.PublicKey,
	netParams *chaincfg.Params,
) (string, error) {
	address, err := btcutil.NewAddressPubKeyHash(
		publicKey.CompressedHash160(),
		netParams,
	)
	if err != nil {
		return "", err
	}

	return address.EncodeAddress(), nil
}

// PublicKeyToWitnessPubKeyHashAddress convert public key to bitcoin Witness
// Public Key Hash Address. It calculates the address according to [BIP-173].
// Witness program is calculated as RIPEMD-160 hash over SHA-256 hash of the
// compressed public key. Finally bitcoin address is created for a specific
// network.
//
// [BIP-173]: https://github.com/bitcoin/bips/blob/master/bip-0173.mediawiki
func PublicKeyToWitnessPubKeyHashAddress(
	publicKey *ecdsa.PublicKey,
	netParams *chaincfg.Params,
) (string, error) {
	witnessProgram := publicKey.CompressedHash160()

	address, err := btcutil.NewAddressWitnessPubKeyHash(witnessProgram, netParams)
	if err != nil {
		return "", err
	}

	return address.EncodeAddress(), nil
}

// AddressHash160 decodes a Pay-to-Public-Key-Hash or Pay-to-Witness-Public-
// Key-Hash address of the given network and returns the public key hash it
// commits to.
func AddressHash160(address string, netParams *chaincfg.Params) ([]byte, error) {
	decoded, err := btcutil.DecodeAddress(address, netParams)
	if err != nil {
		return nil, fmt.Errorf("failed to decode address [%s]: [%v]", address, err)
	}

	if !decoded.IsForNet(netParams) {
		return nil, fmt.Errorf(
			"address [%s] is not for network [%s]",
			address,
			netParams.Name,
		)
	}

	switch a := decoded.(type) {
	case *btcutil.AddressPubKeyHash:
		return a.Hash160()[:], nil
	case *btcutil.AddressWitnessPubKeyHash:
		return a.Hash160()[:], nil
	default:
		return nil, fmt.Errorf(
			"address [%s] does not commit to a public key hash",
			address,
		)
	}
}

// VerifyMessageAddress checks whether the message was signed by the key
// behind the address, the way `verifymessage` of the reference client does.
func VerifyMessageAddress(
	signer *message.Signer,
	address string,
	netParams *chaincfg.Params,
	text string,
	signatureBase64 string,
) (bool, error) {
	hash160, err := AddressHash160(address, netParams)
	if err != nil {
		return false, err
	}

	return signer.VerifyMessageHash160(hash160, text, signatureBase64)
}
