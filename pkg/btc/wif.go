package btc

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

// EncodePrivateKeyWIF serializes the private key in the Wallet Import Format
// of the given network. The format carries the public key encoding of the
// key.
func EncodePrivateKeyWIF(
	privateKey *ecdsa.PrivateKey,
	netParams *chaincfg.Params,
) (string, error) {
	btcecPrivateKey, _ := btcec.PrivKeyFromBytes(btcec.S256(), privateKey.Bytes())

	wif, err := btcutil.NewWIF(
		btcecPrivateKey,
		netParams,
		privateKey.PublicKey().IsCompressed(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to encode private key: [%v]", err)
	}

	return wif.String(), nil
}

// DecodePrivateKeyWIF parses a private key serialized in the Wallet Import
// Format. The key has to belong to the given network.
func DecodePrivateKeyWIF(
	encoded string,
	netParams *chaincfg.Params,
) (*ecdsa.PrivateKey, error) {
	wif, err := btcutil.DecodeWIF(encoded)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: cannot decode WIF: [%v]",
			ecdsa.ErrInvalidFormat,
			err,
		)
	}

	if !wif.IsForNet(netParams) {
		return nil, fmt.Errorf(
			"private key is not for network [%s]",
			netParams.Name,
		)
	}

	privateKey, err := ecdsa.PrivateKeyFromBytes(wif.PrivKey.Serialize())
	if err != nil {
		return nil, err
	}

	if wif.CompressPubKey {
		return privateKey.Compressed(), nil
	}
	return privateKey, nil
}
