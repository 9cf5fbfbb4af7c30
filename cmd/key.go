package cmd

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/urfave/cli"

	"github.com/keep-network/keep-eckey/pkg/btc"
	"github.com/keep-network/keep-eckey/pkg/ecdsa"
	"github.com/keep-network/keep-eckey/pkg/utils"
)

// KeyCommand contains the definition of the `key` command-line subcommand
// and its own subcommands.
var KeyCommand = cli.Command{
	Name:  "key",
	Usage: "Generates and inspects secp256k1 keys",
	Subcommands: []cli.Command{
		{
			Name:        "generate",
			Usage:       "Generates a new private key",
			Description: keyGenerateDescription,
			Action:      GenerateKey,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "compressed",
					Usage: "Use the compressed public key encoding",
				},
				cli.StringFlag{
					Name:  "output-file,o",
					Usage: "Output file for the generated key",
				},
			},
		},
		{
			Name:        "inspect",
			Usage:       "Describes a private or a public key",
			Description: keyInspectDescription,
			Action:      InspectKey,
			ArgsUsage:   "[public-key]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key,k",
					Usage: "Private key or a path to the private key file",
				},
			},
		},
	},
}

const keyGenerateDescription = `Generates a new secp256k1 private key for the
network configured in the config file.

The result is outputted as:
{
	"privateKey": "<hexadecimal ASN.1 EC private key>",
	"wif": "<private key in Wallet Import Format>",
	"publicKey": "<hexadecimal SEC1 public key>",
	"compressed": <public key encoding>,
	"address": "<P2PKH address>",
	"witnessAddress": "<P2WPKH address>",
	"creationTime": <seconds since the unix epoch>
}

If 'output-file' flag is set the result will be stored in a specified file path.
`

const keyInspectDescription = `Describes a key in the format of the
'key generate' command.

The private key is read from the 'key' flag or ` + PrivateKeyEnvVariable + `
environment variable and can be provided as a hexadecimal 32-byte scalar,
a hexadecimal ASN.1 EC private key or in Wallet Import Format. If no private
key is provided, a hexadecimal public key is expected as an argument.
`

// KeyDescription describes a key and the Bitcoin addresses it controls.
// Private parts are omitted for public keys.
type KeyDescription struct {
	PrivateKey     string `json:"privateKey,omitempty"`
	WIF            string `json:"wif,omitempty"`
	PublicKey      string `json:"publicKey"`
	Compressed     bool   `json:"compressed"`
	Address        string `json:"address"`
	WitnessAddress string `json:"witnessAddress"`
	CreationTime   int64  `json:"creationTime,omitempty"`
}

// GenerateKey generates a new private key and outputs its description.
func GenerateKey(c *cli.Context) error {
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	var privateKey *ecdsa.PrivateKey
	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			generatedKey, err := ecdsa.GenerateKey(crand.Reader)
			if err != nil {
				return err
			}
			privateKey = generatedKey
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to generate key: [%v]", err)
	}

	if c.Bool("compressed") {
		privateKey = privateKey.Compressed()
	}

	logger.Debugf("generated key [%v]", privateKey)

	description, err := describeKey(privateKey, netParams)
	if err != nil {
		return err
	}

	marshaledDescription, err := json.Marshal(description)
	if err != nil {
		return fmt.Errorf("failed to marshal key description: [%v]", err)
	}

	return outputData(c, marshaledDescription, 0400) // read-only for the owner
}

// InspectKey outputs description of the provided key.
func InspectKey(c *cli.Context) error {
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	var key ecdsa.KeyPair
	if publicKeyArg := c.Args().First(); len(publicKeyArg) > 0 {
		key, err = parsePublicKey(publicKeyArg)
	} else {
		key, err = readPrivateKey(c, netParams)
	}
	if err != nil {
		return err
	}

	description, err := describeKey(key, netParams)
	if err != nil {
		return err
	}

	marshaledDescription, err := json.MarshalIndent(description, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key description: [%v]", err)
	}

	return outputData(c, marshaledDescription, 0400)
}

func describeKey(
	key ecdsa.KeyPair,
	netParams *chaincfg.Params,
) (*KeyDescription, error) {
	publicKey := key.PublicKey()

	address, err := btc.PublicKeyHashAddress(publicKey, netParams)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: [%v]", err)
	}

	witnessAddress, err := btc.PublicKeyToWitnessPubKeyHashAddress(
		publicKey,
		netParams,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve witness address: [%v]", err)
	}

	description := &KeyDescription{
		PublicKey:      hex.EncodeToString(publicKey.Bytes()),
		Compressed:     publicKey.IsCompressed(),
		Address:        address,
		WitnessAddress: witnessAddress,
	}

	if created := publicKey.CreationTime(); !created.IsZero() {
		description.CreationTime = created.Unix()
	}

	privateKey, err := ecdsa.AsPrivateKey(key)
	if err != nil {
		return description, nil
	}

	der, err := privateKey.MarshalASN1()
	if err != nil {
		return nil, err
	}
	description.PrivateKey = hex.EncodeToString(der)

	description.WIF, err = btc.EncodePrivateKeyWIF(privateKey, netParams)
	if err != nil {
		return nil, err
	}

	return description, nil
}
