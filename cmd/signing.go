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
	"github.com/keep-network/keep-eckey/pkg/message"
	"github.com/keep-network/keep-eckey/pkg/utils"
)

// SigningCommand contains the definition of the `signing` command-line
// subcommand and its own subcommands.
var SigningCommand = cli.Command{
	Name:  "signing",
	Usage: "Calculates and verifies signatures",
	Subcommands: []cli.Command{
		{
			Name:        "sign-digest",
			Usage:       "Signs a digest using the provided private key",
			Description: signDigestDescription,
			Action:      SignDigest,
			ArgsUsage:   "[unprefixed-hex-digest]",
			Flags: []cli.Flag{
				privateKeyFlag,
				outputFileFlag,
			},
		},
		{
			Name:        "verify-digest",
			Usage:       "Verifies a digest signature",
			Description: verifyDigestDescription,
			Action:      VerifyDigest,
			ArgsUsage:   "[digest-signature]",
			Flags: []cli.Flag{
				inputFileFlag,
			},
		},
		{
			Name:        "sign-message",
			Usage:       "Signs a message using the provided private key",
			Description: signMessageDescription,
			Action:      SignMessage,
			ArgsUsage:   "[message]",
			Flags: []cli.Flag{
				privateKeyFlag,
				outputFileFlag,
			},
		},
		{
			Name:        "verify-message",
			Usage:       "Verifies a message signature",
			Description: verifyMessageDescription,
			Action:      VerifyMessage,
			ArgsUsage:   "[message-signature]",
			Flags: []cli.Flag{
				inputFileFlag,
			},
		},
		{
			Name:        "recover-message",
			Usage:       "Recovers the key which signed a message",
			Description: recoverMessageDescription,
			Action:      RecoverMessageSigner,
			ArgsUsage:   "[message] [base64-signature]",
		},
	},
}

var (
	privateKeyFlag = cli.StringFlag{
		Name: "key,k",
		Usage: "Private key or a path to the private key file. " +
			"If not provided read the key from " + PrivateKeyEnvVariable +
			" environment variable.",
	}
	outputFileFlag = cli.StringFlag{
		Name:  "output-file,o",
		Usage: "Output file for the signature",
	}
	inputFileFlag = cli.StringFlag{
		Name:  "input-file,i",
		Usage: "Input file with the signature",
	}
)

const signDigestDescription = `Calculates an ECDSA signature over a digest
provided as an unprefixed hexadecimal string. The digest is signed as is, it
is not hashed again.

The result is outputted as:
{
	"publicKey": "<hexadecimal SEC1 public key>",
	"digest": "<hexadecimal digest>",
	"sig": "<hexadecimal DER signature>"
}

If 'output-file' flag is set the result will be stored in a specified file path.
`

const verifyDigestDescription = `Verifies a digest signature in the format
outputted by the 'sign-digest' command.

If 'input-file' flag is set the input will be read from a specified file path.
`

const signMessageDescription = `Signs a message the way the 'signmessage'
command of the Bitcoin reference client does. The message is prefixed with the
magic string configured in the config file and hashed twice with SHA-256.

The result is outputted as:
{
	"address": "<P2PKH address of the key>",
	"msg": "<content>",
	"sig": "<base64 signature>"
}

If 'output-file' flag is set the result will be stored in a specified file path.
`

const verifyMessageDescription = `Verifies a message signature in the format
outputted by the 'sign-message' command. The address can be either a P2PKH or
a P2WPKH address of the configured network.

If 'input-file' flag is set the input will be read from a specified file path.
`

const recoverMessageDescription = `Recovers the public key which signed
a message and describes it in the format of the 'key inspect' command.
`

// DigestSignature is a signature over a digest together with the public key
// verifying it.
type DigestSignature struct {
	PublicKey string `json:"publicKey"`
	Digest    string `json:"digest"`
	Signature string `json:"sig"`
}

// MessageSignature is a signed message together with the address of the
// signer.
type MessageSignature struct {
	Address   string `json:"address"`
	Message   string `json:"msg"`
	Signature string `json:"sig"`
}

// SignDigest signs a digest with the provided private key.
func SignDigest(c *cli.Context) error {
	digest := c.Args().First()
	if len(digest) == 0 {
		return fmt.Errorf("invalid digest")
	}

	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	privateKey, err := readPrivateKey(c, netParams)
	if err != nil {
		return err
	}

	var digestSignature *DigestSignature
	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			signature, err := signDigest(privateKey, digest)
			if err != nil {
				return err
			}
			digestSignature = signature
			return nil
		},
	)
	if err != nil {
		return err
	}

	marshaledSignature, err := json.Marshal(digestSignature)
	if err != nil {
		return fmt.Errorf("failed to marshal digest signature: [%v]", err)
	}

	return outputData(c, marshaledSignature, 0644)
}

// VerifyDigest verifies a digest signature.
func VerifyDigest(c *cli.Context) error {
	input, err := readInput(c)
	if err != nil {
		return err
	}

	digestSignature := &DigestSignature{}
	if err := json.Unmarshal(input, digestSignature); err != nil {
		return fmt.Errorf("failed to unmarshal digest signature: [%v]", err)
	}

	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			return verifyDigest(digestSignature)
		},
	)
	if err != nil {
		return err
	}

	fmt.Printf(
		"signature verified correctly, digest [%s] was signed by [%s]\n",
		digestSignature.Digest,
		digestSignature.PublicKey,
	)

	return nil
}

// SignMessage signs a message with the provided private key.
func SignMessage(c *cli.Context) error {
	text := c.Args().First()
	if len(text) == 0 {
		return fmt.Errorf("invalid message")
	}

	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	privateKey, err := readPrivateKey(c, netParams)
	if err != nil {
		return err
	}

	signer := message.New(cfg.Message.GetMagic(), crand.Reader)

	var messageSignature *MessageSignature
	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			signature, err := signMessage(signer, privateKey, netParams, text)
			if err != nil {
				return err
			}
			messageSignature = signature
			return nil
		},
	)
	if err != nil {
		return err
	}

	marshaledSignature, err := json.Marshal(messageSignature)
	if err != nil {
		return fmt.Errorf("failed to marshal message signature: [%v]", err)
	}

	return outputData(c, marshaledSignature, 0644)
}

// VerifyMessage verifies if a message was signed by the key behind the
// given address.
func VerifyMessage(c *cli.Context) error {
	input, err := readInput(c)
	if err != nil {
		return err
	}

	messageSignature := &MessageSignature{}
	if err := json.Unmarshal(input, messageSignature); err != nil {
		return fmt.Errorf("failed to unmarshal message signature: [%v]", err)
	}

	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	signer := message.New(cfg.Message.GetMagic(), crand.Reader)

	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			return verifyMessage(signer, netParams, messageSignature)
		},
	)
	if err != nil {
		return err
	}

	fmt.Printf(
		"signature verified correctly, message [%s] was signed by [%s]\n",
		messageSignature.Message,
		messageSignature.Address,
	)

	return nil
}

// RecoverMessageSigner recovers the public key which signed the message.
func RecoverMessageSigner(c *cli.Context) error {
	text := c.Args().First()
	if len(text) == 0 {
		return fmt.Errorf("invalid message")
	}

	signature := c.Args().Get(1)
	if len(signature) == 0 {
		return fmt.Errorf("invalid signature")
	}

	cfg, err := readConfig(c)
	if err != nil {
		return err
	}

	netParams, err := cfg.Bitcoin.ChainParams()
	if err != nil {
		return err
	}

	signer := message.New(cfg.Message.GetMagic(), crand.Reader)

	var publicKey *ecdsa.PublicKey
	err = utils.DoWithTimeout(
		cfg.Operation.GetTimeout(),
		func(ctx context.Context) error {
			recoveredKey, err := signer.RecoverPublicKey(text, signature)
			if err != nil {
				return err
			}
			publicKey = recoveredKey
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("could not recover public key from signature [%v]", err)
	}

	description, err := describeKey(publicKey, netParams)
	if err != nil {
		return err
	}

	marshaledDescription, err := json.MarshalIndent(description, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key description: [%v]", err)
	}

	return outputData(c, marshaledDescription, 0644)
}

func signDigest(
	privateKey *ecdsa.PrivateKey,
	digest string,
) (*DigestSignature, error) {
	digestBytes, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("could not decode digest string: [%v]", err)
	}

	signature, err := privateKey.SignDER(crand.Reader, digestBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: [%v]", err)
	}

	return &DigestSignature{
		PublicKey: hex.EncodeToString(privateKey.PublicKey().Bytes()),
		Digest:    hex.EncodeToString(digestBytes),
		Signature: hex.EncodeToString(signature),
	}, nil
}

func verifyDigest(digestSignature *DigestSignature) error {
	publicKey, err := hex.DecodeString(digestSignature.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to decode public key: [%v]", err)
	}

	digest, err := hex.DecodeString(digestSignature.Digest)
	if err != nil {
		return fmt.Errorf("failed to decode digest: [%v]", err)
	}

	signature, err := hex.DecodeString(digestSignature.Signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: [%v]", err)
	}

	ok, err := ecdsa.VerifyDER(digest, signature, publicKey)
	if err != nil {
		return fmt.Errorf("failed to verify signature: [%v]", err)
	}
	if !ok {
		return fmt.Errorf(
			"invalid signature [%s] for digest [%s]",
			digestSignature.Signature,
			digestSignature.Digest,
		)
	}

	return nil
}

func signMessage(
	signer *message.Signer,
	privateKey *ecdsa.PrivateKey,
	netParams *chaincfg.Params,
	text string,
) (*MessageSignature, error) {
	signature, err := signer.SignMessage(privateKey, text)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: [%v]", err)
	}

	address, err := btc.PublicKeyHashAddress(privateKey.PublicKey(), netParams)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: [%v]", err)
	}

	return &MessageSignature{
		Address:   address,
		Message:   text,
		Signature: signature,
	}, nil
}

func verifyMessage(
	signer *message.Signer,
	netParams *chaincfg.Params,
	messageSignature *MessageSignature,
) error {
	ok, err := btc.VerifyMessageAddress(
		signer,
		messageSignature.Address,
		netParams,
		messageSignature.Message,
		messageSignature.Signature,
	)
	if err != nil {
		return fmt.Errorf("failed to verify signature: [%v]", err)
	}
	if ok {
		return nil
	}

	recoveredKey, err := signer.RecoverPublicKey(
		messageSignature.Message,
		messageSignature.Signature,
	)
	if err != nil {
		return fmt.Errorf("could not recover public key from signature [%v]", err)
	}

	recoveredAddress, err := btc.PublicKeyHashAddress(recoveredKey, netParams)
	if err != nil {
		return fmt.Errorf("failed to resolve address: [%v]", err)
	}

	return fmt.Errorf(
		"invalid signer\n"+
			"\texpected signer: %s\n"+
			"\tactual signer:   %s",
		messageSignature.Address,
		recoveredAddress,
	)
}
