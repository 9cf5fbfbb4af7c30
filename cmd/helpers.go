package cmd

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ipfs/go-log"
	"github.com/urfave/cli"

	"github.com/keep-network/keep-eckey/config"
	"github.com/keep-network/keep-eckey/pkg/btc"
	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

var logger = log.Logger("keep-cmd")

// PrivateKeyEnvVariable is the environment variable the private key is read
// from when the `key` flag is not set.
const PrivateKeyEnvVariable = "KEEP_ECKEY_PRIVATE_KEY"

// readConfig reads the configuration file pointed by the global `config`
// flag and applies its log level. A missing file at the default location is
// not an error; defaults are used instead.
func readConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.GlobalString("config")

	cfg := &config.Config{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !c.GlobalIsSet("config") {
		logger.Debugf("config file [%s] not found; using defaults", configPath)
	} else {
		cfg, err = config.ReadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed while reading config file: [%v]", err)
		}
	}

	if err := log.SetLogLevel("*", cfg.Log.GetLevel()); err != nil {
		return nil, fmt.Errorf(
			"failed to set log level [%s]: [%v]",
			cfg.Log.GetLevel(),
			err,
		)
	}

	return cfg, nil
}

// readPrivateKey reads the private key from the `key` flag or, if the flag
// is not set, from the PrivateKeyEnvVariable environment variable. The value
// is either the key itself or a path to a file holding it.
func readPrivateKey(
	c *cli.Context,
	netParams *chaincfg.Params,
) (*ecdsa.PrivateKey, error) {
	encoded := c.String("key")
	if len(encoded) == 0 {
		encoded = os.Getenv(PrivateKeyEnvVariable)
	}
	if len(encoded) == 0 {
		return nil, fmt.Errorf(
			"private key not provided; set the key flag or %s environment variable",
			PrivateKeyEnvVariable,
		)
	}

	if info, err := os.Stat(encoded); err == nil && !info.IsDir() {
		content, err := ioutil.ReadFile(filepath.Clean(encoded))
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: [%v]", err)
		}
		encoded = string(content)
	}

	return parsePrivateKey(encoded, netParams)
}

// parsePrivateKey parses a private key given as a hexadecimal 32-byte
// scalar, a hexadecimal ASN.1 EC private key structure or a key in the
// Wallet Import Format of the given network.
func parsePrivateKey(
	encoded string,
	netParams *chaincfg.Params,
) (*ecdsa.PrivateKey, error) {
	encoded = strings.TrimSpace(encoded)

	if decoded, err := hex.DecodeString(encoded); err == nil {
		if len(decoded) == 32 {
			return ecdsa.PrivateKeyFromBytes(decoded)
		}
		return ecdsa.ParsePrivateKeyASN1(decoded)
	}

	return btc.DecodePrivateKeyWIF(encoded, netParams)
}

// parsePublicKey parses a hexadecimal SEC1 encoded public key.
func parsePublicKey(encoded string) (*ecdsa.PublicKey, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: [%v]", err)
	}

	return ecdsa.ParsePublicKey(decoded)
}

func readInput(c *cli.Context) ([]byte, error) {
	if inputFilePath := c.String("input-file"); len(inputFilePath) > 0 {
		fileContent, err := ioutil.ReadFile(filepath.Clean(inputFilePath))
		if err != nil {
			return nil, fmt.Errorf("failed to read a file: [%v]", err)
		}
		return fileContent, nil
	}

	arg := c.Args().First()
	if len(arg) == 0 {
		return nil, fmt.Errorf("missing argument")
	}

	return []byte(arg), nil
}

func outputData(c *cli.Context, data []byte, filePermissions os.FileMode) error {
	if outputFilePath := c.String("output-file"); len(outputFilePath) > 0 {
		if _, err := os.Stat(outputFilePath); !os.IsNotExist(err) {
			return fmt.Errorf(
				"could not write output to a file; file [%s] already exists",
				outputFilePath,
			)
		}

		err := ioutil.WriteFile(outputFilePath, data, filePermissions)
		if err != nil {
			return fmt.Errorf(
				"failed to write output to a file [%s]: [%v]",
				outputFilePath,
				err,
			)
		}

		fmt.Printf("output stored to a file: %s\n", outputFilePath)
	} else {
		_, err := os.Stdout.Write(append(data, '\n'))
		if err != nil {
			return fmt.Errorf(
				"could not write bytes to stdout: [%v]",
				err,
			)
		}
	}

	return nil
}
