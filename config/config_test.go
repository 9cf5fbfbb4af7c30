package config

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/keep-network/keep-eckey/pkg/message"
)

func TestReadConfig(t *testing.T) {
	filepath := "../internal/testdata/config.toml"
	cfg, err := ReadConfig(filepath)
	if err != nil {
		t.Fatalf(
			"failed to read test config: [%v]",
			err,
		)
	}

	var configReadTests = map[string]struct {
		readValueFunc func(*Config) interface{}
		expectedValue interface{}
	}{
		"Bitcoin.Network": {
			readValueFunc: func(c *Config) interface{} { return c.Bitcoin.Network },
			expectedValue: "testnet3",
		},
		"Bitcoin.ChainParams()": {
			readValueFunc: func(c *Config) interface{} {
				params, _ := c.Bitcoin.ChainParams()
				return *params
			},
			expectedValue: chaincfg.TestNet3Params,
		},
		"Message.Magic": {
			readValueFunc: func(c *Config) interface{} { return c.Message.GetMagic() },
			expectedValue: "Litecoin Signed Message:\n",
		},
		"Operation.Timeout": {
			readValueFunc: func(c *Config) interface{} { return c.Operation.GetTimeout() },
			expectedValue: 4*time.Minute + 20*time.Second,
		},
		"Log.Level": {
			readValueFunc: func(c *Config) interface{} { return c.Log.GetLevel() },
			expectedValue: "debug",
		},
	}

	for testName, test := range configReadTests {
		t.Run(testName, func(t *testing.T) {
			expected := test.expectedValue
			actual := test.readValueFunc(cfg)
			if !reflect.DeepEqual(expected, actual) {
				t.Errorf("\nexpected: %s\nactual:   %s", expected, actual)
			}
		})
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig("../internal/testdata/missing.toml")
	if err == nil {
		t.Fatalf("expecting an error but found none")
	}
}

func TestDefaults(t *testing.T) {
	config := &Config{}
	if _, err := toml.Decode("", config); err != nil {
		t.Fatal(err)
	}

	if config.Message.GetMagic() != message.BitcoinMagic {
		t.Errorf(
			"unexpected magic\nexpected: %q\nactual:   %q",
			message.BitcoinMagic,
			config.Message.GetMagic(),
		)
	}

	if config.Operation.GetTimeout() != defaultOperationTimeout {
		t.Errorf(
			"unexpected timeout\nexpected: %v\nactual:   %v",
			defaultOperationTimeout,
			config.Operation.GetTimeout(),
		)
	}

	if config.Log.GetLevel() != defaultLogLevel {
		t.Errorf(
			"unexpected log level\nexpected: %v\nactual:   %v",
			defaultLogLevel,
			config.Log.GetLevel(),
		)
	}
}

func TestParseChainParams(t *testing.T) {
	var parseChainParamTests = map[string]struct {
		network     []string
		chainParams chaincfg.Params
	}{
		"main network": {
			[]string{"mainnet"},
			chaincfg.MainNetParams,
		},
		"regtest": {
			[]string{"regtest"},
			chaincfg.RegressionNetParams,
		},
		"simnet": {
			[]string{"simnet"},
			chaincfg.SimNetParams,
		},
		"testnet3": {
			[]string{"testnet3"},
			chaincfg.TestNet3Params,
		},
		"undefined": {
			[]string{},
			chaincfg.MainNetParams,
		},
		"empty": {
			[]string{""},
			chaincfg.MainNetParams,
		},
	}
	for testName, testData := range parseChainParamTests {
		t.Run(testName, func(t *testing.T) {
			// use a string builder and a single-value list to represent optionality
			var b strings.Builder
			fmt.Fprint(&b, "[Bitcoin]")
			for _, name := range testData.network {
				fmt.Fprintf(&b, "\nNetwork=\"%s\"", name)
			}
			config := &Config{}
			if _, err := toml.Decode(b.String(), config); err != nil {
				t.Fatal(err)
			}
			chainParams, err := config.Bitcoin.ChainParams()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(*chainParams, testData.chainParams) {
				t.Errorf("unexpected net params\nexpected: %v\nactual:   %v", testData.chainParams, chainParams)
			}
		})
	}
}

func TestParseChainParams_ExpectedFailure(t *testing.T) {
	configString := fmt.Sprintf("[Bitcoin]\nNetwork=\"%s\"", "bleeble blabble")
	config := &Config{}
	if _, err := toml.Decode(configString, config); err != nil {
		t.Fatal(err)
	}
	_, err := config.Bitcoin.ChainParams()
	expectedError := "unable to find chaincfg param for name: [bleeble blabble]"
	if err == nil {
		t.Fatalf("expecting an error but found none")
	}
	if !errorContains(err, expectedError) {
		t.Errorf(
			"unexpected error\nexpected: %s\nactual:   %v",
			expectedError,
			err,
		)
	}
}

func TestNegativeTimeout(t *testing.T) {
	config := &Config{}
	_, err := toml.Decode("[Operation]\nTimeout=\"-5s\"", config)
	if err == nil {
		t.Fatalf("expecting an error but found none")
	}
}

func errorContains(err error, expected string) bool {
	return strings.Contains(err.Error(), expected)
}
