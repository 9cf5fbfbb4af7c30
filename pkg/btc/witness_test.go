package btc

import (
	"bytes"
	crand "crypto/rand"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/keep-network/keep-eckey/pkg/ecdsa"
)

func TestSetSignatureWitnessToTransaction(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(crand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	hash := bytes.Repeat([]byte{0x11}, 32)
	signature, err := privateKey.Sign(crand.Reader, hash)
	if err != nil {
		t.Fatal(err)
	}

	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, nil, nil))

	err = SetSignatureWitnessToTransaction(
		signature,
		privateKey.PublicKey(),
		0,
		msgTx,
	)
	if err != nil {
		t.Fatal(err)
	}

	witness := msgTx.TxIn[0].Witness
	if len(witness) != 2 {
		t.Fatalf("unexpected witness length [%d]", len(witness))
	}

	sig := witness[0]
	if sig[len(sig)-1] != byte(txscript.SigHashAll) {
		t.Errorf("unexpected signature hash type [%x]", sig[len(sig)-1])
	}

	ok, err := ecdsa.VerifyDER(hash, sig[:len(sig)-1], witness[1])
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("witness signature is not valid")
	}

	if !bytes.Equal(witness[1], privateKey.PublicKey().SerializeCompressed()) {
		t.Errorf(
			"unexpected witness public key\nexpected: [%x]\nactual:   [%x]",
			privateKey.PublicKey().SerializeCompressed(),
			witness[1],
		)
	}

	err = SetSignatureWitnessToTransaction(
		signature,
		privateKey.PublicKey(),
		1,
		msgTx,
	)
	if err == nil {
		t.Errorf("expected error for input index out of range")
	}
}
