package main

import (
	"context"
	"encoding/binary"
	"flag"
	"io"
	"os"
	"os/signal"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ledger"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
	"git.gammaspectra.live/P2Pool/lsag/ringct/lsag"
	"git.gammaspectra.live/P2Pool/lsag/transaction"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

type KeyPair = crypto.KeyPair[curve25519.ConstantTimeOperations]
type Ring = ringct.Ring[curve25519.ConstantTimeOperations]

func randomIndex(n int) int {
	var buf [8]byte
	if _, err := io.ReadFull(crypto.RandomReader, buf[:]); err != nil {
		utils.Panicf("could not read randomness: %s", err)
	}
	return int(binary.LittleEndian.Uint64(buf[:]) % uint64(n))
}

// newRing Ring of ringSize fresh keys, keeping the secret of the member at the returned index
func newRing(ringSize int) (Ring, *KeyPair, int) {
	signerIndex := randomIndex(ringSize)

	members := make([]curve25519.ConstantTimePublicKey, ringSize)
	var signer *KeyPair
	for i := range members {
		pair, err := crypto.GenerateKeyPair[curve25519.ConstantTimeOperations](crypto.RandomReader)
		if err != nil {
			utils.Panicf("generate key: %s", err)
		}
		members[i] = pair.PublicKey
		if i == signerIndex {
			signer = pair
		} else {
			pair.Zero()
		}
	}

	ring, err := ringct.NewRing(members...)
	if err != nil {
		utils.Panicf("ring: %s", err)
	}
	return ring, signer, signerIndex
}

func main() {
	ringSize := flag.Int("ring-size", 4, "Members in each ring, including the signer")
	amount := flag.Uint64("amount", 100, "Amount transferred in the example transaction")
	debug := flag.Bool("debug", false, "Log debug and notice messages")
	zmqBind := flag.String("zmq-bind", "", "Publish committed transactions on this ZeroMQ endpoint, for example tcp://127.0.0.1:18085")
	flag.Parse()

	if *debug {
		utils.GlobalLogLevel |= utils.LogLevelNotice | utils.LogLevelDebug
	}

	if *ringSize < ringct.MinRingSize || *ringSize > ringct.MaxRingSize {
		utils.Fatalf("ring size must be within [%d, %d], got %d", ringct.MinRingSize, ringct.MaxRingSize, *ringSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	message := []byte("Transaction data")

	ring, signer, signerIndex := newRing(*ringSize)
	utils.Debugf("LSAG", "Signing as ring member #%d", signerIndex)

	sig, err := lsag.Sign(message, ring, signerIndex, signer, crypto.RandomReader)
	if err != nil {
		utils.Fatalf("sign: %s", err)
	}

	signed := &lsag.SignatureWithRing[curve25519.ConstantTimeOperations]{Ring: ring, Signature: sig}
	utils.Logf("LSAG", "Generated signature: %s", signed.String())

	ok, err := signed.Verify(message)
	if err != nil {
		utils.Fatalf("verify: %s", err)
	}
	utils.Logf("LSAG", "Correct signature verification result: %t", ok)

	tampered := sig
	tampered.S = append([]curve25519.Scalar{}, sig.S...)
	tampered.S[0].Add(&tampered.S[0], (&curve25519.PrivateKeyBytes{1}).Scalar())
	ok, err = tampered.Verify(message, ring)
	if err != nil {
		utils.Fatalf("verify: %s", err)
	}
	utils.Logf("LSAG", "Incorrect signature verification result: %t", ok)
	signer.Zero()

	l := ledger.NewMemoryLedger()
	if *zmqBind != "" {
		notifier, err := ledger.NewNotifier(ctx, *zmqBind)
		if err != nil {
			utils.Fatalf("notifier: %s", err)
		}
		defer notifier.Close()
		l.OnCommit(notifier.Listener)
		utils.Logf("ZMQ", "Publishing %s on %s", ledger.TopicMinimalTxCommit, *zmqBind)
	}

	validator := transaction.NewValidator[curve25519.ConstantTimeOperations](l, transaction.DefaultValidatorOptions)

	bob, err := crypto.GenerateKeyPair[curve25519.ConstantTimeOperations](crypto.RandomReader)
	if err != nil {
		utils.Fatalf("generate key: %s", err)
	}
	bob.Zero()

	ring, alice, aliceIndex := newRing(*ringSize)
	defer alice.Zero()

	tx, err := transaction.Create(*amount, ring, aliceIndex, alice, bob.PublicKey.Slice(), crypto.RandomReader)
	if err != nil {
		utils.Fatalf("create transaction: %s", err)
	}

	utils.Logf("Transaction", "Amount: %d", tx.Amount)
	utils.Logf("Transaction", "Bob's public key: %s", bob.PublicKey.String())
	utils.Logf("Transaction", "Ring signature: %s", tx.Signature.String())
	utils.Logf("Transaction", "Id: %s", tx.Id())

	err = validator.Submit(tx)
	utils.Logf("Transaction", "Verification result: %t", err == nil)

	// Alice signs again over a different ring, the key image gives the double spend away
	otherRing, _, _ := newRing(*ringSize)
	otherRing[aliceIndex] = alice.PublicKey
	again, err := transaction.Create(*amount, otherRing, aliceIndex, alice, bob.PublicKey.Slice(), crypto.RandomReader)
	if err != nil {
		utils.Fatalf("create transaction: %s", err)
	}
	err = validator.Submit(again)
	utils.Logf("Transaction", "Second spend result: %t (%v)", err == nil, err)

	utils.Logf("Ledger", "Committed %d transaction(s), total amount %s", l.Len(), l.Total().String())
}
