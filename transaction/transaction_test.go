package transaction

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/registry"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
	"git.gammaspectra.live/P2Pool/lsag/ringct/lsag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const Amount = 1337

func testRing[T curve25519.PointOperations](t testing.TB, n, signerIndex int, randomReader io.Reader) (ringct.Ring[T], *crypto.KeyPair[T]) {
	keyPair, err := crypto.GenerateKeyPair[T](randomReader)
	require.NoError(t, err)

	members := make([]curve25519.PublicKey[T], n)
	for i := range members {
		if i == signerIndex {
			members[i] = keyPair.PublicKey
		} else {
			require.NotNil(t, curve25519.RandomPoint(&members[i], randomReader))
		}
	}

	ring, err := ringct.NewRing(members...)
	require.NoError(t, err)
	return ring, keyPair
}

func requireKind(t testing.TB, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	actual, ok := KindOf(err)
	require.True(t, ok, "not a TxError: %v", err)
	require.Equal(t, kind, actual, "%v", err)
}

func testTransaction[T curve25519.PointOperations](t *testing.T) {
	rng := crypto.NewDeterministicTestGenerator()
	binding := []byte("destination")

	ring, keyPair := testRing[T](t, 5, 3, rng)
	tx, err := Create(Amount, ring, 3, keyPair, binding, rng)
	require.NoError(t, err)

	t.Run("Verify", func(t *testing.T) {
		require.NoError(t, Verify(tx, nil))
		require.NoError(t, Verify(tx, registry.New(0)))
	})

	t.Run("Amount", func(t *testing.T) {
		tampered := *tx
		tampered.Amount = Amount + 1
		requireKind(t, Verify(&tampered, nil), KindInvalidSignature)
		assert.ErrorIs(t, Verify(&tampered, nil), ErrInvalidSignature)
	})

	t.Run("Binding", func(t *testing.T) {
		tampered := *tx
		tampered.Binding = []byte("Destination")
		requireKind(t, Verify(&tampered, nil), KindInvalidSignature)

		// length is part of the prefix hash
		tampered.Binding = append(bytes.Clone(binding), 0)
		requireKind(t, Verify(&tampered, nil), KindInvalidSignature)
	})

	t.Run("Ring", func(t *testing.T) {
		tampered := *tx
		tampered.Signature.Ring = append(ringct.Ring[T]{}, tx.Signature.Ring...)
		require.NotNil(t, curve25519.RandomPoint(&tampered.Signature.Ring[0], rng))
		requireKind(t, Verify(&tampered, nil), KindInvalidSignature)

		tampered.Signature.Ring = tx.Signature.Ring[:4]
		requireKind(t, Verify(&tampered, nil), KindMalformed)
		assert.ErrorIs(t, Verify(&tampered, nil), lsag.ErrMalformedSignature)
	})

	t.Run("DoubleSpend", func(t *testing.T) {
		spent := registry.New(0)
		require.NoError(t, Verify(tx, spent))
		require.NoError(t, spent.Register(tx.KeyImage()))

		err := Verify(tx, spent)
		requireKind(t, err, KindDoubleSpend)
		assert.ErrorIs(t, err, ErrDoubleSpend)

		// same key, different ring, amount and binding
		otherRing, _ := testRing[T](t, 3, 0, rng)
		otherRing[1] = keyPair.PublicKey
		other, err := Create(1, otherRing, 1, keyPair, nil, rng)
		require.NoError(t, err)
		require.NoError(t, Verify(other, nil))
		requireKind(t, Verify(other, spent), KindDoubleSpend)
	})

	t.Run("Binary", func(t *testing.T) {
		buf := tx.Bytes()
		require.Len(t, buf, tx.BufferLength())

		decoded, err := NewTransactionFromBytes[T](buf)
		require.NoError(t, err)
		assert.Equal(t, tx.Id(), decoded.Id())
		assert.Equal(t, buf, decoded.Bytes())
		require.NoError(t, Verify(decoded, nil))

		_, err = NewTransactionFromBytes[T](buf[:len(buf)-1])
		requireKind(t, err, KindMalformed)

		_, err = NewTransactionFromBytes[T](append(bytes.Clone(buf), 0))
		requireKind(t, err, KindMalformed)
		assert.ErrorIs(t, err, ErrTrailingData)

		// amount flipped on the wire
		tampered := bytes.Clone(buf)
		tampered[0] ^= 1
		decoded, err = NewTransactionFromBytes[T](tampered)
		require.NoError(t, err)
		assert.NotEqual(t, tx.Id(), decoded.Id())
		requireKind(t, Verify(decoded, nil), KindInvalidSignature)
	})

	t.Run("Record", func(t *testing.T) {
		record := tx.Record()
		assert.Equal(t, tx.Id(), record.Id)
		assert.Equal(t, tx.KeyImage(), record.KeyImage)
		assert.Equal(t, uint64(Amount), record.Amount)
		assert.Equal(t, 5, record.RingSize)
		assert.Equal(t, len(tx.Bytes()), record.BlobSize)
	})

	t.Run("JSON", func(t *testing.T) {
		buf, err := tx.MarshalJSON()
		require.NoError(t, err)

		var v struct {
			Id       string `json:"id"`
			Amount   uint64 `json:"amount"`
			KeyImage string `json:"key_image"`
		}
		require.NoError(t, json.Unmarshal(buf, &v))
		assert.Equal(t, tx.Id().String(), v.Id)
		assert.Equal(t, uint64(Amount), v.Amount)
		assert.Equal(t, tx.KeyImage().String(), v.KeyImage)
	})
}

func TestTransaction(t *testing.T) {
	t.Run("Constant", testTransaction[curve25519.ConstantTimeOperations])
	t.Run("VarTime", testTransaction[curve25519.VarTimeOperations])
}

func TestCreateErrors(t *testing.T) {
	rng := crypto.NewDeterministicTestGenerator()
	ring, keyPair := testRing[curve25519.ConstantTimeOperations](t, 3, 0, rng)

	_, err := Create(Amount, ring, 0, keyPair, make([]byte, MaxBindingSize+1), rng)
	assert.ErrorIs(t, err, ErrBindingTooLarge)

	_, err = Create(Amount, ring, 3, keyPair, nil, rng)
	assert.ErrorIs(t, err, ringct.ErrIndexOutOfRange)

	_, err = Create(Amount, ringct.Ring[curve25519.ConstantTimeOperations]{ring[0], ring[0]}, 0, keyPair, nil, rng)
	assert.ErrorIs(t, err, ringct.ErrDuplicateRingMember)
}

func TestVerifyBatch(t *testing.T) {
	rng := crypto.NewDeterministicTestGenerator()

	var txs []*Transaction[curve25519.VarTimeOperations]
	var pairs []*crypto.KeyPair[curve25519.VarTimeOperations]
	for i := 0; i < 8; i++ {
		ring, keyPair := testRing[curve25519.VarTimeOperations](t, 4, i%4, rng)
		tx, err := Create(uint64(i), ring, i%4, keyPair, []byte{byte(i)}, rng)
		require.NoError(t, err)
		txs = append(txs, tx)
		pairs = append(pairs, keyPair)
	}

	// invalid signature
	txs[2].Amount++

	// already spent
	spent := registry.New(0)
	require.NoError(t, spent.Register(txs[5].KeyImage()))

	// second spend of txs[0] key within the batch
	ring, _ := testRing[curve25519.VarTimeOperations](t, 4, 0, rng)
	ring[2] = pairs[0].PublicKey
	again, err := Create(100, ring, 2, pairs[0], nil, rng)
	require.NoError(t, err)
	txs = append(txs, again)

	results := VerifyBatch(txs, 3, spent)
	require.Len(t, results, len(txs))

	for i, err := range results {
		switch i {
		case 2:
			requireKind(t, err, KindInvalidSignature)
		case 5, 8:
			requireKind(t, err, KindDoubleSpend)
		default:
			assert.NoError(t, err, "#%d", i)
		}
	}
}
