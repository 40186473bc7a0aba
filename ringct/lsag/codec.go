package lsag

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
	"git.gammaspectra.live/P2Pool/lsag/utils"
	base58 "git.gammaspectra.live/P2Pool/monero-base58"
)

const SignaturePrefix = "LSAG"
const SignatureVersion = 1

func (s *Signature[T]) BufferLength() int {
	return curve25519.PrivateKeySize + len(s.S)*curve25519.PrivateKeySize + curve25519.PublicKeySize
}

func (s *Signature[T]) AppendBinary(preAllocatedBuf []byte) (data []byte, err error) {
	data = preAllocatedBuf
	data = append(data, s.C0.Bytes()...)
	for i := range s.S {
		data = append(data, s.S[i].Bytes()...)
	}
	data = s.KeyImage.AppendBinary(data)
	return data, nil
}

// FromReader Decodes a signature with n responses. Scalars and the key image must be canonically encoded,
// the key image subgroup is checked on Verify
func (s *Signature[T]) FromReader(reader utils.ReaderAndByteReader, n int) (err error) {
	var sec curve25519.PrivateKeyBytes
	var pub curve25519.PublicKeyBytes

	if _, err = utils.ReadFull(reader, sec[:]); err != nil {
		return err
	}
	if _, err = s.C0.SetCanonicalBytes(sec[:]); err != nil {
		return curve25519.ErrInvalidScalar
	}

	s.S = make([]curve25519.Scalar, n)
	for i := range s.S {
		if _, err = utils.ReadFull(reader, sec[:]); err != nil {
			return err
		}
		if _, err = s.S[i].SetCanonicalBytes(sec[:]); err != nil {
			return curve25519.ErrInvalidScalar
		}
	}

	if _, err = utils.ReadFull(reader, pub[:]); err != nil {
		return err
	}
	if _, err = s.KeyImage.SetBytes(pub[:]); err != nil {
		return err
	}
	return nil
}

// SignatureWithRing A signature together with the ring it was made over, which is how it travels.
//
// Wire format: uvarint n || n * ring member || C0 || n * S || key image
type SignatureWithRing[T curve25519.PointOperations] struct {
	Ring      ringct.Ring[T]
	Signature Signature[T]
}

func (s *SignatureWithRing[T]) Verify(message []byte) (ok bool, err error) {
	return s.Signature.Verify(message, s.Ring)
}

func (s *SignatureWithRing[T]) BufferLength() int {
	return s.Ring.BufferLength() + s.Signature.BufferLength()
}

func (s *SignatureWithRing[T]) AppendBinary(preAllocatedBuf []byte) (data []byte, err error) {
	if data, err = s.Ring.AppendBinary(preAllocatedBuf); err != nil {
		return nil, err
	}
	return s.Signature.AppendBinary(data)
}

func (s *SignatureWithRing[T]) Bytes() []byte {
	buf, _ := s.AppendBinary(make([]byte, 0, s.BufferLength()))
	return buf
}

// FromReader Decodes a signature and its ring. Every failure wraps ErrMalformedSignature
func (s *SignatureWithRing[T]) FromReader(reader utils.ReaderAndByteReader) (err error) {
	if err = s.Ring.FromReader(reader); err != nil {
		return malformed(err)
	}
	if err = s.Signature.FromReader(reader, len(s.Ring)); err != nil {
		return malformed(err)
	}
	return nil
}

func NewSignatureWithRingFromBytes[T curve25519.PointOperations](buf []byte) (*SignatureWithRing[T], error) {
	s := &SignatureWithRing[T]{}
	reader := bytes.NewReader(buf)
	if err := s.FromReader(reader); err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, malformed(ErrTrailingData)
	}
	return s, nil
}

// String Text form, LSAGV1 followed by the Monero base58 encoding of the wire format
func (s *SignatureWithRing[T]) String() string {
	return fmt.Sprintf("%sV%d%s", SignaturePrefix, SignatureVersion, base58.EncodeMoneroBase58(s.Bytes()))
}

func NewSignatureWithRingFromString[T curve25519.PointOperations](str string) (*SignatureWithRing[T], error) {
	if !strings.HasPrefix(str, SignaturePrefix) {
		return nil, malformed(errors.New("unknown prefix"))
	}

	offset := len(SignaturePrefix)

	if len(str) <= offset+2 || str[offset] != 'V' {
		return nil, malformed(errors.New("invalid text encoding"))
	}

	if str[offset+1] != '0'+SignatureVersion {
		return nil, malformed(errors.New("unknown version"))
	}

	offset += 2

	buf := base58.DecodeMoneroBase58([]byte(str[offset:]))
	if buf == nil {
		return nil, malformed(errors.New("invalid base58 encoding"))
	}

	return NewSignatureWithRingFromBytes[T](buf)
}

type signatureWithRingJSON struct {
	Ring     []curve25519.PublicKeyBytes  `json:"ring"`
	C0       curve25519.PrivateKeyBytes   `json:"c0"`
	S        []curve25519.PrivateKeyBytes `json:"s"`
	KeyImage curve25519.PublicKeyBytes    `json:"key_image"`
}

func (s SignatureWithRing[T]) MarshalJSON() ([]byte, error) {
	v := signatureWithRingJSON{
		Ring:     make([]curve25519.PublicKeyBytes, len(s.Ring)),
		C0:       curve25519.PrivateKeyBytes(s.Signature.C0.Bytes()),
		S:        make([]curve25519.PrivateKeyBytes, len(s.Signature.S)),
		KeyImage: s.Signature.KeyImage.Bytes(),
	}
	for i := range s.Ring {
		v.Ring[i] = s.Ring[i].Bytes()
	}
	for i := range s.Signature.S {
		v.S[i] = curve25519.PrivateKeyBytes(s.Signature.S[i].Bytes())
	}
	return utils.MarshalJSON(v)
}

// UnmarshalJSON Applies the same checks as FromReader
func (s *SignatureWithRing[T]) UnmarshalJSON(b []byte) error {
	var v signatureWithRingJSON
	if err := utils.UnmarshalJSON(b, &v); err != nil {
		return malformed(err)
	}

	if len(v.S) != len(v.Ring) {
		return malformed(ErrInvalidResponseCount)
	}

	// re-encode, keeping a single decoding path
	buf := make([]byte, 0, utils.UVarInt64Size(len(v.Ring))+(len(v.Ring)*2+2)*curve25519.PublicKeySize)
	buf = utils.AppendCanonicalUvarint(buf, uint64(len(v.Ring)))
	for i := range v.Ring {
		buf = append(buf, v.Ring[i][:]...)
	}
	buf = append(buf, v.C0[:]...)
	for i := range v.S {
		buf = append(buf, v.S[i][:]...)
	}
	buf = append(buf, v.KeyImage[:]...)

	decoded, err := NewSignatureWithRingFromBytes[T](buf)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

var _ utils.Serializable = &SignatureWithRing[curve25519.ConstantTimeOperations]{}
