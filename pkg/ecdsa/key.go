package ecdsa

import (
	"bytes"
	cecdsa "crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcutil"
)

// KeyPair is a secp256k1 key. It is either a *PrivateKey, which can sign and
// verify, or a *PublicKey, which can only verify.
type KeyPair interface {
	// PublicKey returns the public part of the key.
	PublicKey() *PublicKey
}

// AsPrivateKey returns the signing key behind the KeyPair or ErrNoPrivateKey
// if the key holds only the public part.
func AsPrivateKey(key KeyPair) (*PrivateKey, error) {
	if privateKey, ok := key.(*PrivateKey); ok && privateKey != nil {
		return privateKey, nil
	}
	return nil, ErrNoPrivateKey
}

// creationTime holds key creation time in seconds since the unix epoch. Zero
// means the creation time is unknown.
type creationTime struct {
	seconds int64
}

func (ct *creationTime) get() time.Time {
	seconds := atomic.LoadInt64(&ct.seconds)
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0)
}

func (ct *creationTime) set(t time.Time) error {
	seconds := t.Unix()
	if seconds <= 0 {
		return fmt.Errorf("%w: [%v]", ErrInvalidCreationTime, t)
	}
	if !atomic.CompareAndSwapInt64(&ct.seconds, 0, seconds) {
		return ErrCreationTimeAlreadySet
	}
	return nil
}

// PublicKey is a point on the secp256k1 curve together with the encoding the
// key is serialized with.
type PublicKey struct {
	point      Point
	compressed bool
	created    creationTime

	hashOnce           sync.Once
	hash               []byte
	compressedHashOnce sync.Once
	compressedHash     []byte
}

// NewPublicKey creates a public key for the given curve point. The point has
// to be a finite point on the curve.
func NewPublicKey(point Point, compressed bool) (*PublicKey, error) {
	if !IsOnCurve(point) {
		return nil, fmt.Errorf("%w: public key is not on the curve", ErrInvalidPoint)
	}

	return &PublicKey{
		point: Point{
			X: new(big.Int).Set(point.X),
			Y: new(big.Int).Set(point.Y),
		},
		compressed: compressed,
	}, nil
}

// ParsePublicKey parses a public key serialized in the compressed or
// uncompressed form. The returned key keeps the encoding it was parsed from.
func ParsePublicKey(encoded []byte) (*PublicKey, error) {
	point, err := DecodePoint(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: [%w]", err)
	}

	return &PublicKey{
		point:      point,
		compressed: len(encoded) == CompressedPointLen,
	}, nil
}

// PublicKey returns the key itself so a *PublicKey satisfies KeyPair.
func (pk *PublicKey) PublicKey() *PublicKey {
	return pk
}

// Point returns a copy of the curve point of the key.
func (pk *PublicKey) Point() Point {
	return Point{
		X: new(big.Int).Set(pk.point.X),
		Y: new(big.Int).Set(pk.point.Y),
	}
}

// X returns the x coordinate of the public key.
func (pk *PublicKey) X() *big.Int {
	return new(big.Int).Set(pk.point.X)
}

// Y returns the y coordinate of the public key.
func (pk *PublicKey) Y() *big.Int {
	return new(big.Int).Set(pk.point.Y)
}

// IsCompressed returns true if the key is serialized in the 33-byte
// compressed form.
func (pk *PublicKey) IsCompressed() bool {
	return pk.compressed
}

// Bytes serializes the key in the form the key was created with.
func (pk *PublicKey) Bytes() []byte {
	return EncodePoint(pk.point, pk.compressed)
}

// SerializeCompressed serializes the key in the compressed form regardless
// of the key encoding.
func (pk *PublicKey) SerializeCompressed() []byte {
	return EncodePoint(pk.point, true)
}

// SerializeUncompressed serializes the key in the uncompressed form
// regardless of the key encoding.
func (pk *PublicKey) SerializeUncompressed() []byte {
	return EncodePoint(pk.point, false)
}

// Compressed returns a copy of the key serialized in the compressed form.
func (pk *PublicKey) Compressed() *PublicKey {
	return pk.withEncoding(true)
}

// Uncompressed returns a copy of the key serialized in the uncompressed
// form.
func (pk *PublicKey) Uncompressed() *PublicKey {
	return pk.withEncoding(false)
}

func (pk *PublicKey) withEncoding(compressed bool) *PublicKey {
	return &PublicKey{
		point:      pk.Point(),
		compressed: compressed,
		created:    creationTime{seconds: atomic.LoadInt64(&pk.created.seconds)},
	}
}

// Hash160 returns RIPEMD-160 hash over SHA-256 hash of the serialized key,
// as seen in pay-to-public-key-hash addresses. The hash is calculated once
// and memoized.
func (pk *PublicKey) Hash160() []byte {
	pk.hashOnce.Do(func() {
		pk.hash = btcutil.Hash160(pk.Bytes())
	})
	return append([]byte{}, pk.hash...)
}

// CompressedHash160 returns RIPEMD-160 hash over SHA-256 hash of the key
// serialized in the compressed form. The hash is calculated once and
// memoized.
func (pk *PublicKey) CompressedHash160() []byte {
	pk.compressedHashOnce.Do(func() {
		pk.compressedHash = btcutil.Hash160(pk.SerializeCompressed())
	})
	return append([]byte{}, pk.compressedHash...)
}

// IsEqual returns true if both keys have the same point and encoding.
func (pk *PublicKey) IsEqual(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(pk.Bytes(), other.Bytes())
}

// CreationTime returns the time the key was created at or zero time if it is
// unknown.
func (pk *PublicKey) CreationTime() time.Time {
	return pk.created.get()
}

// SetCreationTime sets the key creation time. It can be set only once and
// only for keys which do not know their creation time yet, like keys
// imported from elsewhere.
func (pk *PublicKey) SetCreationTime(t time.Time) error {
	return pk.created.set(t)
}

// ToECDSA returns the key as a crypto/ecdsa public key.
func (pk *PublicKey) ToECDSA() *cecdsa.PublicKey {
	return &cecdsa.PublicKey{
		Curve: Curve(),
		X:     pk.X(),
		Y:     pk.Y(),
	}
}

func (pk *PublicKey) String() string {
	description := fmt.Sprintf("pub:%s", hex.EncodeToString(pk.Bytes()))
	if created := pk.CreationTime(); !created.IsZero() {
		description += fmt.Sprintf(" timestamp:%d", created.Unix())
	}
	return description
}

// PrivateKey is a secp256k1 signing key. The public part is always derived
// from the private scalar.
type PrivateKey struct {
	d   *big.Int
	pub *PublicKey
}

// GenerateKey generates a new private key with a scalar drawn uniformly from
// `[1, n)` using the provided source of randomness. The creation time of the
// key is set to the current time.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	d, err := randomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: [%w]", err)
	}

	privateKey := newPrivateKey(d, false)
	if err := privateKey.SetCreationTime(time.Now()); err != nil {
		return nil, err
	}

	return privateKey, nil
}

// NewPrivateKey creates a private key for the given scalar and derives its
// public key. It is an expensive operation as it requires a full scalar
// multiplication. The public key uses the uncompressed encoding; use
// Compressed to switch it.
func NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(Params().N) >= 0 {
		return nil, fmt.Errorf(
			"%w: scalar must be in range [1, n)",
			ErrInvalidPrivateKey,
		)
	}

	return newPrivateKey(d, false), nil
}

// PrivateKeyFromBytes creates a private key from a big-endian scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return NewPrivateKey(new(big.Int).SetBytes(b))
}

func newPrivateKey(d *big.Int, compressed bool) *PrivateKey {
	return &PrivateKey{
		d: new(big.Int).Set(d),
		pub: &PublicKey{
			point:      ScalarBaseMult(d),
			compressed: compressed,
		},
	}
}

// randomScalar draws a scalar from `[1, n)`, rejecting out of range samples.
func randomScalar(rand io.Reader) (*big.Int, error) {
	n := Params().N
	buffer := make([]byte, (n.BitLen()+7)/8)

	for {
		if _, err := io.ReadFull(rand, buffer); err != nil {
			return nil, fmt.Errorf("failed to read random bytes: [%w]", err)
		}

		k := new(big.Int).SetBytes(buffer)
		if k.Sign() > 0 && k.Cmp(n) < 0 {
			return k, nil
		}
	}
}

// PublicKey returns the public part of the key or nil for a nil key.
func (k *PrivateKey) PublicKey() *PublicKey {
	if k == nil {
		return nil
	}
	return k.pub
}

// D returns a copy of the private scalar.
func (k *PrivateKey) D() *big.Int {
	return new(big.Int).Set(k.d)
}

// Bytes returns the private scalar as 32 big-endian bytes.
func (k *PrivateKey) Bytes() []byte {
	return k.d.FillBytes(make([]byte, fieldElementLen))
}

// Compressed returns a copy of the key which public part is serialized in
// the compressed form.
func (k *PrivateKey) Compressed() *PrivateKey {
	return &PrivateKey{d: k.D(), pub: k.pub.Compressed()}
}

// Uncompressed returns a copy of the key which public part is serialized in
// the uncompressed form.
func (k *PrivateKey) Uncompressed() *PrivateKey {
	return &PrivateKey{d: k.D(), pub: k.pub.Uncompressed()}
}

// CreationTime returns the time the key was created at or zero time if it is
// unknown.
func (k *PrivateKey) CreationTime() time.Time {
	return k.pub.CreationTime()
}

// SetCreationTime sets the creation time of a key which does not know it yet.
func (k *PrivateKey) SetCreationTime(t time.Time) error {
	return k.pub.SetCreationTime(t)
}

// ToECDSA returns the key as a crypto/ecdsa private key.
func (k *PrivateKey) ToECDSA() *cecdsa.PrivateKey {
	return &cecdsa.PrivateKey{
		PublicKey: *k.pub.ToECDSA(),
		D:         k.D(),
	}
}

func (k *PrivateKey) String() string {
	return k.pub.String()
}

// StringWithPrivate describes the key including the private scalar. It is
// meant for debugging and should never be logged in production.
func (k *PrivateKey) StringWithPrivate() string {
	return fmt.Sprintf("%s priv:%s", k.pub.String(), hex.EncodeToString(k.Bytes()))
}
