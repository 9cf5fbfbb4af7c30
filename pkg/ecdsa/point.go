package ecdsa

import (
	"fmt"
	"math/big"
)

const (
	// CompressedPointLen is the length of a point serialized in the
	// compressed form described in [SEC 1] section 2.3.3:
	// `02|03 + <x coordinate>`.
	CompressedPointLen = 33

	// UncompressedPointLen is the length of a point serialized in the
	// uncompressed form described in [SEC 1] section 2.3.3:
	// `04 + <x coordinate> + <y coordinate>`.
	UncompressedPointLen = 65

	fieldElementLen = 32

	pointTagInfinity     = 0x00
	pointTagEven         = 0x02
	pointTagOdd          = 0x03
	pointTagUncompressed = 0x04
)

// Point is a point on the secp256k1 curve in affine coordinates. The zero
// value is the point at infinity.
type Point struct {
	X *big.Int
	Y *big.Int
}

// newPoint builds a point from coordinates returned by the curve
// implementation, which uses (0, 0) to denote the point at infinity. (0, 0)
// is never on secp256k1, so the translation is unambiguous.
func newPoint(x, y *big.Int) Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return Point{}
	}
	return Point{X: x, Y: y}
}

// IsInfinity returns true if the point is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.X == nil || p.Y == nil
}

// IsEqual returns true if both points are the same curve point.
func (p Point) IsEqual(other Point) bool {
	if p.IsInfinity() || other.IsInfinity() {
		return p.IsInfinity() == other.IsInfinity()
	}
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// IsOnCurve returns true if the point is a finite point satisfying the curve
// equation `y² = x³ + 7` over the field.
func IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return false
	}

	prime := Params().P
	if p.X.Sign() < 0 || p.X.Cmp(prime) >= 0 ||
		p.Y.Sign() < 0 || p.Y.Cmp(prime) >= 0 {
		return false
	}

	return Curve().IsOnCurve(p.X, p.Y)
}

// Add returns the sum of two points.
func Add(a, b Point) Point {
	if a.IsInfinity() {
		return b
	}
	if b.IsInfinity() {
		return a
	}
	return newPoint(Curve().Add(a.X, a.Y, b.X, b.Y))
}

// Negate returns the additive inverse of the point, `(x, p - y)`.
func Negate(p Point) Point {
	if p.IsInfinity() {
		return Point{}
	}
	y := new(big.Int).Sub(Params().P, p.Y)
	y.Mod(y, Params().P)
	return Point{X: new(big.Int).Set(p.X), Y: y}
}

// ScalarMult returns `k * p`. The scalar is reduced modulo the group order.
func ScalarMult(p Point, k *big.Int) Point {
	reduced := new(big.Int).Mod(k, Params().N)
	if p.IsInfinity() || reduced.Sign() == 0 {
		return Point{}
	}
	return newPoint(Curve().ScalarMult(p.X, p.Y, reduced.Bytes()))
}

// ScalarBaseMult returns `k * G`. The scalar is reduced modulo the group
// order.
func ScalarBaseMult(k *big.Int) Point {
	reduced := new(big.Int).Mod(k, Params().N)
	if reduced.Sign() == 0 {
		return Point{}
	}
	return newPoint(Curve().ScalarBaseMult(reduced.Bytes()))
}

// hasGroupOrder checks whether `n * p` is the point at infinity. Scalars are
// reduced modulo `n`, so the check is evaluated as `(n - 1) * p == -p`.
func hasGroupOrder(p Point) bool {
	if !IsOnCurve(p) {
		return false
	}
	nMinusOne := new(big.Int).Sub(Params().N, big.NewInt(1))
	return ScalarMult(p, nMinusOne).IsEqual(Negate(p))
}

// EncodePoint serializes the point as described in [SEC 1] section 2.3.3.
// The point at infinity is serialized as a single zero byte.
func EncodePoint(p Point, compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{pointTagInfinity}
	}

	if compressed {
		encoded := make([]byte, CompressedPointLen)
		encoded[0] = pointTagEven
		if isOdd(p.Y) {
			encoded[0] = pointTagOdd
		}
		p.X.FillBytes(encoded[1:])
		return encoded
	}

	encoded := make([]byte, UncompressedPointLen)
	encoded[0] = pointTagUncompressed
	p.X.FillBytes(encoded[1 : 1+fieldElementLen])
	p.Y.FillBytes(encoded[1+fieldElementLen:])
	return encoded
}

// DecodePoint parses a point serialized in the compressed or uncompressed
// form described in [SEC 1] section 2.3.4. The point at infinity and hybrid
// encodings are not accepted.
func DecodePoint(encoded []byte) (Point, error) {
	if len(encoded) == 0 {
		return Point{}, fmt.Errorf("%w: empty point encoding", ErrInvalidPoint)
	}

	switch encoded[0] {
	case pointTagEven, pointTagOdd:
		if len(encoded) != CompressedPointLen {
			return Point{}, fmt.Errorf(
				"%w: compressed point must be [%d] bytes long, has [%d]",
				ErrInvalidPoint,
				CompressedPointLen,
				len(encoded),
			)
		}

		x := new(big.Int).SetBytes(encoded[1:])
		return DecompressPoint(x, encoded[0] == pointTagOdd)

	case pointTagUncompressed:
		if len(encoded) != UncompressedPointLen {
			return Point{}, fmt.Errorf(
				"%w: uncompressed point must be [%d] bytes long, has [%d]",
				ErrInvalidPoint,
				UncompressedPointLen,
				len(encoded),
			)
		}

		point := Point{
			X: new(big.Int).SetBytes(encoded[1 : 1+fieldElementLen]),
			Y: new(big.Int).SetBytes(encoded[1+fieldElementLen:]),
		}
		if !IsOnCurve(point) {
			return Point{}, fmt.Errorf(
				"%w: point [%x] is not on the curve",
				ErrInvalidPoint,
				encoded,
			)
		}
		return point, nil

	default:
		return Point{}, fmt.Errorf(
			"%w: unsupported point encoding tag [0x%02x]",
			ErrInvalidPoint,
			encoded[0],
		)
	}
}

// DecompressPoint finds the point with the given `x` coordinate and the `y`
// coordinate of the requested oddness. It fails if `x` is not a coordinate of
// any curve point.
func DecompressPoint(x *big.Int, odd bool) (Point, error) {
	if x.Sign() < 0 || x.Cmp(Params().P) >= 0 {
		return Point{}, fmt.Errorf(
			"%w: x coordinate [%x] is not a field element",
			ErrInvalidPoint,
			x,
		)
	}

	// `calculateY` always returns one of two roots. The other one, `p - y`,
	// has the opposite oddness.
	y := calculateY(x)
	if y == nil {
		return Point{}, fmt.Errorf(
			"%w: no curve point with x coordinate [%x]",
			ErrInvalidPoint,
			x,
		)
	}

	if odd != isOdd(y) {
		y = new(big.Int).Mod(new(big.Int).Neg(y), Params().P)
	}

	return Point{X: new(big.Int).Set(x), Y: y}, nil
}

// calculateY calculates `y` coordinate for `x` curve point coordinate. It
// expects the elliptic curve to be a short-form Weierstrass curve with `a = 0`,
// defined by the equation `y² = x³ + b`. `b` is a constant of the curve
// equation, specific for the particular curve. Returns nil if `x³ + b` has no
// square root in the field.
func calculateY(x *big.Int) *big.Int {
	prime := Params().P

	// x³
	x3 := new(big.Int).Exp(x, big.NewInt(3), prime)

	// x³ + b
	y2 := new(big.Int).Add(x3, Params().B)
	y2.Mod(y2, prime)

	// solve y² = x³ + b
	return new(big.Int).ModSqrt(y2, prime)
}
