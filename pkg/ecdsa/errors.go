package ecdsa

import "errors"

var (
	// ErrNoPrivateKey is returned when an operation requires private key
	// material, but the key holds only the public part.
	ErrNoPrivateKey = errors.New(
		"key does not hold the private key necessary for signing",
	)

	// ErrNoKey is returned when a nil key is passed where a key is
	// required.
	ErrNoKey = errors.New("key not set")

	// ErrInvalidFormat is returned when an encoded key or signature is
	// malformed.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidPoint is returned when bytes or coordinates do not describe
	// a point on the secp256k1 curve.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrInvalidPrivateKey is returned when a private scalar is zero or not
	// lower than the group order.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrRecoveryIDNotFound is returned when none of the recovery IDs
	// reproduces the expected public key. It should never happen for
	// a signature calculated by this package.
	ErrRecoveryIDNotFound = errors.New(
		"could not find recovery ID matching the public key",
	)

	// ErrInvalidCreationTime is returned when a key creation time is not
	// after the unix epoch.
	ErrInvalidCreationTime = errors.New("invalid creation time")

	// ErrCreationTimeAlreadySet is returned on an attempt to overwrite
	// a creation time which is already known.
	ErrCreationTimeAlreadySet = errors.New("creation time already set")
)
