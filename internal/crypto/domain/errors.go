// Package domain defines the shared types and errors of the field encryption layer.
package domain

import "errors"

// ErrDecryptionFailure indicates an encrypted field envelope could not be
// opened: wrong shape, wrong key, truncation, tampering or bad padding.
// The cause is deliberately not distinguished.
var ErrDecryptionFailure = errors.New("decryption failure")
