// Package service implements at-rest encryption for personal data fields and
// unwrapping of KMS-protected startup secrets.
package service

// FieldCipher protects a single sensitive field.
type FieldCipher interface {
	// EncryptField returns a fresh "hex(iv):hex(ciphertext)" envelope.
	EncryptField(plaintext string) (string, error)

	// DecryptField opens an envelope produced by EncryptField.
	// Any failure is reported as ErrDecryptionFailure.
	DecryptField(envelope string) (string, error)

	// LookupKey returns a deterministic keyed one-way hash of plaintext,
	// usable as an equality key. It never reveals the plaintext.
	LookupKey(plaintext string) string
}
