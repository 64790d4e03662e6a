package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/scrypt"

	cryptoDomain "github.com/allisson/siteapi/internal/crypto/domain"
	apperrors "github.com/allisson/siteapi/internal/errors"
)

const (
	piiKeySize = 32
	piiTagSize = sha256.Size

	piiScryptN = 16384
	piiScryptR = 8
	piiScryptP = 1

	envelopeSeparator = ":"

	infoEncryption     = "pii-encryption-v1"
	infoAuthentication = "pii-authentication-v1"
	infoLookup         = "pii-lookup-v1"
)

// piiKeySalt is fixed so the same passphrase always yields the same keys
// across restarts and replicas.
var piiKeySalt = []byte("siteapi/pii/v1")

// PiiCipher encrypts personal data fields with AES-256-CBC and authenticates
// them with HMAC-SHA256 (encrypt-then-MAC). Keys are derived once at
// construction and are read-only afterwards, so a PiiCipher is safe for
// concurrent use.
type PiiCipher struct {
	encKey    []byte
	macKey    []byte
	lookupKey []byte
}

// NewPiiCipher derives three independent keys from passphrase: scrypt
// stretches the passphrase, HKDF-SHA256 splits it into encryption,
// authentication and lookup keys.
func NewPiiCipher(passphrase string) (*PiiCipher, error) {
	if passphrase == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "pii cipher passphrase is empty")
	}

	master, err := scrypt.Key([]byte(passphrase), piiKeySalt, piiScryptN, piiScryptR, piiScryptP, piiKeySize)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive pii master key")
	}
	defer clear(master)

	p := &PiiCipher{}
	for _, k := range []struct {
		dst  *[]byte
		info string
	}{
		{&p.encKey, infoEncryption},
		{&p.macKey, infoAuthentication},
		{&p.lookupKey, infoLookup},
	} {
		key := make([]byte, piiKeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(k.info)), key); err != nil {
			return nil, apperrors.Wrapf(err, "failed to expand %s key", k.info)
		}
		*k.dst = key
	}

	return p, nil
}

// EncryptField implements FieldCipher.
func (p *PiiCipher) EncryptField(plaintext string) (string, error) {
	block, err := aes.NewCipher(p.encKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create block cipher")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", apperrors.Wrap(err, "failed to generate iv")
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	body := make([]byte, len(padded), len(padded)+piiTagSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(body, padded)
	body = append(body, p.tag(iv, body)...)

	return hex.EncodeToString(iv) + envelopeSeparator + hex.EncodeToString(body), nil
}

// DecryptField implements FieldCipher.
func (p *PiiCipher) DecryptField(envelope string) (string, error) {
	parts := strings.Split(envelope, envelopeSeparator)
	if len(parts) != 2 {
		return "", cryptoDomain.ErrDecryptionFailure
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", cryptoDomain.ErrDecryptionFailure
	}

	body, err := hex.DecodeString(parts[1])
	if err != nil || len(body) < aes.BlockSize+piiTagSize || (len(body)-piiTagSize)%aes.BlockSize != 0 {
		return "", cryptoDomain.ErrDecryptionFailure
	}

	ciphertext, tag := body[:len(body)-piiTagSize], body[len(body)-piiTagSize:]
	if !hmac.Equal(tag, p.tag(iv, ciphertext)) {
		return "", cryptoDomain.ErrDecryptionFailure
	}

	block, err := aes.NewCipher(p.encKey)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailure
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return "", cryptoDomain.ErrDecryptionFailure
	}
	return string(unpadded), nil
}

// LookupKey implements FieldCipher.
func (p *PiiCipher) LookupKey(plaintext string) string {
	mac := hmac.New(sha256.New, p.lookupKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// Close zeroes the key material. The cipher must not be used afterwards.
func (p *PiiCipher) Close() {
	clear(p.encKey)
	clear(p.macKey)
	clear(p.lookupKey)
}

func (p *PiiCipher) tag(iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, p.macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
