package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gigtix/src/config"
)

const orderNumberCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-presentable order reference like
// TKT-MBX2K9QF-7H3D. The millisecond timestamp keeps numbers roughly
// sortable; the random suffix keeps them unique.
func GenerateOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberCharset))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			suffix[i] = orderNumberCharset[time.Now().UnixNano()%int64(len(orderNumberCharset))]
			continue
		}
		suffix[i] = orderNumberCharset[n.Int64()]
	}
	return fmt.Sprintf("TKT-%s-%s", ts, suffix)
}

// ComputeFees is the service fee on the items subtotal: a percentage plus a
// flat amount, rounded to the nearest cent.
func ComputeFees(subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	return (subtotalCents*config.SERVICE_FEE_RATE_BPS+5000)/10000 + config.SERVICE_FEE_FLAT_CENTS
}

// ComputeTax applies the tax rate to subtotal plus fees.
func ComputeTax(subtotalCents, feesCents int64) int64 {
	base := subtotalCents + feesCents
	if base <= 0 {
		return 0
	}
	return (base*config.TAX_RATE_BPS + 5000) / 10000
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
