package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}

// NewJobRef returns a short human-readable booking reference like "HB-482913".
func NewJobRef() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "HB-000000"
	}
	return fmt.Sprintf("HB-%06d", n.Int64()+100000)
}
