package service

import (
	"fmt"
	"math/rand"
	"time"
)

// codeMaxAttempts bounds the unique-code retry loop. A collision means two
// codes drew the same 4-digit suffix on the same day, so 50 attempts is far
// beyond anything a healthy table produces.
const codeMaxAttempts = 50

// newCode builds "<prefix>-YYYYMMDD-XXXX" with a random 4-digit suffix, e.g.
// OT-20250114-0831 for work orders, ING-20250114-4402 for vehicle entries.
func newCode(prefix string) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format("20060102"), rand.Intn(10000))
}

// uniqueCode draws codes until taken reports one free, bounded at
// codeMaxAttempts, then fails with ErrGenerationExhausted.
func uniqueCode(prefix string, taken func(code string) bool) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code := newCode(prefix)
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}
