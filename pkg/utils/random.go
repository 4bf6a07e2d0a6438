package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	mrand "math/rand"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// GenerateDeterministicID берет ID из ГСЧ боя, поэтому один сид
// всегда дает одинаковые ID юнитов
func GenerateDeterministicID(rng *mrand.Rand, prefix string) string {
	return fmt.Sprintf("%s%08x", prefix, rng.Uint32())
}

// StringToSeed превращает строку (имя сохранения, ник) в сид
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
