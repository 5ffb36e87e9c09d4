package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mathrand "math/rand"
)

// NewSeed возвращает криптослучайное зерно для новой сессии.
// Используется только ОДИН раз при создании сессии; дальше весь рандом
// детерминирован (см. свойство идемпотентности обработки хода).
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("failed to read random seed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & 0x7FFFFFFFFFFFFFFF)
}

// StringToSeed детерминированно превращает строку в зерно.
// Одинаковый вход -> одинаковый выход, на любой платформе.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}

// NewRand создает изолированный детерминированный генератор.
// Каждая подсистема (генерация галактики, бой, события) получает СВОЙ
// генератор, чтобы порядок вызовов одной подсистемы не влиял на другую.
func NewRand(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// SubSeed выводит зерно подсистемы из мастер-зерна и метки:
// seed = hash(master, label). Ход N и генерация галактики получают разные
// метки и никогда не делят поток случайности.
func SubSeed(master int64, label string) int64 {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(master))
	h.Write(b[:])
	h.Write([]byte(label))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}

// joinCodeWords - фиксированный словарь для кодов сессий.
// Код не несет никакой защиты, он только для удобства поиска сессии.
var joinCodeWords = []string{
	"NOVA", "PULSAR", "QUASAR", "NEBULA", "COMET",
	"ORBIT", "ZENITH", "HALO", "RIFT", "VOID",
	"TITAN", "LUMEN", "AURORA", "ECLIPSE", "METEOR",
	"VECTOR", "PHOTON", "GRAVITY", "CORONA", "SPIRE",
}

// NewJoinCode генерирует человеко-читаемый код сессии вида WORD-NNNN.
func NewJoinCode(rng *mathrand.Rand) string {
	word := joinCodeWords[rng.Intn(len(joinCodeWords))]
	return fmt.Sprintf("%s-%04d", word, rng.Intn(10000))
}
