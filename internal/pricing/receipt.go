package pricing

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// ReceiptGenerator produces human-legible receipt codes of the form
// REC-YYYYMMDD-NNNNN. The codes are only approximately unique (1-in-100000
// per day); the payments table enforces real uniqueness with a constraint
// and the billing service retries on conflict.
type ReceiptGenerator struct {
	now  func() time.Time
	intN func(int) int
}

// NewReceiptGenerator returns a generator backed by the wall clock and the
// default non-cryptographic random source.
func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{
		now:  time.Now,
		intN: rand.IntN,
	}
}

// NewReceiptGeneratorWith injects the clock and random source, for tests.
func NewReceiptGeneratorWith(now func() time.Time, intN func(int) int) *ReceiptGenerator {
	return &ReceiptGenerator{now: now, intN: intN}
}

func (g *ReceiptGenerator) Generate() string {
	return fmt.Sprintf("REC-%s-%05d", g.now().Format("20060102"), g.intN(100000))
}
