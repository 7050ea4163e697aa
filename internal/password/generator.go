package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Policy describes the composition of generated passwords: one character
// pool per class and how many characters each class contributes.
type Policy struct {
	Lower   string
	Upper   string
	Digit   string
	Special string

	LowerCount   int
	UpperCount   int
	DigitCount   int
	SpecialCount int
}

// DefaultPolicy returns the stock composition: 10 lowercase, 10 uppercase,
// 5 digits and 5 specials (30 characters total). The pools exclude glyphs
// that are easily confused in print (i/l/o, I/L/O, 0/1).
func DefaultPolicy() Policy {
	return Policy{
		Lower:        "abcdefghjkmnpqrstuvwxyz",
		Upper:        "ABCDEFGHJKMNPQRSTUVWXYZ",
		Digit:        "23456789",
		Special:      "&#{}()[]-_^@+=%?",
		LowerCount:   10,
		UpperCount:   10,
		DigitCount:   5,
		SpecialCount: 5,
	}
}

// Length returns the total length of passwords produced under the policy.
func (p Policy) Length() int {
	return p.LowerCount + p.UpperCount + p.DigitCount + p.SpecialCount
}

// Validate checks that every class contributing characters has a non-empty
// pool and that no count is negative.
func (p Policy) Validate() error {
	classes := []struct {
		name  string
		pool  string
		count int
	}{
		{"lower", p.Lower, p.LowerCount},
		{"upper", p.Upper, p.UpperCount},
		{"digit", p.Digit, p.DigitCount},
		{"special", p.Special, p.SpecialCount},
	}
	for _, c := range classes {
		if c.count < 0 {
			return fmt.Errorf("negative count for class %q", c.name)
		}
		if c.count > 0 && len(c.pool) == 0 {
			return fmt.Errorf("empty pool for class %q", c.name)
		}
	}
	if p.Length() == 0 {
		return errors.New("policy produces empty passwords")
	}
	return nil
}

// Generator produces random secrets according to a fixed Policy.
type Generator struct {
	policy Policy
}

// NewGenerator builds a Generator for the given policy.
func NewGenerator(policy Policy) (*Generator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid password policy: %w", err)
	}
	return &Generator{policy: policy}, nil
}

// Generate builds a new random secret. Every character is drawn
// independently and uniformly from its class pool, then the whole sequence
// is uniformly shuffled so class membership is not positionally
// predictable. crypto/rand backs every draw since the result is a stored
// secret.
func (g *Generator) Generate() (string, error) {
	out := make([]byte, 0, g.policy.Length())
	classes := []struct {
		pool  string
		count int
	}{
		{g.policy.Lower, g.policy.LowerCount},
		{g.policy.Upper, g.policy.UpperCount},
		{g.policy.Digit, g.policy.DigitCount},
		{g.policy.Special, g.policy.SpecialCount},
	}
	for _, c := range classes {
		for i := 0; i < c.count; i++ {
			ch, err := randomByte(c.pool)
			if err != nil {
				return "", err
			}
			out = append(out, ch)
		}
	}
	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randomByte(pool string) (byte, error) {
	idx, err := randomInt(len(pool))
	if err != nil {
		return 0, err
	}
	return pool[idx], nil
}

// shuffle applies a uniform Fisher-Yates permutation.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random source failure: %w", err)
	}
	return int(v.Int64()), nil
}
