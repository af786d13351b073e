package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	nanoIDAlphabet  string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	nanoIDSize      int    = 22 // 22 * 6 = 132 bits (uuid is 128 bits) of entropy
	maxAlphabetSize int    = 255
	minAlphabetSize int    = 8
)

var (
	ErrAlphabetTooLong  = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII = errors.New("alphabet must contain only ASCII characters")
)

// NanoID generates URL-safe random identifiers of a fixed size.
type NanoID struct {
	alphabet string
	mask     int
	size     int
}

var _ IDGenerator = (*NanoID)(nil)

// NewNanoID returns a generator over the default 64-symbol alphabet.
func NewNanoID() *NanoID {
	return &NanoID{
		alphabet: nanoIDAlphabet,
		mask:     maskFor(len(nanoIDAlphabet)),
		size:     nanoIDSize,
	}
}

// NewNanoIDWithAlphabet returns a generator producing size characters drawn
// from alphabet. A non-positive size uses the default.
func NewNanoIDWithAlphabet(alphabet string, size int) (*NanoID, error) {
	// Generate indexes by byte position
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}
	if size <= 0 {
		size = nanoIDSize
	}

	return &NanoID{
		alphabet: alphabet,
		mask:     maskFor(len(alphabet)),
		size:     size,
	}, nil
}

// maskFor returns the smallest 2^n-1 covering every alphabet index.
func maskFor(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return maxAlphabetSize
}

func (n *NanoID) NewID() (string, error) {
	alphabetLen := len(n.alphabet)
	step := int(math.Ceil(1.6 * float64(n.mask*n.size) / float64(alphabetLen)))

	id := make([]byte, n.size)
	buffer := make([]byte, step)

	for position := 0; position < n.size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Bytes masked past the alphabet are rejected to keep the distribution uniform
		for i := 0; i < step && position < n.size; i++ {
			index := buffer[i] & byte(n.mask)
			if int(index) < alphabetLen {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
