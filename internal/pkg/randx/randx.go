/*
Package randx provides functions for cryptographically secure uniform selection and unique identifiers.

It is used to pick the final game out of the multiplayer candidates and to tag each run with a UUID.
*/
package randx

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ErrEmpty is returned when a selection is requested over zero items.
var ErrEmpty = errors.New("randx: cannot pick from an empty list")

// Index returns a uniformly distributed integer in [0, n-1], inclusive of n-1,
// using a cryptographically secure random number generator (crypto/rand).
func Index(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmpty
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %v", err)
	}

	return int(num.Int64()), nil
}

// Pick returns one element of items chosen uniformly at random.
func Pick[T any](items []T) (T, error) {
	var zero T

	i, err := Index(len(items))
	if err != nil {
		return zero, err
	}

	return items[i], nil
}

// RunID generates a standard UUID v4 string to correlate the log lines of a single run.
func RunID() string {
	return uuid.New().String()
}
