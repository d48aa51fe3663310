package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"commongames/internal/pkg/errs"
)

// CredentialLength is the exact length of a Steam Web API key.
const CredentialLength = 32

// ValidateCredential checks the shape of the API key. It never touches the network.
func ValidateCredential(credential string) error {
	if len(credential) != CredentialLength {
		return errs.NewError(errs.ErrInvalidCredential, CredentialLength, len(credential))
	}
	return nil
}

// ParseSelection parses whitespace-separated 0-based friend indices for a list of
// count friends. Duplicates are collapsed, keeping the first occurrence, so the
// result preserves the order the user typed.
func ParseSelection(raw string, count int) ([]int, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, errs.NewError(errs.ErrEmptySelection)
	}

	seen := make(map[int]struct{}, len(fields))
	indices := make([]int, 0, len(fields))

	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInvalidSelection, err, raw, fmt.Sprintf("%q is not a number", f))
		}
		if n < 0 || n >= count {
			return nil, errs.NewError(errs.ErrInvalidSelection, raw, fmt.Sprintf("%d is not between 0 and %d", n, count-1))
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		indices = append(indices, n)
	}

	return indices, nil
}
