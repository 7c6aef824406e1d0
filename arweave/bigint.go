package arweave

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// BigInt holds one of the chain's arbitrary-precision integers as decimal
// text. Gateways encode these fields either as a JSON number (blocks below
// height 269510) or as a decimal string (every block after); both forms
// decode into the same value. The empty value means "not present" and
// compares equal to zero.
type BigInt string

// UnmarshalJSON accepts a JSON number, a decimal string, or null.
func (i *BigInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = BigInt(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("big integer must be a number or a decimal string: %w", err)
	}
	*i = BigInt(n.String())
	return nil
}

func (i BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(i))
}

// Uint256 parses the decimal text. The empty value parses as zero.
func (i BigInt) Uint256() (*uint256.Int, error) {
	if i == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(string(i))
	if err != nil {
		return nil, fmt.Errorf("invalid big integer %q: %w", string(i), err)
	}
	return v, nil
}

// Bytes32 returns the canonical 32-byte big-endian wire representation.
func (i BigInt) Bytes32() ([]byte, error) {
	v, err := i.Uint256()
	if err != nil {
		return nil, err
	}
	b := v.Bytes32()
	return b[:], nil
}

// Cmp compares two values numerically, returning -1, 0 or +1.
func (i BigInt) Cmp(other BigInt) (int, error) {
	a, err := i.Uint256()
	if err != nil {
		return 0, err
	}
	b, err := other.Uint256()
	if err != nil {
		return 0, err
	}
	return a.Cmp(b), nil
}
