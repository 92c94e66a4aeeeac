package chain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// ParsePrice converts a decimal ether amount into wei.
func ParsePrice(s string) (*big.Int, error) {
	amt, err := decimal.NewFromString(s)
	if err != nil || amt.Sign() < 0 {
		return nil, fmt.Errorf("invalid mint price %s", s)
	}
	wei := amt.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("invalid mint price precision %s", s)
	}
	return wei.BigInt(), nil
}
