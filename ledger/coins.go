package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MicroCoinsPerCoin is the number of micro coins, the unit amounts
// are expressed in on the ledger, in a coin
const MicroCoinsPerCoin = 1000000

const coinDecimals = 6

// ParseCoins parses a decimal amount of coins, such as "1.5", and
// returns it in micro coins
func ParseCoins(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, fmt.Errorf("amount cannot be empty")
	}

	parts := strings.SplitN(s, ".", 2)
	whole, err := parseDigits(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s: %s", s, err.Error())
	}

	if whole > math.MaxUint64/MicroCoinsPerCoin {
		return 0, fmt.Errorf("amount %s overflows", s)
	}
	micro := whole * MicroCoinsPerCoin

	if len(parts) == 2 {
		fraction := parts[1]
		if len(fraction) == 0 || len(fraction) > coinDecimals {
			return 0, fmt.Errorf("amount %s must have between 1 and %d decimals", s, coinDecimals)
		}

		f, err := parseDigits(fraction + strings.Repeat("0", coinDecimals-len(fraction)))
		if err != nil {
			return 0, fmt.Errorf("invalid amount %s: %s", s, err.Error())
		}

		if micro > math.MaxUint64-f {
			return 0, fmt.Errorf("amount %s overflows", s)
		}
		micro += f
	}

	return micro, nil
}

// FormatCoins formats an amount of micro coins as a decimal amount
// of coins
func FormatCoins(micro uint64) string {
	return fmt.Sprintf("%d.%06d", micro/MicroCoinsPerCoin, micro%MicroCoinsPerCoin)
}

func parseDigits(s string) (uint64, error) {
	if len(s) == 0 {
		return 0, nil
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unexpected character %q", r)
		}
	}

	return strconv.ParseUint(s, 10, 64)
}
