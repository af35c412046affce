// Package dex decodes concentrated-liquidity pool accounts.
package dex

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"orcaScanner/internal/chain"
)

// WhirlpoolProgramID owns every Whirlpool pool account.
const WhirlpoolProgramID = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"

// Field offsets of the Whirlpool account layout.
const (
	offTickSpacing = 41
	offFeeRate     = 45
	offLiquidity   = 49
	offSqrtPrice   = 65
	offTickCurrent = 81
	offMintA       = 101
	offMintB       = 181
	minAccountLen  = offMintB + 32
)

// feeRateDenominator converts fee_rate (hundredths of a basis point) to a fraction.
const feeRateDenominator = 1_000_000

var (
	ErrWrongOwner         = errors.New("account not owned by whirlpool program")
	ErrShortAccount       = errors.New("account data too short")
	ErrWrongDiscriminator = errors.New("account is not a whirlpool")

	whirlpoolDiscriminator = func() []byte {
		sum := sha256.Sum256([]byte("account:Whirlpool"))
		return sum[:8]
	}()
)

// Whirlpool is the subset of pool state the scanner reads.
type Whirlpool struct {
	TickSpacing uint16
	FeeRate     uint16
	Liquidity   *big.Int
	SqrtPrice   *big.Int
	TickCurrent int32
	MintA       string
	MintB       string
}

// FeeFraction returns the swap fee as a fraction, e.g. 0.003.
func (w Whirlpool) FeeFraction() float64 {
	return float64(w.FeeRate) / feeRateDenominator
}

// DecodeWhirlpool decodes a Whirlpool account after checking its owner and discriminator.
func DecodeWhirlpool(acc *chain.Account) (Whirlpool, error) {
	if acc == nil {
		return Whirlpool{}, fmt.Errorf("account not found")
	}
	if acc.Owner != WhirlpoolProgramID {
		return Whirlpool{}, fmt.Errorf("%w: %s", ErrWrongOwner, acc.Owner)
	}
	return decodeWhirlpoolData(acc.Data)
}

func decodeWhirlpoolData(data []byte) (Whirlpool, error) {
	if len(data) < minAccountLen {
		return Whirlpool{}, fmt.Errorf("%w: %d bytes", ErrShortAccount, len(data))
	}
	if !bytes.Equal(data[:8], whirlpoolDiscriminator) {
		return Whirlpool{}, ErrWrongDiscriminator
	}

	return Whirlpool{
		TickSpacing: binary.LittleEndian.Uint16(data[offTickSpacing:]),
		FeeRate:     binary.LittleEndian.Uint16(data[offFeeRate:]),
		Liquidity:   readU128(data[offLiquidity : offLiquidity+16]),
		SqrtPrice:   readU128(data[offSqrtPrice : offSqrtPrice+16]),
		TickCurrent: int32(binary.LittleEndian.Uint32(data[offTickCurrent:])),
		MintA:       chain.FormatAddress(data[offMintA : offMintA+32]),
		MintB:       chain.FormatAddress(data[offMintB : offMintB+32]),
	}, nil
}

// readU128 decodes a little-endian u128.
func readU128(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
