package domain

import "math/big"

// Counts holds the number of low and high pulses sent over some span of presses.
type Counts struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Add returns c + o.
func (c Counts) Add(o Counts) Counts {
	return Counts{Low: c.Low + o.Low, High: c.High + o.High}
}

// Sub returns c - o.
func (c Counts) Sub(o Counts) Counts {
	return Counts{Low: c.Low - o.Low, High: c.High - o.High}
}

// Scale returns c repeated n times.
func (c Counts) Scale(n int64) Counts {
	return Counts{Low: c.Low * n, High: c.High * n}
}

// Total returns the number of pulses of both types.
func (c Counts) Total() int64 { return c.Low + c.High }

// Product returns Low * High.
func (c Counts) Product() int64 { return c.Low * c.High }

// BigProduct returns Low * High without overflowing.
func (c Counts) BigProduct() *big.Int {
	return new(big.Int).Mul(big.NewInt(c.Low), big.NewInt(c.High))
}
