// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
)

// Medal tiers.
const (
	Gold   = "gold"
	Silver = "silver"
	Bronze = "bronze"
)

// ErrInvalidRecord marks a medal record that cannot be used.
var ErrInvalidRecord = errors.New("invalid medal record")

// MedalRecord holds one nation's medal counts as reported by a source.
type MedalRecord struct {
	Code   string // NOC code, upper case
	Name   string // display name, optional
	Gold   int
	Silver int
	Bronze int
}

// Total returns the number of medals of any tier.
func (r MedalRecord) Total() int {
	return r.Gold + r.Silver + r.Bronze
}

// Validate reports whether the record can enter the registry.
func (r MedalRecord) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("%w: empty country code", ErrInvalidRecord)
	}
	if r.Gold < 0 || r.Silver < 0 || r.Bronze < 0 {
		return fmt.Errorf("%w: negative count for %s", ErrInvalidRecord, r.Code)
	}
	return nil
}
