package admin

import (
	"encoding/json"
	"fmt"

	id "formledger/pkg/domain"
)

// MaxAdmins bounds the admin set so the serialized config record has a fixed
// maximum size. The bound is part of the public contract.
const MaxAdmins = 10

// Config is the singleton admin registry record, persisted at
// ledger.ConfigAddress().
//
// Invariants: Authority never changes after Initialize; Admins holds no
// duplicates; AdminCount == len(Admins) and stays within [1, MaxAdmins].
type Config struct {
	Authority  id.Address   `json:"authority"`
	Admins     []id.Address `json:"admins"`
	AdminCount int          `json:"admin_count"`
}

// IsAdmin reports whether addr appears in the active admin set.
func (c *Config) IsAdmin(addr id.Address) bool {
	for _, a := range c.Admins {
		if a == addr {
			return true
		}
	}
	return false
}

// addAdmin appends a new admin, preserving the set invariants.
func (c *Config) addAdmin(addr id.Address) error {
	if c.IsAdmin(addr) {
		return ErrAdminAlreadyExists
	}
	if c.AdminCount >= MaxAdmins {
		return ErrMaxAdminsReached
	}
	c.Admins = append(c.Admins, addr)
	c.AdminCount = len(c.Admins)
	return nil
}

// removeAdmin removes an admin by swapping the last entry into its slot.
// Order among remaining admins is not contractual.
func (c *Config) removeAdmin(addr id.Address) error {
	if c.AdminCount <= 1 {
		return ErrCannotRemoveLastAdmin
	}
	for i, a := range c.Admins {
		if a == addr {
			last := len(c.Admins) - 1
			c.Admins[i] = c.Admins[last]
			c.Admins = c.Admins[:last]
			c.AdminCount = len(c.Admins)
			return nil
		}
	}
	return ErrAdminNotFound
}

func encodeConfig(c *Config) ([]byte, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode admin config: %w", err)
	}
	return payload, nil
}

func decodeConfig(payload []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode admin config: %w", err)
	}
	return &c, nil
}
