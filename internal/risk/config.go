package risk

import (
	"encoding/json"
	"fmt"
	"os"
)

// userConfigDoc is the on-disk shape of the user configuration document
type userConfigDoc struct {
	Users []UserConfig `json:"users"`
}

// symbolConfigDoc is the on-disk shape of the symbol configuration document
type symbolConfigDoc struct {
	Symbols []SymbolConfig `json:"symbols"`
}

// LoadUserConfigs reads the user configuration document into the
// validator. A missing or malformed file is an error; callers treat it
// as fatal at startup.
func (v *Validator) LoadUserConfigs(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read user config %s: %w", path, err)
	}

	var doc userConfigDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse user config %s: %w", path, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, u := range doc.Users {
		v.users[u.UserID] = u
	}
	return nil
}

// LoadSymbolConfigs reads the symbol configuration document into the
// validator
func (v *Validator) LoadSymbolConfigs(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read symbol config %s: %w", path, err)
	}

	var doc symbolConfigDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse symbol config %s: %w", path, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, s := range doc.Symbols {
		v.symbols[s.Symbol] = s
	}
	return nil
}
