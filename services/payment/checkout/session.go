// Package checkout is the client side of the admission payment flow: it
// talks to the payment service, loads the gateway script once and drives a
// checkout attempt through its states.
package checkout

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Payer prefills the hosted checkout form
type Payer struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Contact string `yaml:"contact"`
}

// Session is the explicit client context: where the service lives and who is calling.
type Session struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Payer   Payer  `yaml:"payer"`
}

// LoadSession reads a session file such as:
//
//	base_url: http://localhost:8080
//	token: eyJhbGciOi...
//	payer:
//	  name: Asha
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("session base_url is required")
	}
	if s.Token == "" {
		return fmt.Errorf("session token is required")
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return nil
}
