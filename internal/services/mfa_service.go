package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"inventory_backend/internal/config"
	"inventory_backend/pkg/utils"
)

const mfaCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeSender delivers an MFA code to a user. The production default writes a
// simulated email through the structured log; a real mail transport can be
// swapped in without touching the code store.
type CodeSender interface {
	Send(email, username, code string, expiry time.Duration) error
}

// LogCodeSender is the simulated email delivery used by default.
type LogCodeSender struct {
	SenderEmail string
}

func (s LogCodeSender) Send(email, username, code string, expiry time.Duration) error {
	utils.LogInfo("MFA code issued (simulated email)", map[string]interface{}{
		"to":            email,
		"from":          s.SenderEmail,
		"username":      username,
		"code":          code,
		"valid_minutes": int(expiry.Minutes()),
	})
	return nil
}

// MFAService issues and verifies single-use login codes. Codes live only in
// process memory; a restart invalidates all outstanding codes.
type MFAService interface {
	SendCode(username, email string) error
	VerifyCode(username, code string) bool
}

type mfaEntry struct {
	code   string
	expiry time.Time
}

type mfaService struct {
	mu     sync.Mutex
	codes  map[string]mfaEntry
	length int
	ttl    time.Duration
	sender CodeSender
	now    func() time.Time
}

// NewMFAService creates a new instance of MFAService.
func NewMFAService(cfg config.MFAConfig, sender CodeSender) MFAService {
	if sender == nil {
		sender = LogCodeSender{SenderEmail: cfg.SenderEmail}
	}
	return &mfaService{
		codes:  make(map[string]mfaEntry),
		length: cfg.CodeLength,
		ttl:    cfg.CodeExpiry,
		sender: sender,
		now:    time.Now,
	}
}

func (s *mfaService) generateCode() (string, error) {
	code := make([]byte, s.length)
	max := big.NewInt(int64(len(mfaCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate MFA code: %w", err)
		}
		code[i] = mfaCodeCharset[n.Int64()]
	}
	return string(code), nil
}

// SendCode generates a fresh code for the user and hands it to the sender.
// A previously issued code for the same user is replaced.
func (s *mfaService) SendCode(username, email string) error {
	code, err := s.generateCode()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.codes[username] = mfaEntry{code: code, expiry: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return s.sender.Send(email, username, code, s.ttl)
}

// VerifyCode checks the entered code. Codes are single-use: a correct entry
// consumes the code, and an expired one is discarded on sight.
func (s *mfaService) VerifyCode(username, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[username]
	if !ok {
		return false
	}
	if s.now().After(entry.expiry) {
		delete(s.codes, username)
		return false
	}
	if code != entry.code {
		return false
	}
	delete(s.codes, username)
	return true
}
