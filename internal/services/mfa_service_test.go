package services

import (
	"testing"
	"time"

	"inventory_backend/internal/config"
)

type captureSender struct {
	email string
	code  string
}

func (s *captureSender) Send(email, username, code string, expiry time.Duration) error {
	s.email = email
	s.code = code
	return nil
}

func newTestMFA(t *testing.T) (*mfaService, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	svc := NewMFAService(config.MFAConfig{
		CodeLength:  6,
		CodeExpiry:  5 * time.Minute,
		SenderEmail: "noreply@test",
	}, sender).(*mfaService)
	return svc, sender
}

func TestMFASendAndVerify(t *testing.T) {
	svc, sender := newTestMFA(t)

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if sender.email != "alice@example.com" {
		t.Errorf("code sent to %q, want alice@example.com", sender.email)
	}
	if len(sender.code) != 6 {
		t.Errorf("code length = %d, want 6", len(sender.code))
	}

	if !svc.VerifyCode("alice", sender.code) {
		t.Error("correct code rejected")
	}
}

func TestMFACodeIsSingleUse(t *testing.T) {
	svc, sender := newTestMFA(t)

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if !svc.VerifyCode("alice", sender.code) {
		t.Fatal("correct code rejected")
	}
	if svc.VerifyCode("alice", sender.code) {
		t.Error("code accepted twice")
	}
}

func TestMFAWrongCodeRejected(t *testing.T) {
	svc, sender := newTestMFA(t)

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if svc.VerifyCode("alice", "WRONG1") {
		t.Error("wrong code accepted")
	}
	// A wrong attempt must not consume the real code.
	if !svc.VerifyCode("alice", sender.code) {
		t.Error("correct code rejected after a wrong attempt")
	}
}

func TestMFAExpiredCodeRejected(t *testing.T) {
	svc, sender := newTestMFA(t)

	base := time.Now()
	svc.now = func() time.Time { return base }

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}

	svc.now = func() time.Time { return base.Add(6 * time.Minute) }
	if svc.VerifyCode("alice", sender.code) {
		t.Error("expired code accepted")
	}
}

func TestMFAUnknownUserRejected(t *testing.T) {
	svc, _ := newTestMFA(t)
	if svc.VerifyCode("nobody", "ABC123") {
		t.Error("code accepted for user with no outstanding code")
	}
}

func TestMFAResendReplacesCode(t *testing.T) {
	svc, sender := newTestMFA(t)

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	first := sender.code

	if err := svc.SendCode("alice", "alice@example.com"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	second := sender.code

	if first != second && svc.VerifyCode("alice", first) {
		t.Error("stale code accepted after resend")
	}
	if !svc.VerifyCode("alice", second) {
		t.Error("latest code rejected")
	}
}
