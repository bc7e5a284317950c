package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "Application/JSON; charset=utf-8"} {
		if err := ValidateContentType(ct); err != nil {
			t.Fatalf("expected %q to be allowed, got %v", ct, err)
		}
	}
	for _, ct := range []string{"image/png", ""} {
		if err := ValidateContentType(ct); err == nil {
			t.Fatalf("expected %q to be rejected", ct)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	s := &MinIOService{maxFileSize: 10}

	if err := s.ValidateFileSize(10); err != nil {
		t.Fatalf("expected size at limit to pass, got %v", err)
	}
	if err := s.ValidateFileSize(0); err == nil {
		t.Fatalf("expected empty file to be rejected")
	}
	if err := s.ValidateFileSize(11); err == nil {
		t.Fatalf("expected oversized file to be rejected")
	}

	unbounded := &MinIOService{}
	if err := unbounded.ValidateFileSize(1 << 30); err != nil {
		t.Fatalf("expected no limit without max size, got %v", err)
	}
}

func TestNewMinIOService_RequiresEndpoint(t *testing.T) {
	if _, err := NewMinIOService(minioCfg{}); err == nil {
		t.Fatalf("expected error without endpoint")
	}
}

func TestNewMinIOService_BuildsClient(t *testing.T) {
	svc, err := NewMinIOService(minioCfg{endpoint: "localhost:9000", access: "key", secret: "secret", maxSize: 1024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.GetMaxFileSize() != 1024 {
		t.Fatalf("expected max size 1024, got %d", svc.GetMaxFileSize())
	}
}

type minioCfg struct {
	endpoint, access, secret string
	maxSize                  int64
}

func (c minioCfg) GetMinIOEndpoint() string   { return c.endpoint }
func (c minioCfg) GetMinIOAccessKey() string  { return c.access }
func (c minioCfg) GetMinIOSecretKey() string  { return c.secret }
func (c minioCfg) GetMinIOUseSSL() bool       { return false }
func (c minioCfg) GetMinIOMaxFileSize() int64 { return c.maxSize }
func (c minioCfg) IsMinIOEnabled() bool       { return c.endpoint != "" }
