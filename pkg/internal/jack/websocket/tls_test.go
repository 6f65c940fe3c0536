package websocket

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

func writeSelfSigned(t *testing.T) (certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "synapse-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func TestBuildTLSConfig_Disabled(t *testing.T) {
	cfg, err := buildTLSConfig(types.TLSConfig{CertFile: "ignored"})
	if err != nil || cfg != nil {
		t.Fatalf("expected nil config, got %v, %v", cfg, err)
	}
}

func TestBuildTLSConfig_MissingFiles(t *testing.T) {
	if _, err := buildTLSConfig(types.TLSConfig{UseTLS: true}); err == nil {
		t.Fatal("expected error without cert and key")
	}
	_, err := buildTLSConfig(types.TLSConfig{UseTLS: true, CertFile: "/nope/cert.pem", KeyFile: "/nope/key.pem"})
	if err == nil {
		t.Fatal("expected error for unreadable key pair")
	}
}

func TestBuildTLSConfig_DefaultsAndMutualTLS(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)

	cfg, err := buildTLSConfig(types.TLSConfig{UseTLS: true, CertFile: certFile, KeyFile: keyFile})
	if err != nil {
		t.Fatalf("buildTLSConfig: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 || cfg.ClientAuth != tls.NoClientCert {
		t.Fatalf("unexpected defaults: min=%#x auth=%v", cfg.MinVersion, cfg.ClientAuth)
	}

	cfg, err = buildTLSConfig(types.TLSConfig{UseTLS: true, CertFile: certFile, KeyFile: keyFile, CAFile: certFile})
	if err != nil {
		t.Fatalf("buildTLSConfig with ca: %v", err)
	}
	if cfg.ClientCAs == nil || cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Fatal("expected mutual tls when a ca file is set")
	}

	_, err = buildTLSConfig(types.TLSConfig{
		UseTLS:        true,
		CertFile:      certFile,
		KeyFile:       keyFile,
		MinTLSVersion: tls.VersionTLS13,
		MaxTLSVersion: tls.VersionTLS12,
	})
	if err == nil {
		t.Fatal("expected error when max version is below min")
	}
}

func TestBuildTLSConfig_BadCA(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)
	bogus := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(bogus, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := buildTLSConfig(types.TLSConfig{UseTLS: true, CertFile: certFile, KeyFile: keyFile, CAFile: bogus})
	if err == nil {
		t.Fatal("expected error for a ca file without certificates")
	}
}
