package websocket

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/joeydtaylor/synapse/pkg/internal/types"
)

// buildTLSConfig returns nil when TLS is off. A CA file turns on mutual TLS:
// consumers must then present a certificate signed by it.
func buildTLSConfig(cfg types.TLSConfig) (*tls.Config, error) {
	if !cfg.UseTLS {
		return nil, nil
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return nil, fmt.Errorf("websocket tls: cert and key files are required")
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("websocket tls: load key pair: %w", err)
	}

	out := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   cfg.MinTLSVersion,
		MaxVersion:   cfg.MaxTLSVersion,
	}
	if out.MinVersion == 0 {
		out.MinVersion = tls.VersionTLS12
	}
	if out.MaxVersion != 0 && out.MaxVersion < out.MinVersion {
		return nil, fmt.Errorf("websocket tls: max version %#x below min %#x", out.MaxVersion, out.MinVersion)
	}

	if cfg.CAFile == "" {
		return out, nil
	}
	pem, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("websocket tls: read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("websocket tls: no certificates in %s", cfg.CAFile)
	}
	out.ClientCAs = pool
	out.ClientAuth = tls.RequireAndVerifyClientCert
	return out, nil
}
