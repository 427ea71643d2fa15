package sns

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const maxCertificateSize = 64 << 10

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CertSource returns the signing certificate published at a URL.
type CertSource interface {
	Certificate(ctx context.Context, certURL string) (*x509.Certificate, error)
}

// BreakerSettings tunes the circuit breaker wrapped around certificate
// downloads.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MinRequests uint32
	FailureRate float64
}

// CertFetcher downloads signing certificates, caching them by URL and
// failing fast while a certificate host keeps erroring. Each host has its
// own breaker so failures against one host never block another.
type CertFetcher struct {
	client   Doer
	timeout  time.Duration
	cache    CertCache
	settings BreakerSettings
	log      *logrus.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewCertFetcher creates a CertFetcher. A nil cache disables caching.
func NewCertFetcher(client Doer, timeout time.Duration, cache CertCache, bs BreakerSettings, log *logrus.Logger) *CertFetcher {
	if cache == nil {
		cache = NoCache{}
	}
	if bs.MinRequests == 0 {
		bs.MinRequests = 3
	}
	if bs.FailureRate <= 0 {
		bs.FailureRate = 0.6
	}
	return &CertFetcher{
		client:   client,
		timeout:  timeout,
		cache:    cache,
		settings: bs,
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// breakerFor returns the breaker guarding downloads from host, creating it
// on first use.
func (f *CertFetcher) breakerFor(host string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb
	}
	bs := f.settings
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sns-signing-certificate:" + host,
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= bs.MinRequests && ratio >= bs.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Certificate fetch breaker changed state")
		},
	})
	f.breakers[host] = cb
	return cb
}

// Certificate returns the parsed certificate at certURL. The caller is
// expected to have checked that certURL is trusted.
func (f *CertFetcher) Certificate(ctx context.Context, certURL string) (*x509.Certificate, error) {
	if raw, ok := f.cache.Get(ctx, certURL); ok {
		cert, err := parseCertificate(raw)
		if err == nil {
			return cert, nil
		}
		f.log.WithField("cert_url", certURL).Warnf("Ignoring unparseable cached certificate: %v", err)
	}

	u, err := url.Parse(certURL)
	if err != nil {
		return nil, fmt.Errorf("parse certificate url: %w", err)
	}
	out, err := f.breakerFor(strings.ToLower(u.Hostname())).Execute(func() (interface{}, error) {
		return f.download(ctx, certURL)
	})
	if err != nil {
		return nil, err
	}
	raw := out.([]byte)
	cert, err := parseCertificate(raw)
	if err != nil {
		return nil, err
	}
	f.cache.Set(ctx, certURL, raw)
	return cert, nil
}

func (f *CertFetcher) download(ctx context.Context, certURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build certificate request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch certificate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch certificate: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCertificateSize+1))
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	if len(raw) > maxCertificateSize {
		return nil, errors.New("certificate exceeds size limit")
	}
	return raw, nil
}

func parseCertificate(raw []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no PEM certificate block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return cert, nil
}
