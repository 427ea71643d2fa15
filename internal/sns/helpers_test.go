package sns

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"io"
	"math/big"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"resumeflow/ingest-gateway/models"
)

const (
	testCertURL  = "https://sns.us-east-1.amazonaws.com/SimpleNotificationService-abc123.pem"
	testTopicArn = "arn:aws:sns:us-east-1:123456789012:resume-processing"
)

type signer struct {
	key     *rsa.PrivateKey
	certPEM []byte
}

func newSigner(t *testing.T) *signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "sns.amazonaws.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return &signer{
		key:     key,
		certPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}
}

// sign fills in Signature for env using the version already set on it.
func (s *signer) sign(t *testing.T, env *models.Envelope) {
	t.Helper()
	hash := crypto.SHA1
	if env.SignatureVersion == "2" {
		hash = crypto.SHA256
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, hash, sum(hash, []byte(StringToSign(env))))
	require.NoError(t, err)
	env.Signature = base64.StdEncoding.EncodeToString(sig)
}

func notification(message string) *models.Envelope {
	return &models.Envelope{
		Type:             models.EnvelopeNotification,
		MessageID:        "22b80b92-fdea-4c2c-8f9d-bdfb0c7bf324",
		TopicArn:         testTopicArn,
		Message:          message,
		Timestamp:        "2024-05-01T12:00:00.000Z",
		SignatureVersion: "1",
		SigningCertURL:   testCertURL,
	}
}

// countingTransport serves canned responses and records every request.
type countingTransport struct {
	mu     sync.Mutex
	calls  int
	urls   []string
	status int
	body   []byte
	err    error
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.calls++
	c.urls = append(c.urls, req.URL.String())
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(c.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func (c *countingTransport) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestVerifier(rt *countingTransport, cache CertCache) *Verifier {
	client := &http.Client{Transport: rt}
	return NewVerifier(NewCertFetcher(client, time.Second, cache, BreakerSettings{}, quietLogger()))
}
