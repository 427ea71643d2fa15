package sns

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/ingest-gateway/models"
)

func TestVerify_ValidSignature(t *testing.T) {
	s := newSigner(t)
	rt := &countingTransport{body: s.certPEM}
	v := newTestVerifier(rt, nil)

	env := notification(`{"event_type":"processing_started","file_key":"resumes/u1/cv.pdf"}`)
	s.sign(t, env)

	require.NoError(t, v.Verify(context.Background(), env))
	assert.Equal(t, 1, rt.Calls())
	assert.Equal(t, []string{testCertURL}, rt.urls)
}

func TestVerify_SignatureVersion2(t *testing.T) {
	s := newSigner(t)
	v := newTestVerifier(&countingTransport{body: s.certPEM}, nil)

	env := notification("body")
	env.SignatureVersion = "2"
	s.sign(t, env)

	assert.NoError(t, v.Verify(context.Background(), env))
}

func TestVerify_Confirmation(t *testing.T) {
	s := newSigner(t)
	v := newTestVerifier(&countingTransport{body: s.certPEM}, nil)

	env := &models.Envelope{
		Type:             models.EnvelopeSubscriptionConfirmation,
		MessageID:        "m-1",
		TopicArn:         testTopicArn,
		Message:          "confirm",
		Timestamp:        "2024-05-01T12:00:00.000Z",
		SignatureVersion: "1",
		SigningCertURL:   testCertURL,
		SubscribeURL:     "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription&Token=t",
		Token:            "t",
	}
	s.sign(t, env)

	assert.NoError(t, v.Verify(context.Background(), env))
}

func TestVerify_TamperedEnvelopeFails(t *testing.T) {
	s := newSigner(t)

	mutations := map[string]func(env *models.Envelope){
		"message":    func(env *models.Envelope) { env.Message += " " },
		"message id": func(env *models.Envelope) { env.MessageID = "other" },
		"topic":      func(env *models.Envelope) { env.TopicArn += "x" },
		"timestamp":  func(env *models.Envelope) { env.Timestamp = "2024-05-01T12:00:01.000Z" },
		"subject added": func(env *models.Envelope) {
			subject := "injected"
			env.Subject = &subject
		},
		"signature byte": func(env *models.Envelope) {
			raw, _ := base64.StdEncoding.DecodeString(env.Signature)
			raw[0] ^= 0xFF
			env.Signature = base64.StdEncoding.EncodeToString(raw)
		},
		"signature not base64": func(env *models.Envelope) { env.Signature = "!!!" },
		"unknown version":      func(env *models.Envelope) { env.SignatureVersion = "3" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			v := newTestVerifier(&countingTransport{body: s.certPEM}, nil)
			env := notification(`{"event_type":"processing_completed","file_key":"resumes/u1/cv.pdf"}`)
			s.sign(t, env)
			mutate(env)

			err := v.Verify(context.Background(), env)
			assert.ErrorIs(t, err, ErrSignatureInvalid)
		})
	}
}

func TestVerify_WrongKeyFails(t *testing.T) {
	published := newSigner(t)
	attacker := newSigner(t)
	v := newTestVerifier(&countingTransport{body: published.certPEM}, nil)

	env := notification("body")
	attacker.sign(t, env)

	assert.ErrorIs(t, v.Verify(context.Background(), env), ErrSignatureInvalid)
}

func TestVerify_UntrustedCertURLIsNeverFetched(t *testing.T) {
	s := newSigner(t)
	rt := &countingTransport{body: s.certPEM}
	v := newTestVerifier(rt, nil)

	for _, certURL := range []string{
		"https://evil.example.com/cert.pem",
		"http://sns.us-east-1.amazonaws.com/cert.pem",
		"https://sns.us-east-1.amazonaws.com/cert.txt",
	} {
		env := notification("body")
		env.SigningCertURL = certURL
		s.sign(t, env)

		assert.ErrorIs(t, v.Verify(context.Background(), env), ErrSignatureInvalid, certURL)
	}
	assert.Zero(t, rt.Calls())
}

func TestVerify_CertificateFetchFailures(t *testing.T) {
	s := newSigner(t)
	cases := map[string]*countingTransport{
		"network error": {err: errors.New("connection refused")},
		"not found":     {status: http.StatusNotFound, body: s.certPEM},
		"not pem":       {body: []byte("hello")},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			v := newTestVerifier(rt, nil)
			env := notification("body")
			s.sign(t, env)

			assert.ErrorIs(t, v.Verify(context.Background(), env), ErrSignatureInvalid)
		})
	}
}

type panickingSource struct{}

func (panickingSource) Certificate(context.Context, string) (*x509.Certificate, error) {
	panic("boom")
}

func TestVerify_PanicFailsClosed(t *testing.T) {
	s := newSigner(t)
	v := NewVerifier(panickingSource{})
	env := notification("body")
	s.sign(t, env)

	var err error
	require.NotPanics(t, func() { err = v.Verify(context.Background(), env) })
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}
