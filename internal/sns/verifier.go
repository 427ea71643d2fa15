// Package sns authenticates SNS HTTP(S) deliveries and completes the
// subscription handshake.
package sns

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"resumeflow/ingest-gateway/models"
)

// ErrSignatureInvalid wraps every reason an envelope failed authentication.
var ErrSignatureInvalid = errors.New("sns: signature invalid")

// Verifier checks envelope signatures against the certificate SNS publishes.
type Verifier struct {
	certs CertSource
}

func NewVerifier(certs CertSource) *Verifier {
	return &Verifier{certs: certs}
}

// Verify returns nil when env carries a valid signature from a trusted SNS
// certificate. Any other outcome, including a panic while verifying, is an
// error wrapping ErrSignatureInvalid.
func (v *Verifier) Verify(ctx context.Context, env *models.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSignatureInvalid, r)
		}
	}()

	if !TrustedCertURL(env.SigningCertURL) {
		return fmt.Errorf("%w: untrusted certificate url %q", ErrSignatureInvalid, env.SigningCertURL)
	}

	hash, err := hashFor(env.SignatureVersion)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(env.Signature)
	if err != nil {
		return fmt.Errorf("%w: decode signature: %v", ErrSignatureInvalid, err)
	}

	cert, err := v.certs.Certificate(ctx, env.SigningCertURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate key is not RSA", ErrSignatureInvalid)
	}

	digest := sum(hash, []byte(StringToSign(env)))
	if err := rsa.VerifyPKCS1v15(pub, hash, digest, sig); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

func hashFor(version string) (crypto.Hash, error) {
	switch version {
	case "1":
		return crypto.SHA1, nil
	case "2":
		return crypto.SHA256, nil
	}
	return 0, fmt.Errorf("%w: unsupported signature version %q", ErrSignatureInvalid, version)
}

func sum(hash crypto.Hash, data []byte) []byte {
	if hash == crypto.SHA256 {
		d := sha256.Sum256(data)
		return d[:]
	}
	d := sha1.Sum(data)
	return d[:]
}
