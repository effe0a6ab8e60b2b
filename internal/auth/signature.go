package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/alphabot-ai/murmur/internal/apperr"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// Key algorithms accepted for signature login.
const (
	AlgEd25519   = "ed25519"
	AlgSecp256k1 = "secp256k1"
	AlgRSASHA256 = "rsa-sha256"
	AlgRSAPSS    = "rsa-pss"
)

// ErrBadSignature is returned for any signature that does not verify.
var ErrBadSignature = apperr.New(apperr.ErrUnauthenticated, "invalid signature")

type verifier func(publicKey, message, signature string) error

var verifiers = map[string]verifier{
	AlgEd25519:   verifyEd25519,
	AlgSecp256k1: verifySecp256k1,
	AlgRSASHA256: func(pub, msg, sig string) error { return verifyRSA(pub, msg, sig, false) },
	AlgRSAPSS:    func(pub, msg, sig string) error { return verifyRSA(pub, msg, sig, true) },
}

func SupportedAlg(alg string) bool {
	_, ok := verifiers[strings.ToLower(alg)]
	return ok
}

// VerifySignature checks that signature is a valid signature of message by
// publicKey. Ed25519 and RSA keys and signatures may be base64 or hex; RSA
// keys may also be PEM. secp256k1 keys and signatures are hex and the
// message is hashed the Ethereum personal_sign way.
func VerifySignature(alg, publicKey, message, signature string) error {
	v, ok := verifiers[strings.ToLower(alg)]
	if !ok {
		return apperr.Invalid(fmt.Sprintf("unsupported alg: %s", alg))
	}
	if err := v(publicKey, message, signature); err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return nil
}

func verifyEd25519(pub, msg, sig string) error {
	pubBytes, err := decodeBase64OrHex(pub)
	if err != nil {
		return err
	}
	sigBytes, err := decodeBase64OrHex(sig)
	if err != nil {
		return err
	}
	if len(pubBytes) != ed25519.PublicKeySize {
		return errors.New("ed25519 public key length")
	}
	if len(sigBytes) != ed25519.SignatureSize {
		return errors.New("ed25519 signature length")
	}
	if !ed25519.Verify(ed25519.PublicKey(pubBytes), []byte(msg), sigBytes) {
		return ErrBadSignature
	}
	return nil
}

func verifySecp256k1(pub, msg, sig string) error {
	pubBytes, err := decodeHex(pub)
	if err != nil {
		return err
	}
	sigBytes, err := decodeHex(sig)
	if err != nil {
		return err
	}
	pubKey, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return err
	}
	// r || s, optionally followed by a recovery byte.
	if len(sigBytes) < 64 {
		return errors.New("secp256k1 signature length")
	}
	r := new(big.Int).SetBytes(sigBytes[:32])
	s := new(big.Int).SetBytes(sigBytes[32:64])
	if !ecdsa.Verify(pubKey.ToECDSA(), ethereumPersonalHash([]byte(msg)), r, s) {
		return ErrBadSignature
	}
	return nil
}

func verifyRSA(pub, msg, sig string, pss bool) error {
	pubKey, err := parseRSAPublicKey(pub)
	if err != nil {
		return err
	}
	sigBytes, err := decodeBase64OrHex(sig)
	if err != nil {
		return err
	}
	h := sha256.Sum256([]byte(msg))
	if pss {
		err = rsa.VerifyPSS(pubKey, crypto.SHA256, h[:], sigBytes, nil)
	} else {
		err = rsa.VerifyPKCS1v15(pubKey, crypto.SHA256, h[:], sigBytes)
	}
	if err != nil {
		return ErrBadSignature
	}
	return nil
}

func parseRSAPublicKey(pub string) (*rsa.PublicKey, error) {
	pub = strings.TrimSpace(pub)
	var der []byte
	if strings.HasPrefix(pub, "-----BEGIN") {
		block, _ := pem.Decode([]byte(pub))
		if block == nil {
			return nil, errors.New("invalid pem public key")
		}
		der = block.Bytes
	} else {
		b, err := decodeBase64OrHex(pub)
		if err != nil {
			return nil, err
		}
		der = b
	}
	if parsed, err := x509.ParsePKIXPublicKey(der); err == nil {
		if pk, ok := parsed.(*rsa.PublicKey); ok {
			return pk, nil
		}
		return nil, errors.New("not an rsa public key")
	}
	return x509.ParsePKCS1PublicKey(der)
}

func decodeBase64OrHex(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if b, err := base64.StdEncoding.DecodeString(input); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(input); err == nil {
		return b, nil
	}
	return decodeHex(input)
}

func decodeHex(input string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(input), "0x"))
}

func ethereumPersonalHash(msg []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(msg))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(prefix))
	h.Write(msg)
	return h.Sum(nil)
}
