package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"testing"

	"github.com/alphabot-ai/murmur/internal/apperr"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecp256k1Signature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	msg := "sign me"

	compact := secpecdsa.SignCompact(priv, ethereumPersonalHash([]byte(msg)), false)
	// SignCompact puts the recovery byte first; the verifier expects r || s || v.
	sig := append(append([]byte{}, compact[1:]...), compact[0])

	pub := hex.EncodeToString(priv.PubKey().SerializeCompressed())
	require.NoError(t, VerifySignature(AlgSecp256k1, pub, msg, "0x"+hex.EncodeToString(sig)))

	err = VerifySignature(AlgSecp256k1, pub, "tampered", hex.EncodeToString(sig))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestRSASignatures(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	msg := "rsa message"
	h := sha256.Sum256([]byte(msg))

	pkcs, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, h[:])
	require.NoError(t, err)
	require.NoError(t, VerifySignature(AlgRSASHA256, pemKey, msg, base64.StdEncoding.EncodeToString(pkcs)))
	require.NoError(t, VerifySignature(AlgRSASHA256, base64.StdEncoding.EncodeToString(der), msg, base64.StdEncoding.EncodeToString(pkcs)))

	pss, err := rsa.SignPSS(rand.Reader, key, crypto.SHA256, h[:], nil)
	require.NoError(t, err)
	require.NoError(t, VerifySignature(AlgRSAPSS, pemKey, msg, base64.StdEncoding.EncodeToString(pss)))

	err = VerifySignature(AlgRSAPSS, pemKey, msg, base64.StdEncoding.EncodeToString(pkcs))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestUnsupportedAlg(t *testing.T) {
	err := VerifySignature("dsa", "", "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.False(t, SupportedAlg("dsa"))
	assert.True(t, SupportedAlg("RSA-PSS"))
}

func TestMalformedKeyIsUnauthenticated(t *testing.T) {
	err := VerifySignature(AlgEd25519, "zz", "m", "zz")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
