package chain

import (
	"crypto/ecdsa"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Credential names where the signing key comes from. PrivateKey wins when
// both are set.
type Credential struct {
	PrivateKey       string
	KeystorePath     string
	KeystorePassword string
}

// LoadKey returns the signing key. The keystore password is asked through
// askPassword when it is not part of the credential; askPassword may be nil.
func LoadKey(cred Credential, askPassword func() (string, error)) (*ecdsa.PrivateKey, error) {
	if cred.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cred.PrivateKey), "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse private key")
		}
		return key, nil
	}

	if cred.KeystorePath == "" {
		return nil, ErrNoCredential
	}

	keyJSON, err := os.ReadFile(cred.KeystorePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore file")
	}

	password := cred.KeystorePassword
	if password == "" && askPassword != nil {
		password, err = askPassword()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get keystore password")
		}
	}

	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt keystore")
	}

	return key.PrivateKey, nil
}
