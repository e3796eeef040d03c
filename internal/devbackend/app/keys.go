package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 key at cfg.SigningKeyFile, creating it on
// first use. Without a path the key is generated in memory and every token
// becomes invalid on restart.
func InitSigningKey(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	var (
		pemKey []byte
		err    error
	)
	if cfg.SigningKeyFile != "" {
		pemKey, err = cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		pemKey, err = cryptox.GenerateEd25519Key()
		logger.Info("signing key generated (ephemeral)")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("signing key: %w", err)
	}

	// kid is derived from the key so a persisted key keeps its kid.
	kid := cryptox.FingerprintToken(string(pemKey))[:16]
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, err
	}
	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, err
	}
	return signer, keys, nil
}
