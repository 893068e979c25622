package nintendo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nsoview/nsoview/internal/constant"
)

// AttestationProof is the anti-automation signature the znc login endpoint
// requires. It is produced by a third-party attestation service from the
// service-level ID token.
type AttestationProof struct {
	// RequestID identifies the signing request.
	RequestID string `json:"request_id"`
	// Timestamp is the provider-side signing time in milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Proof is the signature, named "f" on the wire.
	Proof string `json:"f"`
}

// FetchAttestationProof obtains an attestation proof for the given service ID
// token (pipeline step 3b).
func (na *NintendoAuth) FetchAttestationProof(ctx context.Context, idToken string) (*AttestationProof, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"token":       idToken,
		"hash_method": 1,
	})
	if err != nil {
		return nil, NewAuthenticationError(ErrAttestation, fmt.Errorf("failed to marshal request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, na.endpoints.attestation, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewAuthenticationError(ErrAttestation, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", constant.UserAgentAttestation)

	body, err := na.do(req)
	if err != nil {
		return nil, NewAuthenticationError(ErrAttestation, err)
	}

	var proof AttestationProof
	if err = json.Unmarshal(body, &proof); err != nil {
		return nil, NewAuthenticationError(ErrAttestation, fmt.Errorf("failed to parse attestation response: %w", err))
	}
	if proof.RequestID == "" || proof.Proof == "" {
		return nil, NewAuthenticationError(ErrAttestation, fmt.Errorf("request_id or f not found in response"))
	}

	na.logger.WithField("step", "3b").Debug("attestation proof obtained")
	return &proof, nil
}
