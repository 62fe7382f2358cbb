package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *S3Signer {
	t.Helper()
	signer, err := NewS3Signer(context.Background(), S3Config{
		Bucket:       "media",
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return signer
}

type postPolicy struct {
	Expiration string `json:"expiration"`
	Conditions []any  `json:"conditions"`
}

func decodePolicy(t *testing.T, encoded string) postPolicy {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	var p postPolicy
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

// findCondition returns the array condition whose operator matches name.
func findCondition(p postPolicy, name string) []any {
	for _, c := range p.Conditions {
		if arr, ok := c.([]any); ok && len(arr) > 0 && arr[0] == name {
			return arr
		}
	}
	return nil
}

func TestS3Signer_PresignPost(t *testing.T) {
	signer := newTestSigner(t)

	key := "upload/20240509/abc.png"
	ticket, err := signer.PresignPost(context.Background(), key, "image/png", 10<<20, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, ticket.Method)
	assert.Equal(t, key, ticket.Key)
	assert.Equal(t, "http://localhost:9000/media/"+key, ticket.PublicURL)
	assert.Contains(t, ticket.URL, "localhost:9000")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), ticket.ExpiresAt, time.Minute)

	assert.Equal(t, key, ticket.Fields["key"])
	assert.Equal(t, "image/png", ticket.Fields["Content-Type"])
	assert.NotEmpty(t, ticket.Fields["X-Amz-Signature"])
	assert.Contains(t, ticket.Fields["X-Amz-Credential"], "minio/")
	require.NotEmpty(t, ticket.Fields["policy"])
}

func TestS3Signer_PolicyCapsObjectSize(t *testing.T) {
	signer := newTestSigner(t)

	ticket, err := signer.PresignPost(context.Background(), "upload/20240509/abc.png", "image/png", 2048, time.Minute)
	require.NoError(t, err)

	policy := decodePolicy(t, ticket.Fields["policy"])
	assert.Equal(t, []any{"content-length-range", float64(1), float64(2048)}, findCondition(policy, "content-length-range"))
	assert.Equal(t, []any{"eq", "$Content-Type", "image/png"}, findCondition(policy, "eq"))
	assert.Contains(t, policy.Conditions, map[string]any{"bucket": "media"})
	assert.Contains(t, policy.Conditions, map[string]any{"key": "upload/20240509/abc.png"})

	expiration, err := time.Parse(time.RFC3339, policy.Expiration)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiration, 30*time.Second)
}

func TestS3Signer_SignatureCoversPolicy(t *testing.T) {
	signer := newTestSigner(t)

	small, err := signer.PresignPost(context.Background(), "upload/20240509/a.png", "image/png", 1024, time.Minute)
	require.NoError(t, err)
	large, err := signer.PresignPost(context.Background(), "upload/20240509/a.png", "image/png", 4096, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, small.Fields["policy"], large.Fields["policy"])
	assert.NotEqual(t, small.Fields["X-Amz-Signature"], large.Fields["X-Amz-Signature"])
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase(S3Config{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBase(S3Config{Bucket: "b", Region: "eu-west-1"}))
}
