package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With a fixed region presigning is computed locally, no server round trip.
func TestPresignedURLSignsReceiptKey(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	s := &MinioStorage{client: client, bucket: "payment-receipts"}
	raw, err := s.PresignedURL(context.Background(), "65f0c0ffee0000000000abcd.json", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/payment-receipts/65f0c0ffee0000000000abcd.json", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
