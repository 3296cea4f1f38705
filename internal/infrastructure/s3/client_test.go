package s3infra

import (
	"testing"

	"github.com/dogli-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"aws", config.Config{S3BucketName: "dogli-images", AWSRegion: "eu-west-1"}, "https://dogli-images.s3.eu-west-1.amazonaws.com"},
		{"cdn", config.Config{S3BucketName: "dogli-images", S3PublicBaseURL: "https://cdn.dogli.app/"}, "https://cdn.dogli.app"},
		{"localstack", config.Config{S3BucketName: "dogli-images", AWSEndpointURL: "http://localhost:4566"}, "http://localhost:4566/dogli-images"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, publicBaseURL(&tc.cfg))
		})
	}
}

func TestStore_URLRoundTrip(t *testing.T) {
	s := &Store{bucket: "dogli-images", baseURL: "https://cdn.dogli.app"}

	url := s.URL("dogs/d1/abc-rex.png")
	assert.Equal(t, "https://cdn.dogli.app/dogs/d1/abc-rex.png", url)

	key, ok := s.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "dogs/d1/abc-rex.png", key)

	_, ok = s.KeyFromURL("https://elsewhere.example/x.png")
	assert.False(t, ok)
}
