package storage

import (
	"context"
	"testing"

	"github.com/BruksfildServices01/repair-desk/internal/config"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
)

func TestNew_DisabledWithoutBucket(t *testing.T) {
	store := New(config.S3Config{Region: "us-east-1"})

	if _, ok := store.(Disabled); !ok {
		t.Fatalf("store = %T, want Disabled", store)
	}
	if _, err := store.Put(context.Background(), "k", "image/webp", []byte("x")); !httperr.IsBusiness(err, "storage_unavailable") {
		t.Fatalf("Put err = %v", err)
	}
}

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		cfg  config.S3Config
		want string
	}{
		{config.S3Config{Bucket: "att", Region: "eu-west-1"}, "https://att.s3.eu-west-1.amazonaws.com"},
		{config.S3Config{Bucket: "att", Endpoint: "http://minio:9000/"}, "http://minio:9000/att"},
		{config.S3Config{Bucket: "att", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}
	for _, tc := range cases {
		if got := publicBaseURL(tc.cfg); got != tc.want {
			t.Fatalf("publicBaseURL(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
