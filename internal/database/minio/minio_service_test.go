package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectNameFromURL(t *testing.T) {
	s := &MinioService{ResourceUrl: "https://cdn.example.com"}

	url := s.BuildResourceURL(CampaignImageBucket, "abc123.png")
	assert.Equal(t, "https://cdn.example.com/campaign-images/abc123.png", url)

	object, ok := s.ObjectNameFromURL(CampaignImageBucket, url)
	assert.True(t, ok)
	assert.Equal(t, "abc123.png", object)

	// Wrong bucket or an externally hosted URL is not ours to delete.
	_, ok = s.ObjectNameFromURL(ReportReceiptBucket, url)
	assert.False(t, ok)
	_, ok = s.ObjectNameFromURL(CampaignImageBucket, "https://other.example.com/campaign-images/abc123.png")
	assert.False(t, ok)
	_, ok = s.ObjectNameFromURL(CampaignImageBucket, "https://cdn.example.com/campaign-images/")
	assert.False(t, ok)
}
