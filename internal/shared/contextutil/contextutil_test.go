package contextutil_test

import (
	"context"
	"testing"

	"go-tasktracker/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	ctx = contextutil.WithUserID(ctx, "user-1")

	meta := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "REQ-1", meta.RequestID)
	assert.Equal(t, "user-1", meta.UserID)
}

func TestGetLogger_Fallbacks(t *testing.T) {
	def := zap.NewExample()

	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample().Named("scoped")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}
