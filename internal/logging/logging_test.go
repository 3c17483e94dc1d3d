package logging

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevelDefaultsToInfoOnUnknown(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("not-a-level"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestParseLevelRecognizesKnownNames(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
}

func TestWithComponentAttachesFieldToContextLogger(t *testing.T) {
	base := zerolog.New(nil)
	ctx := WithContext(context.Background(), base)
	ctx = WithComponent(ctx, "reconcile")

	logger := FromContext(ctx)
	assert.NotNil(t, logger)
}

func TestFromContextReturnsNoopWithoutAttachedLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
}
