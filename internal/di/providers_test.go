package di

import (
	"testing"

	"github.com/Akash-repo/service-p/pkg/config"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestProvideKafkaProducerCleanup(t *testing.T) {
	t.Parallel()

	// Arrange: the writer connects lazily, so no broker is needed.
	cfg, err := config.Parse([]byte(`
providers:
  fmp:
    base_url: https://example.com
    resource_path: /quote/{ticker}
kafka:
  brokers: [localhost:9092]
`))
	require.NoError(t, err)

	producer, cleanup, err := ProvideKafkaProducer(cfg, applogger.NewNop())
	require.NoError(t, err)

	// Act: the publisher drain closes first, then the injector cleanup runs.
	require.NoError(t, producer.Close())
	cleanup()

	// Assert
	require.NoError(t, producer.Close())
}
