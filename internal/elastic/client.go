package elastic

import (
	"fmt"
	"log/slog"

	es "github.com/elastic/go-elasticsearch/v8"
)

// Connect builds a client for the node at url. The client is lazy; the
// first request performs the product check.
func Connect(url string, logger *slog.Logger) (*es.Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	logger.Info("✅ Connected to Elasticsearch", "url", url)
	return client, nil
}
