package elastic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
)

const IdxRegistrations = "registrations_v1"

// RegistrationMapping is strict so a document shape drift fails loudly
// instead of silently growing the index.
const RegistrationMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"name":{"type":"text","fields":{"raw":{"type":"keyword"}}},
	"email":{"type":"keyword"},
	"course":{"type":"keyword"},
	"branch":{"type":"keyword"},
	"college":{"type":"text","fields":{"raw":{"type":"keyword"}}},
	"contact":{"type":"keyword"},
	"event":{"type":"keyword"},
	"created_at":{"type":"date"},
	"updated_at":{"type":"date"}
}}}`

func EnsureIndexes(ctx context.Context, c *es.Client) error {
	return ensure(ctx, c, IdxRegistrations, RegistrationMapping)
}

func ensure(ctx context.Context, c *es.Client, index, body string) error {
	exists, err := c.Indices.Exists([]string{index}, c.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := c.Indices.Create(index,
		c.Indices.Create.WithBody(strings.NewReader(body)),
		c.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("create index %s: %s: %s", index, res.Status(), strings.TrimSpace(string(msg)))
	}
	return nil
}
