package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownHooks_RunInReverseAndContinueOnError(t *testing.T) {
	var order []string
	var hooks shutdownHooks
	hooks.add("postgres", func(context.Context) error { order = append(order, "postgres"); return nil })
	hooks.add("pubsub", func(context.Context) error { order = append(order, "pubsub"); return errors.New("flush timeout") })
	hooks.add("http", func(context.Context) error { order = append(order, "http"); return nil })

	hooks.run(context.Background())
	assert.Equal(t, []string{"http", "pubsub", "postgres"}, order)

	hooks.run(context.Background())
	assert.Len(t, order, 3, "hooks run once")
}
