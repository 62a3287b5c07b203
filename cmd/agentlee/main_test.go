package main

import (
	"testing"

	"agentlee/internal/deck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSlide(t *testing.T) {
	story := deck.DefaultStory()

	t.Run("empty means no slide", func(t *testing.T) {
		slide, err := resolveSlide(story, "")
		require.NoError(t, err)
		assert.Nil(t, slide)
	})

	t.Run("by number", func(t *testing.T) {
		slide, err := resolveSlide(story, "3")
		require.NoError(t, err)
		require.NotNil(t, slide)
		assert.Equal(t, "throughTheTunnels", slide.ID)
	})

	t.Run("by id", func(t *testing.T) {
		slide, err := resolveSlide(story, "mastersOfMain")
		require.NoError(t, err)
		require.NotNil(t, slide)
		assert.Equal(t, "Masters of the Main", slide.Title)
	})

	t.Run("by title", func(t *testing.T) {
		slide, err := resolveSlide(story, "Through the Tunnels")
		require.NoError(t, err)
		require.NotNil(t, slide)
		assert.Equal(t, "throughTheTunnels", slide.ID)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := resolveSlide(story, "0")
		assert.Error(t, err)
		_, err = resolveSlide(story, "99")
		assert.Error(t, err)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := resolveSlide(story, "noSuchSlide")
		assert.Error(t, err)
	})
}

func TestRootCommandWiring(t *testing.T) {
	want := []string{"ask", "chat", "index", "status", "clear", "autopilot"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "subcommand %s not registered", name)
	}
}
