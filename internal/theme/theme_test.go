package theme

import (
	"testing"

	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/assert"
)

func TestNotifier_SubscribeAndSet(t *testing.T) {
	n := NewNotifier(schema.LightTheme)
	var got []string

	unsubA := n.Subscribe(func(th schema.Theme) { got = append(got, "a:"+string(th)) })
	n.Subscribe(func(th schema.Theme) { got = append(got, "b:"+string(th)) })
	assert.Equal(t, 2, n.Listeners())

	n.Set(schema.DarkTheme)
	assert.Equal(t, []string{"a:dark", "b:dark"}, got)
	assert.Equal(t, schema.DarkTheme, n.Current())

	unsubA()
	unsubA()
	assert.Equal(t, 1, n.Listeners())

	n.Set(schema.LightTheme)
	assert.Equal(t, []string{"a:dark", "b:dark", "b:light"}, got)
}

func TestNotifier_SameThemeIsNoop(t *testing.T) {
	n := NewNotifier(schema.DarkTheme)
	calls := 0
	n.Subscribe(func(schema.Theme) { calls++ })

	n.Set(schema.DarkTheme)
	assert.Zero(t, calls)
}

func TestNotifier_UnsubscribeDuringNotify(t *testing.T) {
	n := NewNotifier(schema.LightTheme)
	calls := 0
	var unsub func()
	unsub = n.Subscribe(func(schema.Theme) {
		calls++
		unsub()
	})

	n.Set(schema.DarkTheme)
	n.Set(schema.LightTheme)
	assert.Equal(t, 1, calls)
	assert.Zero(t, n.Listeners())
}
