package dsl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

func TestBuilder_SimpleCatalog(t *testing.T) {
	b := New()

	b.Add("archive").
		On("Shift+Alt+A").
		CheckDuplicates("archive.png", 0.9).
		MoveToImage("archive.png", 0.9, 2*time.Second).
		LeftClick().
		MoveToOrigin()

	b.Add("menu").
		On("ctrl+m").
		MoveTo(10, 20).
		RightClick().
		Delay(500 * time.Millisecond)

	store, err := b.Build()
	require.NoError(t, err)

	cat, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cat.Macros, 2)
	assert.Empty(t, cat.Skipped)

	archive, err := store.Load(context.Background(), "archive")
	require.NoError(t, err)
	assert.Equal(t, domain.Combo("alt+shift+a"), archive.Combo)
	assert.Equal(t, []domain.Step{
		domain.CheckDuplicates("archive.png", 0.9),
		domain.MoveToImage("archive.png", 0.9, 2*time.Second),
		domain.LeftClick(),
		domain.MoveToOrigin(),
	}, archive.Steps)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add("a").On("f1").LeftClick()
	b.Add("a").RightClick()

	macros, err := b.Macros()
	require.NoError(t, err)
	require.Len(t, macros, 1)
	assert.Equal(t, []domain.Step{domain.LeftClick(), domain.RightClick()}, macros[0].Steps)
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Builder)
		is    error
	}{
		{
			name:  "Missing Combo",
			setup: func(b *Builder) { b.Add("a").LeftClick() },
			is:    schema.ErrInvalidRecord,
		},
		{
			name:  "Missing Target",
			setup: func(b *Builder) { b.Add("a").On("f1").MoveToImage("", 0.5, time.Second) },
			is:    schema.ErrInvalidRecord,
		},
		{
			name:  "Reserved Combo",
			setup: func(b *Builder) { b.Add("a").On("Alt+F4") },
			is:    combo.ErrReserved,
		},
		{
			name:  "Custom Reserved Combo",
			setup: func(b *Builder) { b.Reserve("ctrl+q").Add("a").On("Ctrl+Q") },
			is:    combo.ErrReserved,
		},
		{
			name: "Combo In Use",
			setup: func(b *Builder) {
				b.Add("a").On("ctrl+alt+k")
				b.Add("b").On("Alt+Ctrl+K")
			},
			is: combo.ErrInUse,
		},
		{
			name:  "Bad Grammar",
			setup: func(b *Builder) { b.Add("a").On("hyper+k") },
			is:    combo.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			tt.setup(b)
			_, err := b.Build()
			assert.ErrorIs(t, err, tt.is)
		})
	}
}
