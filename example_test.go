package shortcutter_test

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/shortcutter"
	"github.com/aretw0/shortcutter/pkg/adapters/memory"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/dsl"
)

func Example() {
	ctx := context.Background()

	b := dsl.New()
	b.Add("refresh").
		On("Shift+Alt+R").
		Delay(10 * time.Millisecond).
		LeftClick()

	store, err := b.Build()
	if err != nil {
		panic(err)
	}
	pointer := memory.NewPointer(domain.Point{X: 0, Y: 0})

	eng, err := shortcutter.New("", shortcutter.WithStore(store),
		shortcutter.WithPlatform(memory.NewKeyboard(), pointer, memory.NewScreen()))
	if err != nil {
		panic(err)
	}
	defer eng.Close()

	if err := eng.Start(ctx); err != nil {
		panic(err)
	}
	fmt.Println(eng.Status(), eng.Combos())
	fmt.Println(eng.Trigger("alt+shift+r"))

	// Output:
	// running [alt+shift+r]
	// true
}
