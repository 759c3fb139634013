package dsl

import (
	"time"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// MacroBuilder provides a fluent API for configuring a macro.
// Step methods append in call order.
type MacroBuilder struct {
	macro domain.Macro
}

// On binds the macro to a combo. It is normalized when the catalog is built.
func (m *MacroBuilder) On(c string) *MacroBuilder {
	m.macro.Combo = domain.Combo(c)
	return m
}

func (m *MacroBuilder) step(s domain.Step) *MacroBuilder {
	m.macro.Steps = append(m.macro.Steps, s)
	return m
}

// Delay pauses the macro for d.
func (m *MacroBuilder) Delay(d time.Duration) *MacroBuilder {
	return m.step(domain.Delay(d))
}

// MoveToImage moves the pointer to the center of target once it is on screen.
func (m *MacroBuilder) MoveToImage(target string, confidence float64, timeout time.Duration) *MacroBuilder {
	return m.step(domain.MoveToImage(target, confidence, timeout))
}

// MoveToOrigin moves the pointer back to where it was when the macro started.
func (m *MacroBuilder) MoveToOrigin() *MacroBuilder {
	return m.step(domain.MoveToOrigin())
}

// MoveTo moves the pointer to fixed screen coordinates.
func (m *MacroBuilder) MoveTo(x, y int) *MacroBuilder {
	return m.step(domain.MoveTo(x, y))
}

// CheckDuplicates aborts the run when target appears more than once.
func (m *MacroBuilder) CheckDuplicates(target string, confidence float64) *MacroBuilder {
	return m.step(domain.CheckDuplicates(target, confidence))
}

// LeftClick clicks the left button where the pointer is.
func (m *MacroBuilder) LeftClick() *MacroBuilder {
	return m.step(domain.LeftClick())
}

// RightClick clicks the right button where the pointer is.
func (m *MacroBuilder) RightClick() *MacroBuilder {
	return m.step(domain.RightClick())
}

// Steps appends already built steps.
func (m *MacroBuilder) Steps(steps ...domain.Step) *MacroBuilder {
	m.macro.Steps = append(m.macro.Steps, steps...)
	return m
}
