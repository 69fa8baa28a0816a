// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"context"
	"log/slog"
)

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// HookPosBeforeTick triggers before a circuit runs its schedule. Item is the
// cycle number.
var HookPosBeforeTick = &HookPos{Name: "BeforeTick"}

// HookPosAfterTick triggers after a circuit completed a tick. Item is the
// number of completed cycles.
var HookPosAfterTick = &HookPos{Name: "AfterTick"}

// HookPosBlockError triggers when an update block fails. Item is the *Block,
// Detail the error returned by Tick.
var HookPosBlockError = &HookPos{Name: "BlockError"}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

// A LogHook logs circuit activity: one debug record per tick carrying the
// circuit's line trace, and one error record per failed block.
type LogHook struct {
	logger *slog.Logger
}

// NewLogHook creates a LogHook writing to logger.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{logger: logger}
}

// Func implements Hook.
func (h *LogHook) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosAfterTick:
		if !h.logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		args := []any{"cycle", ctx.Item}
		if c, ok := ctx.Domain.(*Circuit); ok {
			if tr := c.LineTrace(); tr != "" {
				args = append(args, "trace", tr)
			}
		}
		h.logger.Debug("tick", args...)
	case HookPosBlockError:
		var block string
		if b, ok := ctx.Item.(*Block); ok {
			block = b.Path()
		}
		h.logger.Error("block failed", "block", block, "error", ctx.Detail)
	}
}
