// Package rules implements the platform's rule-file evaluator: a Lua
// scripting runtime (github.com/yuin/gopher-lua) binding a single
// `project` table to a platform.ProjectConfig, a small embedded-language
// surface in place of a bespoke parser.
package rules

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/platform"
)

// Loader is the default platform.RuleLoader: it constructs a fresh Lua
// VM per Evaluate call, so there is no cross-invocation module cache to
// invalidate.
type Loader struct {
	states []*lua.LState
}

// NewLoader constructs the default Lua-backed rule loader.
func NewLoader() *Loader { return &Loader{} }

// Evaluate constructs a fresh *lua.LState and runs filePath against it.
// The state is deliberately kept alive for the Platform's lifetime
// rather than closed here: node() and task() callbacks registered while
// evaluating the file are Lua closures over this same state, invoked
// much later during node init/build. Platform.Destruct releases it via
// the Loader's Close.
func (l *Loader) Evaluate(ctx context.Context, filePath string, pc platform.ProjectConfig) error {
	state := lua.NewState()
	state.SetContext(ctx)
	l.states = append(l.states, state)

	project := newProjectBinding(ctx, pc)
	state.SetGlobal("project", project.toLuaTable(state))

	if err := state.DoFile(filePath); err != nil {
		return fmt.Errorf("rule file %s: %w", filePath, err)
	}
	return nil
}

// Close releases every Lua VM this loader has constructed. Safe to call
// more than once.
func (l *Loader) Close() {
	for _, state := range l.states {
		state.Close()
	}
	l.states = nil
}

// projectBinding closes over the evaluating context and target
// ProjectConfig so its methods can be exposed as Lua closures without a
// registered userdata type.
type projectBinding struct {
	ctx context.Context
	pc  platform.ProjectConfig
}

func newProjectBinding(ctx context.Context, pc platform.ProjectConfig) *projectBinding {
	return &projectBinding{ctx: ctx, pc: pc}
}

func (b *projectBinding) toLuaTable(state *lua.LState) *lua.LTable {
	tbl := state.NewTable()
	state.SetField(tbl, "node", state.NewFunction(b.luaNode))
	state.SetField(tbl, "nodeMask", state.NewFunction(b.luaNodeMask))
	state.SetField(tbl, "mode", state.NewFunction(b.luaMode))
	state.SetField(tbl, "task", state.NewFunction(b.luaTask))
	state.SetField(tbl, "setLanguages", state.NewFunction(b.luaSetLanguages))
	state.SetField(tbl, "setEnv", state.NewFunction(b.luaSetEnv))
	state.SetField(tbl, "include", state.NewFunction(b.luaInclude))
	state.SetField(tbl, "levelNamingScheme", state.NewFunction(b.luaLevelNamingScheme))
	return tbl
}

// luaNode implements project:node(path, fn).
func (b *projectBinding) luaNode(state *lua.LState) int {
	self := state.CheckTable(1)
	_ = self
	path := state.CheckString(2)
	fn := state.CheckFunction(3)

	entry := platform.NodeEntry{
		Path: path,
		Configure: func(ctx context.Context, nb platform.NodeBuilder) error {
			return b.callConfigure(state, fn, nb)
		},
	}
	b.pc.RegisterNode(entry)
	return 0
}

// luaNodeMask implements project:nodeMask(pattern, fn).
func (b *projectBinding) luaNodeMask(state *lua.LState) int {
	state.CheckTable(1)
	pattern := state.CheckString(2)
	fn := state.CheckFunction(3)

	b.pc.RegisterNodeMask(platform.NodeMaskEntry{
		Mask: pattern,
		Configure: func(ctx context.Context, nb platform.NodeBuilder) error {
			return b.callConfigure(state, fn, nb)
		},
	})
	return 0
}

// luaMode implements project:mode(name, fn) at project scope. Per-node mode overrides (NodeEntry.ModeConfigure) are a core
// extension point the default Lua DSL does not expose; rule files branch
// on the active mode from inside a node's base Configure fn instead.
func (b *projectBinding) luaMode(state *lua.LState) int {
	state.CheckTable(1)
	name := state.CheckString(2)
	fn := state.CheckFunction(3)

	b.pc.RegisterModeConfig(name, func(ctx context.Context, pc platform.ProjectConfig) error {
		return b.callProjectFn(state, fn)
	})
	return 0
}

// luaTask implements project:task(name, fn).
func (b *projectBinding) luaTask(state *lua.LState) int {
	state.CheckTable(1)
	name := state.CheckString(2)
	fn := state.CheckFunction(3)

	b.pc.SetTask(platform.TaskEntry{
		Name: name,
		Run: func(ctx context.Context, p *platform.Platform, args []string) (any, error) {
			return b.callTask(state, fn, args)
		},
	})
	return 0
}

func (b *projectBinding) luaSetLanguages(state *lua.LState) int {
	state.CheckTable(1)
	langs := toStringSlice(state.CheckTable(2))
	b.pc.SetLanguages(langs)
	return 0
}

func (b *projectBinding) luaSetEnv(state *lua.LState) int {
	state.CheckTable(1)
	env := toEnvMap(state.CheckTable(2))
	merged, err := b.pc.Env().Merge(env)
	if err != nil {
		state.RaiseError("setEnv: %s", err)
		return 0
	}
	b.pc.SetEnv(merged)
	return 0
}

// luaInclude implements project:include(path) by re-evaluating path
// against the same ProjectConfig.
func (b *projectBinding) luaInclude(state *lua.LState) int {
	state.CheckTable(1)
	path := state.CheckString(2)

	loader := NewLoader()
	if err := loader.Evaluate(b.ctx, path, b.pc); err != nil {
		state.RaiseError("include %s: %s", path, err)
		return 0
	}
	b.pc.AddIncludedFile(path)
	return 0
}

func (b *projectBinding) luaLevelNamingScheme(state *lua.LState) int {
	state.CheckTable(1)
	levelPath := state.CheckString(2)
	opts := state.CheckTable(3)

	scheme := platform.LevelNamingScheme{
		BuildLevel:    luaTableStringField(opts, "buildLevel"),
		BuildFilePath: luaTableStringField(opts, "buildFilePath"),
	}
	b.pc.SetLevelNamingScheme(levelPath, scheme)
	return 0
}

// callConfigure invokes a Lua node/mask configure function with a fresh
// builder binding, then reads its accumulated state back.
func (b *projectBinding) callConfigure(state *lua.LState, fn *lua.LFunction, nb platform.NodeBuilder) error {
	binding := newNodeBuilderBinding(nb)
	arg := binding.toLuaTable(state)
	return state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, arg)
}

func (b *projectBinding) callProjectFn(state *lua.LState, fn *lua.LFunction) error {
	return state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, b.toLuaTable(state))
}

func (b *projectBinding) callTask(state *lua.LState, fn *lua.LFunction, args []string) (any, error) {
	argsTable := state.NewTable()
	for _, a := range args {
		argsTable.Append(lua.LString(a))
	}
	if err := state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, b.toLuaTable(state), argsTable); err != nil {
		return nil, err
	}
	ret := state.Get(-1)
	state.Pop(1)
	return fromLuaValue(ret), nil
}

func toStringSlice(tbl *lua.LTable) []string {
	var result []string
	tbl.ForEach(func(_, v lua.LValue) {
		result = append(result, v.String())
	})
	return result
}

func toEnvMap(tbl *lua.LTable) core.EnvMap {
	result := make(core.EnvMap)
	tbl.ForEach(func(k, v lua.LValue) {
		result[k.String()] = v.String()
	})
	return result
}

func luaTableStringField(tbl *lua.LTable, field string) string {
	return tbl.RawGetString(field).String()
}

func fromLuaValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	default:
		return nil
	}
}
