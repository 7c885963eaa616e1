package rules

import (
	lua "github.com/yuin/gopher-lua"
	"github.com/zxqfox/enb/internal/platform"
)

// nodeBuilderBinding exposes one platform.NodeBuilder as the Lua table
// passed to a node's Configure function.
type nodeBuilderBinding struct {
	nb platform.NodeBuilder
}

func newNodeBuilderBinding(nb platform.NodeBuilder) *nodeBuilderBinding {
	return &nodeBuilderBinding{nb: nb}
}

func (n *nodeBuilderBinding) toLuaTable(state *lua.LState) *lua.LTable {
	tbl := state.NewTable()
	state.SetField(tbl, "setLanguages", state.NewFunction(n.luaSetLanguages))
	state.SetField(tbl, "addTargets", state.NewFunction(n.luaAddTargets))
	state.SetField(tbl, "addCleanTargets", state.NewFunction(n.luaAddCleanTargets))
	state.SetField(tbl, "addTechs", state.NewFunction(n.luaAddTechs))
	state.SetField(tbl, "setEnv", state.NewFunction(n.luaSetEnv))
	state.SetField(tbl, "mode", state.NewFunction(n.luaMode))
	return tbl
}

func (n *nodeBuilderBinding) luaSetLanguages(state *lua.LState) int {
	state.CheckTable(1)
	n.nb.SetLanguages(toStringSlice(state.CheckTable(2)))
	return 0
}

func (n *nodeBuilderBinding) luaAddTargets(state *lua.LState) int {
	state.CheckTable(1)
	n.nb.AddTargets(variadicStrings(state, 2)...)
	return 0
}

func (n *nodeBuilderBinding) luaAddCleanTargets(state *lua.LState) int {
	state.CheckTable(1)
	n.nb.AddCleanTargets(variadicStrings(state, 2)...)
	return 0
}

func (n *nodeBuilderBinding) luaAddTechs(state *lua.LState) int {
	state.CheckTable(1)
	n.nb.AddTechs(variadicStrings(state, 2)...)
	return 0
}

func (n *nodeBuilderBinding) luaSetEnv(state *lua.LState) int {
	state.CheckTable(1)
	n.nb.SetEnv(toEnvMap(state.CheckTable(2)))
	return 0
}

// luaMode returns the platform's active mode, so a base node-config can
// branch on it (e.g. `if nb:mode() == "production" then ... end`).
func (n *nodeBuilderBinding) luaMode(state *lua.LState) int {
	state.CheckTable(1)
	state.Push(lua.LString(n.nb.Mode()))
	return 1
}

func variadicStrings(state *lua.LState, from int) []string {
	top := state.GetTop()
	result := make([]string, 0, top-from+1)
	for i := from; i <= top; i++ {
		result = append(result, state.CheckString(i))
	}
	return result
}
