// Package luaagent runs Lua policy scripts as agent strategies.
//
// A script defines a global function decide(state, self) that receives the
// decision request as a table and returns {action="raise", quantity=q,
// face=f} or {action="liar"}. The self table persists across every decision
// of one match. Scripts run in a restricted interpreter: only the base,
// string, table and math libraries are loaded, file loading is removed and
// math.random draws from the agent's seeded stream.
package luaagent
