package scripting

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ImpactHook is the Lua global an impact script must define:
//
//	function impacts(scenario_id, defeated) return { ... } end
const ImpactHook = "impacts"

// ImpactScript maps a won scenario's defeated enemy templates to world-impact
// identifiers by calling a sandboxed Lua function.
//
// ImpactScript is safe for concurrent use; calls are serialized on one LState.
type ImpactScript struct {
	mu     sync.Mutex
	L      *lua.LState
	path   string
	limit  int
	logger *zap.Logger
}

// LoadImpactScript executes the script at path in a fresh sandbox and checks
// that it defines ImpactHook.
//
// Precondition: logger must be non-nil; instLimit <= 0 uses DefaultInstructionLimit.
// Postcondition: Returns a ready ImpactScript or a non-nil error.
func LoadImpactScript(path string, instLimit int, logger *zap.Logger) (*ImpactScript, error) {
	if logger == nil {
		panic("scripting.LoadImpactScript: logger must not be nil")
	}
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := NewSandboxedState(instLimit)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	if _, ok := L.GetGlobal(ImpactHook).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("scripting: %q does not define function %s", path, ImpactHook)
	}
	logger.Debug("impact script loaded", zap.String("path", path), zap.Int("instruction_limit", instLimit))
	return &ImpactScript{L: L, path: path, limit: instLimit, logger: logger}, nil
}

// Impacts calls the script's hook with scenarioID and the defeated template ids.
//
// Postcondition: Returns the string entries of the returned array in order.
// A nil return yields an empty slice; any non-string entry or Lua error is
// returned as an error.
func (s *ImpactScript) Impacts(scenarioID string, defeated []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L == nil {
		return nil, errors.New("scripting: impact script is closed")
	}

	cancel := withBudget(s.L, s.limit)
	defer cancel()

	arg := s.L.NewTable()
	for _, id := range defeated {
		arg.Append(lua.LString(id))
	}
	if err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal(ImpactHook),
		NRet:    1,
		Protect: true,
	}, lua.LString(scenarioID), arg); err != nil {
		return nil, fmt.Errorf("scripting: %s in %q: %w", ImpactHook, s.path, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	out := []string{}
	switch v := ret.(type) {
	case *lua.LNilType:
	case *lua.LTable:
		for i := 1; i <= v.Len(); i++ {
			str, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				return nil, fmt.Errorf("scripting: %s returned non-string entry %d (%s)", ImpactHook, i, v.RawGetInt(i).Type())
			}
			out = append(out, string(str))
		}
	default:
		return nil, fmt.Errorf("scripting: %s must return a table, got %s", ImpactHook, ret.Type())
	}

	s.logger.Debug("impacts mapped",
		zap.String("scenario_id", scenarioID),
		zap.Strings("defeated", defeated),
		zap.Strings("impacts", out),
	)
	return out, nil
}

// Close releases the Lua state. Subsequent Impacts calls return an error.
func (s *ImpactScript) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}
