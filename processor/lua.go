package processor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

type LuaResultProcessorConfig struct {
	Name       string `yaml:"-"`
	ScriptPath string `yaml:"script-path"`

	// Script is used when ScriptPath is empty.
	Script string `yaml:"script"`

	// Platforms limits the processor. Empty means every platform.
	Platforms []string `yaml:"platforms"`
}

// LuaResultProcessor rewrites rendered outputs with a lua script.
// Provided script MUST contain a function named `post_process` which takes the
// platform id and the rendered output as parameters and returns the new output
// as a string.
// Note that user can have access to JSON helper using `local json = require("json")`
type LuaResultProcessor struct {
	cfg  LuaResultProcessorConfig
	pool *sync.Pool
}

func NewLuaResultProcessor(cfg LuaResultProcessorConfig) (*LuaResultProcessor, error) {
	if cfg.ScriptPath == "" && cfg.Script == "" {
		return nil, errors.New("lua processor needs a script path or an inline script")
	}

	// Compile once up front so a broken script fails here and not in a worker.
	L, err := newLuaState(cfg)
	if err != nil {
		return nil, err
	}

	pool := &sync.Pool{
		New: func() any {
			L, err := newLuaState(cfg)
			if err != nil {
				panic(err)
			}
			return L
		},
	}
	pool.Put(L)

	return &LuaResultProcessor{
		cfg:  cfg,
		pool: pool,
	}, nil
}

func newLuaState(cfg LuaResultProcessorConfig) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // Don't load anything by default
	})

	// We skip 'os' and 'io' to prevent system commands/file access
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},  // Allows 'require'
		{lua.BaseLibName, lua.OpenBase},     // Allows 'print', 'pairs', etc.
		{lua.TabLibName, lua.OpenTable},     // Allows 'table.insert', etc.
		{lua.StringLibName, lua.OpenString}, // Allows string manipulation
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	luajson.Preload(L)

	var err error
	if cfg.ScriptPath != "" {
		err = L.DoFile(cfg.ScriptPath)
	} else {
		err = L.DoString(cfg.Script)
	}
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("cannot load lua script: %w", err)
	}

	if L.GetGlobal("post_process").Type() != lua.LTFunction {
		L.Close()
		return nil, errors.New("lua script does not define post_process")
	}

	return L, nil
}

func (lp *LuaResultProcessor) Name() string {
	return lp.cfg.Name
}

func (lp *LuaResultProcessor) Process(result entity.TranslationResult) (entity.TranslationResult, error) {
	if !appliesTo(lp.cfg.Platforms, result.Platform) {
		return result, nil
	}

	L := lp.pool.Get().(*lua.LState)
	defer lp.pool.Put(L)

	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("post_process"),
		NRet:    1,
		Protect: true,
	}, lua.LString(result.Platform), lua.LString(result.Output))

	if err != nil {
		return result, fmt.Errorf("lua script error: %w", err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	out, ok := ret.(lua.LString)
	if !ok {
		return result, fmt.Errorf("post_process returned %s instead of a string", ret.Type().String())
	}

	result.Output = string(out)
	return result, nil
}
