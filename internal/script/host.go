// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/holomush/cmdbind/internal/command"
)

// DefaultCallTimeout bounds a single Lua handler invocation.
const DefaultCallTimeout = 5 * time.Second

// pack holds a loaded command pack.
type pack struct {
	manifest *Manifest
	dir      string
	proto    *lua.FunctionProto
	commands []string
}

// Host loads command packs and registers their commands in a registry.
// Each handler invocation runs in a fresh sandboxed Lua state.
type Host struct {
	registry *command.Registry
	factory  *StateFactory
	engine   *semver.Version
	logger   *slog.Logger
	timeout  time.Duration
	gauge    prometheus.Gauge

	mu     sync.Mutex
	packs  map[string]*pack
	closed bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithEngineVersion sets the version checked against pack engine constraints.
// Without it, engine constraints are not enforced.
func WithEngineVersion(v *semver.Version) HostOption {
	return func(h *Host) {
		h.engine = v
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithCallTimeout bounds each handler invocation. Defaults to DefaultCallTimeout.
func WithCallTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithPacksGauge sets a gauge tracking the number of loaded packs.
func WithPacksGauge(g prometheus.Gauge) HostOption {
	return func(h *Host) {
		h.gauge = g
	}
}

// NewHost creates a host registering pack commands in registry.
func NewHost(registry *command.Registry, opts ...HostOption) *Host {
	h := &Host{
		registry: registry,
		factory:  NewStateFactory(),
		timeout:  DefaultCallTimeout,
		packs:    make(map[string]*pack),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// ReadManifest reads, schema-validates and parses dir/pack.yaml.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.In("script").Code(CodePackLoadFailed).
			With("path", path).
			Wrapf(err, "read manifest")
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.In("script").With("path", path).Wrap(err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, oops.In("script").With("path", path).Wrap(err)
	}
	return m, nil
}

// LoadDir loads the pack in dir and registers its commands. Either every
// command of the pack is registered or none is.
func (h *Host) LoadDir(ctx context.Context, dir string) (*Manifest, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, oops.In("script").Code(CodeHostClosed).With("pack", m.Name).Errorf("host is closed")
	}
	if _, ok := h.packs[m.Name]; ok {
		return nil, oops.In("script").Code(CodePackAlreadyLoaded).
			With("pack", m.Name).
			Errorf("pack %s is already loaded", m.Name)
	}
	if err := m.CheckEngine(h.engine); err != nil {
		return nil, err
	}

	p, err := h.compilePack(ctx, m, dir)
	if err != nil {
		return nil, err
	}

	defs, err := m.Definitions(h.registry.Parsers())
	if err != nil {
		return nil, err
	}
	for i, def := range defs {
		handler := h.handler(p, m.Commands[i].Handler, def.Params)
		if _, err := h.registry.Register(def, handler); err != nil {
			for _, name := range p.commands {
				h.registry.Unregister(name)
			}
			return nil, oops.In("script").With("pack", m.Name).Wrapf(err, "register %s", def.Name)
		}
		p.commands = append(p.commands, def.Name)
	}

	h.packs[m.Name] = p
	h.updateGauge()

	h.logger.InfoContext(ctx, "loaded command pack",
		"pack", m.Name,
		"version", m.Version,
		"commands", len(p.commands),
		"dir", dir)
	return m, nil
}

// LoadAll loads every pack directory in dirs. Failing packs are logged and
// skipped; the number of packs loaded is returned.
func (h *Host) LoadAll(ctx context.Context, dirs []string) int {
	loaded := 0
	for _, dir := range dirs {
		if _, err := h.LoadDir(ctx, dir); err != nil {
			h.logger.ErrorContext(ctx, "failed to load command pack",
				"dir", dir,
				"error", err)
			continue
		}
		loaded++
	}
	return loaded
}

// compilePack reads and compiles the entry file, then runs it once in a
// throwaway state to check that every declared handler is a function.
func (h *Host) compilePack(ctx context.Context, m *Manifest, dir string) (*pack, error) {
	if !filepath.IsLocal(m.Entry) {
		return nil, invalidManifest().With("pack", m.Name).With("entry", m.Entry).
			Errorf("entry must be a path inside the pack directory")
	}
	entryPath := filepath.Join(dir, m.Entry)
	code, err := os.ReadFile(filepath.Clean(entryPath))
	if err != nil {
		return nil, oops.In("script").Code(CodePackLoadFailed).
			With("pack", m.Name).
			With("path", entryPath).
			Wrapf(err, "read entry file")
	}

	chunk, err := parse.Parse(bytes.NewReader(code), m.Entry)
	if err != nil {
		return nil, oops.In("script").Code(CodePackLoadFailed).
			With("pack", m.Name).
			With("entry", m.Entry).
			Wrapf(err, "syntax error")
	}
	proto, err := lua.Compile(chunk, m.Entry)
	if err != nil {
		return nil, oops.In("script").Code(CodePackLoadFailed).
			With("pack", m.Name).
			With("entry", m.Entry).
			Wrapf(err, "compile entry")
	}

	L, err := h.newState(ctx, m.Name, proto)
	if err != nil {
		return nil, err
	}
	defer L.Close()

	for _, c := range m.Commands {
		if L.GetGlobal(c.Handler).Type() != lua.LTFunction {
			return nil, oops.In("script").Code(CodePackLoadFailed).
				With("pack", m.Name).
				With("command", c.Name).
				With("handler", c.Handler).
				Errorf("handler %s is not a function defined by %s", c.Handler, m.Entry)
		}
	}

	return &pack{manifest: m, dir: dir, proto: proto}, nil
}

// newState creates a sandboxed state with host functions and runs the pack's
// top-level chunk in it.
func (h *Host) newState(ctx context.Context, name string, proto *lua.FunctionProto) (*lua.LState, error) {
	L, err := h.factory.NewState(ctx)
	if err != nil {
		return nil, err
	}
	registerHostFunctions(L, h.logger, h.registry, name)

	if err := L.CallByParam(lua.P{
		Fn:      L.NewFunctionFromProto(proto),
		NRet:    0,
		Protect: true,
	}); err != nil {
		L.Close()
		return nil, oops.In("script").Code(CodePackLoadFailed).
			With("pack", name).
			Wrapf(err, "run entry chunk")
	}
	return L, nil
}

// handler adapts a Lua function to a command handler. The function is
// called as fn(sender, args); returning a string fails the command with
// that message.
func (h *Host) handler(p *pack, fn string, params []command.ParameterSpec) command.Handler {
	name := p.manifest.Name
	return func(ctx context.Context, args *command.Args) error {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		L, err := h.newState(ctx, name, p.proto)
		if err != nil {
			return err
		}
		defer L.Close()

		if err := L.CallByParam(lua.P{
			Fn:      L.GetGlobal(fn),
			NRet:    1,
			Protect: true,
		}, senderTable(L, args.Sender()), argsTable(L, params, args)); err != nil {
			return oops.In("script").Code(CodeScriptFailed).
				With("pack", name).
				With("handler", fn).
				Wrapf(err, "lua handler %s", fn)
		}

		ret := L.Get(-1)
		L.Pop(1)
		if msg, ok := ret.(lua.LString); ok {
			return oops.In("script").Code(CodeScriptFailed).
				With("pack", name).
				With("handler", fn).
				Errorf("%s", string(msg))
		}
		return nil
	}
}

// Unload unregisters the pack's commands and forgets it.
func (h *Host) Unload(ctx context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.packs[name]
	if !ok {
		return oops.In("script").Code(CodePackNotLoaded).
			With("pack", name).
			Errorf("pack %s is not loaded", name)
	}
	for _, cmd := range p.commands {
		h.registry.Unregister(cmd)
	}
	delete(h.packs, name)
	h.updateGauge()

	h.logger.InfoContext(ctx, "unloaded command pack", "pack", name)
	return nil
}

// Packs returns the names of loaded packs, sorted.
func (h *Host) Packs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.packs))
	for name := range h.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manifest returns the manifest of a loaded pack.
func (h *Host) Manifest(name string) (*Manifest, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.packs[name]
	if !ok {
		return nil, false
	}
	return p.manifest, true
}

// Close unloads every pack. Later loads fail.
func (h *Host) Close(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.packs {
		for _, cmd := range p.commands {
			h.registry.Unregister(cmd)
		}
	}
	h.packs = make(map[string]*pack)
	h.closed = true
	h.updateGauge()
	return nil
}

func (h *Host) updateGauge() {
	if h.gauge != nil {
		h.gauge.Set(float64(len(h.packs)))
	}
}
