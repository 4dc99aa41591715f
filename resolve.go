// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// Resolver expands file-relative $ref pointers into self-contained schema
// trees. It never mutates its input; every result is a fresh value.
//
// Resolved files are cached by absolute path for the lifetime of the
// Resolver, so a commonly referenced file is parsed once per build.
type Resolver struct {
	// Lenient substitutes an empty object for a missing $ref target instead
	// of failing, logging a warning. Off by default: silent substitution can
	// mask broken documentation links.
	Lenient bool
	// Logger receives lenient-mode warnings. Defaults to slog.Default.
	Logger *slog.Logger

	cache  map[string]any
	active []string
}

// NewResolver creates a strict Resolver with an empty file cache.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]any)}
}

// ResolveFile loads path from disk and resolves every reference in it.
func (resolver *Resolver) ResolveFile(path string) (any, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}

	if cached, ok := resolver.cache[absPath]; ok {
		return cached, nil
	}

	for _, open := range resolver.active {
		if open == absPath {
			cycle := append(append([]string{}, resolver.active...), absPath)
			return nil, fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(cycle, " -> "))
		}
	}

	raw, err := LoadFile(absPath)
	if err != nil {
		return nil, err
	}

	resolver.active = append(resolver.active, absPath)
	resolved, err := resolver.Resolve(absPath, raw)
	resolver.active = resolver.active[:len(resolver.active)-1]
	if err != nil {
		return nil, err
	}

	resolver.cache[absPath] = resolved
	return resolved, nil
}

// Resolve recursively replaces $ref mappings in node. References are
// resolved relative to the directory of path, the file node came from.
func (resolver *Resolver) Resolve(path string, node any) (any, error) {
	switch typed := node.(type) {
	case *Object:
		if ref := objectString(typed, "$ref"); ref != "" {
			return resolver.resolveReference(path, ref, typed)
		}

		out := NewObject()
		for _, key := range typed.Keys() {
			value, _ := typed.Get(key)
			resolved, err := resolver.Resolve(path, value)
			if err != nil {
				return nil, err
			}

			out.Set(key, resolved)
		}

		return out, nil

	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			resolved, err := resolver.Resolve(path, item)
			if err != nil {
				return nil, err
			}

			out = append(out, resolved)
		}

		return out, nil

	default:
		return node, nil
	}
}

// resolveReference expands one $ref mapping: the referenced document is the
// base result and every sibling key is merged on top of it, in order.
func (resolver *Resolver) resolveReference(path, ref string, node *Object) (any, error) {
	filePart, fragment, _ := strings.Cut(ref, "#")
	targetPath := filepath.Join(filepath.Dir(path), filePart)

	base, err := resolver.ResolveFile(targetPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		if !resolver.Lenient {
			return nil, fmt.Errorf("%w: %q referenced by %s (resolved to %s)",
				ErrReferenceNotFound, ref, path, targetPath)
		}

		resolver.logger().Warn("reference target not found, substituting empty object",
			"ref", ref, "file", path, "target", targetPath)
		base = NewObject()
	}

	if fragment != "" {
		base, err = resolveFragment(base, fragment)
		if err != nil {
			return nil, fmt.Errorf("%w in %q referenced by %s", err, ref, path)
		}
	}

	siblings := siblingKeys(node)
	baseObject, baseIsObject := asObject(base)
	if base == nil {
		baseObject, baseIsObject = NewObject(), true
	}

	if !baseIsObject {
		if len(siblings) > 0 {
			return nil, fmt.Errorf("cannot merge sibling keys %v into non-mapping reference %q in %s",
				siblings, ref, path)
		}

		return base, nil
	}

	out := baseObject.Clone()
	for _, key := range siblings {
		value, _ := node.Get(key)
		resolved, err := resolver.Resolve(path, value)
		if err != nil {
			return nil, err
		}

		out.Set(key, resolved)
	}

	return out, nil
}

// logger returns the configured or default warning logger.
func (resolver *Resolver) logger() *slog.Logger {
	if resolver.Logger != nil {
		return resolver.Logger
	}

	return slog.Default()
}

// siblingKeys returns every key of a $ref mapping except the $ref itself.
func siblingKeys(node *Object) []string {
	keys := node.Keys()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "$ref" {
			continue
		}

		out = append(out, key)
	}

	return out
}

// resolveFragment walks a JSON-pointer fragment through a resolved document.
func resolveFragment(value any, fragment string) (any, error) {
	current := value
	for _, token := range strings.Split(strings.TrimPrefix(fragment, "/"), "/") {
		token = decodePointerToken(token)

		switch typed := current.(type) {
		case *Object:
			next, ok := typed.Get(token)
			if !ok {
				return nil, fmt.Errorf("%w: key %q", ErrBadFragment, token)
			}

			current = next
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, fmt.Errorf("%w: index %q", ErrBadFragment, token)
			}

			current = typed[index]
		default:
			return nil, fmt.Errorf("%w: cannot descend into scalar at %q", ErrBadFragment, token)
		}
	}

	return current, nil
}

// decodePointerToken unescapes one JSON pointer token.
func decodePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
