// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

package specdoc

import "log/slog"

// Build is the context for one documentation build invocation. It carries
// the reference resolver with its file cache and the extractor with its
// titling policy, constructed once per build and passed explicitly rather
// than held in package globals.
type Build struct {
	Resolver  *Resolver
	Extractor *Extractor
}

// BuildOptions configures one documentation build.
type BuildOptions struct {
	// LenientRefs substitutes empty objects for missing $ref targets.
	LenientRefs bool
	// StrictTitles fails on missing titles instead of substituting NO_TITLE.
	StrictTitles bool
	// Logger receives build warnings and progress. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewBuild creates a build context with the given options.
func NewBuild(options BuildOptions) *Build {
	resolver := NewResolver()
	resolver.Lenient = options.LenientRefs
	resolver.Logger = options.Logger

	return &Build{
		Resolver: resolver,
		Extractor: &Extractor{
			StrictTitles: options.StrictTitles,
			Logger:       options.Logger,
		},
	}
}

// logger returns the configured or default logger for build progress.
func (build *Build) logger() *slog.Logger {
	if build.Extractor != nil && build.Extractor.Logger != nil {
		return build.Extractor.Logger
	}

	return slog.Default()
}
